// Package transport drives accepted TCP sockets through the protocol's
// connection state machine: Handshaking, Status, Login, and
// Configuration-entry.
package transport

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"mccore/config"
	"mccore/logger"
	"mccore/playerreg"
	"mccore/protocol/mcnet"
	"mccore/protocol/mcnet/packets/c2s"
	"mccore/protocol/mcnet/packets/common"
	"mccore/protocol/mcnet/packets/s2c"
	"mccore/stats"
)

// Server accepts connections and runs each one through the state machine
// directly (no upstream is involved; contrast with the proxy package).
type Server struct {
	listener net.Listener
	keystore *mcnet.Keystore
	players  *playerreg.Registry
	cfg      *config.ServerConfig

	closeCh   chan struct{}
	closeOnce sync.Once
}

// Listen binds cfg.Listen and generates the server's one RSA-1024 keypair.
// The keypair is never rotated for the lifetime of the returned Server.
func Listen(cfg *config.ServerConfig) (*Server, error) {
	listener, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return nil, fmt.Errorf("listen tcp: %w", err)
	}

	keystore, err := mcnet.NewKeystore()
	if err != nil {
		listener.Close()
		return nil, fmt.Errorf("generate keystore: %w", err)
	}

	return &Server{
		listener: listener,
		keystore: keystore,
		players:  playerreg.New(),
		cfg:      cfg,
		closeCh:  make(chan struct{}),
	}, nil
}

// Serve accepts connections until Close is called, handling each in its own
// goroutine. It returns nil after a clean Close and an error for any other
// accept failure.
func (s *Server) Serve() error {
	logger.Info("server listening on %s (protocol %d)", s.listener.Addr(), s.cfg.ProtocolVersion)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.closeCh:
				return nil
			default:
				return fmt.Errorf("accept connection: %w", err)
			}
		}
		go s.handleConnection(conn)
	}
}

// Close stops the accept loop and closes the listener. Connections already
// in flight run to their own completion.
func (s *Server) Close() error {
	s.closeOnce.Do(func() { close(s.closeCh) })
	return s.listener.Close()
}

// Players returns the registry of currently logged-in game profiles.
func (s *Server) Players() *playerreg.Registry {
	return s.players
}

// Addr returns the listener's bound network address.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

func (s *Server) handleConnection(raw net.Conn) {
	remote := raw.RemoteAddr().String()
	if tcpConn, ok := raw.(*net.TCPConn); ok {
		tcpConn.SetKeepAlive(true)
		tcpConn.SetKeepAlivePeriod(30 * time.Second)
	}

	stats.Global().IncrementConnections()
	defer stats.Global().DecrementConnections()
	defer raw.Close()

	conn := newConnection(raw, s.keystore)
	if err := s.run(conn); err != nil {
		if errors.Is(err, mcnet.ErrConnectionClosed) {
			logger.Debug("%s: connection closed", remote)
		} else {
			logger.Warn("%s: %v", remote, err)
			stats.Global().IncrementConnectionErrors()
		}
	}

	if conn.profile != nil {
		s.players.Unregister(conn.profile.UUID)
	}
}

func (s *Server) run(conn *connection) error {
	for {
		frame, err := conn.readFrame()
		if err != nil {
			return err
		}
		stats.Global().IncrementPacketsReceived()

		var dispatchErr error
		switch conn.state {
		case mcnet.StateHandshaking:
			dispatchErr = s.dispatchHandshaking(conn, frame)
		case mcnet.StateStatus:
			dispatchErr = s.dispatchStatus(conn, frame)
		case mcnet.StateLogin:
			dispatchErr = s.dispatchLogin(conn, frame)
		case mcnet.StateConfiguration:
			dispatchErr = s.dispatchConfiguration(conn, frame)
		}
		if dispatchErr != nil {
			return dispatchErr
		}
	}
}

func (s *Server) dispatchHandshaking(conn *connection, frame mcnet.RawFrame) error {
	if frame.ID != 0x00 {
		return &mcnet.UnsupportedPacketError{State: conn.state, ID: frame.ID}
	}

	var hs common.Handshake
	if err := mcnet.DecodeExact(frame.Payload, hs.Decode); err != nil {
		return fmt.Errorf("decode handshake: %w", err)
	}

	if hs.ProtocolVersion != s.cfg.ProtocolVersion {
		conn.sendDisconnect(fmt.Sprintf(
			`{"text":"Unsupported protocol version %d, this server is on %d"}`,
			hs.ProtocolVersion, s.cfg.ProtocolVersion))
		return fmt.Errorf("protocol version %d: %w", hs.ProtocolVersion, mcnet.ErrUnsupportedProtocol)
	}

	switch hs.Intent {
	case mcnet.IntentStatus:
		conn.state = mcnet.StateStatus
	case mcnet.IntentLogin:
		conn.state = mcnet.StateLogin
	default:
		return fmt.Errorf("handshake intent %d: %w", hs.Intent, mcnet.ErrMalformedFrame)
	}
	return nil
}

func (s *Server) dispatchStatus(conn *connection, frame mcnet.RawFrame) error {
	switch frame.ID {
	case 0x00: // StatusRequest
		var req c2s.StatusRequest
		if err := mcnet.DecodeExact(frame.Payload, req.Decode); err != nil {
			return fmt.Errorf("decode status request: %w", err)
		}

		resp := &s2c.StatusResponse{Status: s.buildStatus()}
		if err := conn.send(resp); err != nil {
			return fmt.Errorf("write status response: %w", err)
		}
		stats.Global().IncrementPacketsSent("status_response")
		return nil

	case 0x01: // PingRequest
		var ping c2s.PingRequest
		if err := mcnet.DecodeExact(frame.Payload, ping.Decode); err != nil {
			return fmt.Errorf("decode ping request: %w", err)
		}

		pong := &s2c.PongResponse{Timestamp: ping.Timestamp}
		if err := conn.send(pong); err != nil {
			return fmt.Errorf("write pong response: %w", err)
		}
		stats.Global().IncrementPacketsSent("pong_response")
		return nil

	default:
		return &mcnet.UnsupportedPacketError{State: conn.state, ID: frame.ID}
	}
}

func (s *Server) buildStatus() s2c.ServerStatus {
	return s2c.ServerStatus{
		Version: s2c.StatusVersion{
			Name:     fmt.Sprintf("koria-core %d", s.cfg.ProtocolVersion),
			Protocol: uint32(s.cfg.ProtocolVersion),
		},
		Players: &s2c.StatusPlayers{
			Max:    uint32(s.cfg.MaxPlayers),
			Online: uint32(s.players.Count()),
		},
		Description: s.cfg.MOTD,
	}
}

func (s *Server) dispatchLogin(conn *connection, frame mcnet.RawFrame) error {
	switch frame.ID {
	case 0x00: // LoginStart
		var start c2s.LoginStart
		if err := mcnet.DecodeExact(frame.Payload, start.Decode); err != nil {
			return fmt.Errorf("decode login start: %w", err)
		}
		conn.pendingName = start.Name
		conn.pendingUUID = start.PlayerUUID

		token := make([]byte, 4)
		if _, err := rand.Read(token); err != nil {
			return fmt.Errorf("generate verify token: %w", err)
		}
		conn.verifyToken = token

		req := &s2c.EncryptionRequest{
			PublicKey:          s.keystore.PublicDER(),
			VerifyToken:        token,
			ShouldAuthenticate: false,
		}
		if err := conn.send(req); err != nil {
			return fmt.Errorf("write encryption request: %w", err)
		}
		stats.Global().IncrementPacketsSent("encryption_request")
		return nil

	case 0x01: // EncryptionResponse
		var resp c2s.EncryptionResponse
		if err := mcnet.DecodeExact(frame.Payload, resp.Decode); err != nil {
			return fmt.Errorf("decode encryption response: %w", err)
		}

		secret, err := s.keystore.Decrypt(resp.SharedSecret)
		if err != nil {
			return fmt.Errorf("decrypt shared secret: %w", mcnet.ErrCrypto)
		}
		token, err := s.keystore.Decrypt(resp.VerifyToken)
		if err != nil {
			return fmt.Errorf("decrypt verify token: %w", mcnet.ErrCrypto)
		}

		if subtle.ConstantTimeCompare(token, conn.verifyToken) != 1 {
			return fmt.Errorf("verify token mismatch: %w", mcnet.ErrCrypto)
		}
		if len(secret) != 16 {
			return fmt.Errorf("shared secret length %d: %w", len(secret), mcnet.ErrCrypto)
		}

		if err := conn.cipher.EnableRead(secret); err != nil {
			return fmt.Errorf("enable read cipher: %w", err)
		}
		if err := conn.cipher.EnableWrite(secret); err != nil {
			return fmt.Errorf("enable write cipher: %w", err)
		}

		profile := s2c.GameProfile{UUID: conn.pendingUUID, Username: truncateUsername(conn.pendingName)}
		if err := s.players.Register(profile); err != nil {
			logger.Warn("player registry: %v", err)
		}
		conn.profile = &profile

		success := &s2c.LoginSuccess{Profile: profile}
		if err := conn.send(success); err != nil {
			return fmt.Errorf("write login success: %w", err)
		}
		stats.Global().IncrementPacketsSent("login_success")
		return nil

	case 0x03: // LoginAcknowledged
		var ack c2s.LoginAcknowledged
		if err := mcnet.DecodeExact(frame.Payload, ack.Decode); err != nil {
			return fmt.Errorf("decode login acknowledged: %w", err)
		}
		conn.state = mcnet.StateConfiguration
		return nil

	default:
		return &mcnet.UnsupportedPacketError{State: conn.state, ID: frame.ID}
	}
}

func (s *Server) dispatchConfiguration(conn *connection, frame mcnet.RawFrame) error {
	switch frame.ID {
	case 0x00: // ClientInformation
		var info c2s.ClientInformation
		if err := mcnet.DecodeExact(frame.Payload, info.Decode); err != nil {
			return fmt.Errorf("decode client information: %w", err)
		}
		logger.Debug("client information from %s: locale=%s view_distance=%d main_hand=%d",
			conn.raw.RemoteAddr(), info.Locale, info.ViewDistance, info.MainHand)
		return nil

	case 0x02: // PluginMessage
		var msg c2s.PluginMessage
		if err := mcnet.DecodeExact(frame.Payload, msg.Decode); err != nil {
			return fmt.Errorf("decode plugin message: %w", err)
		}
		logger.Debug("plugin message from %s on %s: %d bytes",
			conn.raw.RemoteAddr(), msg.Channel, len(msg.Data))
		return nil

	default:
		return &mcnet.UnsupportedPacketError{State: conn.state, ID: frame.ID}
	}
}

// truncateUsername bounds a login name to the protocol's 16-byte string
// limit for the username slot of LoginSuccess.
func truncateUsername(name string) string {
	if len(name) > 16 {
		return name[:16]
	}
	return name
}
