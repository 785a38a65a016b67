package proxy

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
	"net"
	"sync"

	"mccore/logger"
	"mccore/protocol/mcnet"
	"mccore/protocol/mcnet/packets/c2s"
	"mccore/protocol/mcnet/packets/common"
	"mccore/protocol/mcnet/packets/s2c"
	"mccore/stats"
)

// session fuses one accepted client socket with one dialed upstream socket.
// It tracks a single logical protocol state (the two sides move in lockstep,
// since everything but the encryption dance itself is forwarded verbatim),
// and owns the one handoff point where the client's and upstream's
// encryption handshakes must be bridged: a synthesized EncryptionRequest
// sign by the proxy's own keystore, rather than a relayed copy of the
// upstream's.
type session struct {
	clientRaw net.Conn
	client    *mcnet.CipherConn
	upstream  *mcnet.CipherConn
	keystore  *mcnet.Keystore

	upstreamRaw net.Conn

	mu    sync.Mutex
	state mcnet.State

	clientVerifyToken []byte
	loginSuccess      chan mcnet.RawFrame
}

func newSession(clientRaw, upstreamRaw net.Conn, keystore *mcnet.Keystore) *session {
	return &session{
		clientRaw:    clientRaw,
		client:       mcnet.NewCipherConn(clientRaw),
		upstream:     mcnet.NewCipherConn(upstreamRaw),
		keystore:     keystore,
		upstreamRaw:  upstreamRaw,
		state:        mcnet.StateHandshaking,
		loginSuccess: make(chan mcnet.RawFrame, 1),
	}
}

func (s *session) getState() mcnet.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *session) setState(state mcnet.State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// setClientVerifyToken and getClientVerifyToken are mutex-guarded because
// the token is written on the upstream-reading goroutine (once the upstream
// server's own EncryptionRequest arrives) and read on the client-reading
// goroutine (once the client answers the proxy's synthesized
// EncryptionRequest) — two different pumps with no other synchronization
// between them.
func (s *session) setClientVerifyToken(token []byte) {
	s.mu.Lock()
	s.clientVerifyToken = token
	s.mu.Unlock()
}

func (s *session) getClientVerifyToken() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clientVerifyToken
}

// run drives both directions concurrently until either side fails; the
// first error tears down both connections, which unblocks the other pump's
// read.
func (s *session) run() error {
	errCh := make(chan error, 2)
	go func() { errCh <- s.pumpClientToUpstream() }()
	go func() { errCh <- s.pumpUpstreamToClient() }()

	first := <-errCh
	s.clientRaw.Close()
	s.upstreamRaw.Close()
	<-errCh
	return first
}

func forwardRaw(dst *mcnet.CipherConn, frame mcnet.RawFrame) error {
	return mcnet.WriteFrame(dst, frame.ID, func(w io.Writer) error {
		_, err := w.Write(frame.Payload)
		return err
	})
}

// pumpClientToUpstream reads serverbound frames from the client and either
// forwards them verbatim or, for the two frames that drive the dance
// (Handshake, EncryptionResponse), intercepts them.
func (s *session) pumpClientToUpstream() error {
	for {
		frame, err := mcnet.ReadFrame(s.client, mcnet.DefaultMaxFrameLen)
		if err != nil {
			return err
		}
		stats.Global().IncrementPacketsReceived()

		switch s.getState() {
		case mcnet.StateHandshaking:
			if err := s.handleClientHandshake(frame); err != nil {
				return err
			}
		case mcnet.StateLogin:
			if frame.ID == 0x01 { // EncryptionResponse
				if err := s.handleClientEncryptionResponse(frame); err != nil {
					return err
				}
				continue
			}
			if frame.ID == 0x03 { // LoginAcknowledged
				s.setState(mcnet.StateConfiguration)
			}
			if err := forwardRaw(s.upstream, frame); err != nil {
				return err
			}
		default:
			if err := forwardRaw(s.upstream, frame); err != nil {
				return err
			}
		}
	}
}

func (s *session) handleClientHandshake(frame mcnet.RawFrame) error {
	if frame.ID == 0x00 {
		var hs common.Handshake
		if err := mcnet.DecodeExact(frame.Payload, hs.Decode); err != nil {
			return fmt.Errorf("decode handshake: %w", err)
		}
		switch hs.Intent {
		case mcnet.IntentStatus:
			s.setState(mcnet.StateStatus)
		case mcnet.IntentLogin:
			s.setState(mcnet.StateLogin)
		default:
			logger.Debug("proxy: handshake intent %d left unhandled, forwarding raw", hs.Intent)
		}
	}
	return forwardRaw(s.upstream, frame)
}

// handleClientEncryptionResponse completes the client-facing half of the
// dance: decrypt with the proxy's own private key (the client encrypted
// against the EncryptionRequest the proxy itself synthesized), verify the
// token the proxy generated, then enable the client cipher and release the
// upstream's LoginSuccess — which may already be waiting in loginSuccess, or
// may not have arrived yet.
func (s *session) handleClientEncryptionResponse(frame mcnet.RawFrame) error {
	var resp c2s.EncryptionResponse
	if err := mcnet.DecodeExact(frame.Payload, resp.Decode); err != nil {
		return fmt.Errorf("decode encryption response: %w", err)
	}

	secret, err := s.keystore.Decrypt(resp.SharedSecret)
	if err != nil {
		return fmt.Errorf("decrypt client shared secret: %w", mcnet.ErrCrypto)
	}
	token, err := s.keystore.Decrypt(resp.VerifyToken)
	if err != nil {
		return fmt.Errorf("decrypt client verify token: %w", mcnet.ErrCrypto)
	}
	if subtle.ConstantTimeCompare(token, s.getClientVerifyToken()) != 1 {
		return fmt.Errorf("client verify token mismatch: %w", mcnet.ErrCrypto)
	}
	if len(secret) != 16 {
		return fmt.Errorf("client shared secret length %d: %w", len(secret), mcnet.ErrCrypto)
	}

	if err := s.client.EnableRead(secret); err != nil {
		return fmt.Errorf("enable client read cipher: %w", err)
	}
	if err := s.client.EnableWrite(secret); err != nil {
		return fmt.Errorf("enable client write cipher: %w", err)
	}

	success := <-s.loginSuccess
	if err := forwardRaw(s.client, success); err != nil {
		return fmt.Errorf("forward login success: %w", err)
	}
	stats.Global().IncrementPacketsSent("login_success")
	return nil
}

// pumpUpstreamToClient reads clientbound frames from the upstream server and
// either forwards them verbatim or, for EncryptionRequest, runs the
// upstream-facing half of the dance.
func (s *session) pumpUpstreamToClient() error {
	for {
		frame, err := mcnet.ReadFrame(s.upstream, mcnet.DefaultMaxFrameLen)
		if err != nil {
			return err
		}
		stats.Global().IncrementPacketsReceived()

		if s.getState() == mcnet.StateLogin {
			if frame.ID == 0x01 { // EncryptionRequest
				if err := s.handleUpstreamEncryptionRequest(frame); err != nil {
					return err
				}
				continue
			}
			if frame.ID == 0x02 { // LoginSuccess
				// Held until the client side of the dance completes; the
				// client may not even have received its own
				// EncryptionRequest yet.
				s.loginSuccess <- frame
				continue
			}
		}
		if err := forwardRaw(s.client, frame); err != nil {
			return err
		}
	}
}

// handleUpstreamEncryptionRequest runs steps 1-3 of the middle-man dance:
// answer the upstream's real EncryptionRequest with a freshly generated
// shared secret (encrypted under the upstream's own key, so the upstream
// never learns it is being proxied), latch the upstream cipher, then
// originate an independent EncryptionRequest toward the client signed with
// the proxy's own keypair.
func (s *session) handleUpstreamEncryptionRequest(frame mcnet.RawFrame) error {
	var req s2c.EncryptionRequest
	if err := mcnet.DecodeExact(frame.Payload, req.Decode); err != nil {
		return fmt.Errorf("decode upstream encryption request: %w", err)
	}

	secret := make([]byte, 16)
	if _, err := rand.Read(secret); err != nil {
		return fmt.Errorf("generate upstream shared secret: %w", err)
	}

	encSecret, err := mcnet.EncryptWith(req.PublicKey, secret)
	if err != nil {
		return fmt.Errorf("encrypt upstream shared secret: %w", mcnet.ErrCrypto)
	}
	encToken, err := mcnet.EncryptWith(req.PublicKey, req.VerifyToken)
	if err != nil {
		return fmt.Errorf("encrypt upstream verify token: %w", mcnet.ErrCrypto)
	}

	upstreamResp := &c2s.EncryptionResponse{SharedSecret: encSecret, VerifyToken: encToken}
	if err := mcnet.WriteFrame(s.upstream, upstreamResp.ID(), upstreamResp.Encode); err != nil {
		return fmt.Errorf("write upstream encryption response: %w", err)
	}

	if err := s.upstream.EnableRead(secret); err != nil {
		return fmt.Errorf("enable upstream read cipher: %w", err)
	}
	if err := s.upstream.EnableWrite(secret); err != nil {
		return fmt.Errorf("enable upstream write cipher: %w", err)
	}

	clientToken := make([]byte, 4)
	if _, err := rand.Read(clientToken); err != nil {
		return fmt.Errorf("generate client verify token: %w", err)
	}
	s.setClientVerifyToken(clientToken)

	ownReq := &s2c.EncryptionRequest{
		PublicKey:          s.keystore.PublicDER(),
		VerifyToken:        clientToken,
		ShouldAuthenticate: false,
	}
	if err := mcnet.WriteFrame(s.client, ownReq.ID(), ownReq.Encode); err != nil {
		return fmt.Errorf("write client encryption request: %w", err)
	}
	stats.Global().IncrementPacketsSent("encryption_request")
	return nil
}
