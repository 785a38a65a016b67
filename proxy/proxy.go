// Package proxy implements the MITM proxy variant: it terminates the
// client's encryption handshake and originates a distinct one with the
// upstream server, so every frame in both directions can be observed as
// cleartext at the moment it crosses the proxy.
package proxy

import (
	"errors"
	"fmt"
	"net"
	"sync"

	"mccore/config"
	"mccore/logger"
	"mccore/protocol/mcnet"
	"mccore/stats"
	"mccore/transport"
)

// Proxy accepts client connections and, for each one, dials a single fixed
// upstream server and fuses the two into one MITM session.
type Proxy struct {
	listener net.Listener
	keystore *mcnet.Keystore
	cfg      *config.ProxyConfig

	closeCh   chan struct{}
	closeOnce sync.Once
}

// Listen binds cfg.Listen and generates the proxy's own RSA-1024 keypair —
// distinct from whatever keypair the upstream server uses, since the proxy
// must sign its own EncryptionRequest to the client.
func Listen(cfg *config.ProxyConfig) (*Proxy, error) {
	listener, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return nil, fmt.Errorf("listen tcp: %w", err)
	}

	keystore, err := mcnet.NewKeystore()
	if err != nil {
		listener.Close()
		return nil, fmt.Errorf("generate keystore: %w", err)
	}

	return &Proxy{
		listener: listener,
		keystore: keystore,
		cfg:      cfg,
		closeCh:  make(chan struct{}),
	}, nil
}

// Serve accepts connections until Close is called.
func (p *Proxy) Serve() error {
	logger.Info("proxy listening on %s, upstream %s", p.listener.Addr(), p.cfg.Upstream)
	for {
		conn, err := p.listener.Accept()
		if err != nil {
			select {
			case <-p.closeCh:
				return nil
			default:
				return fmt.Errorf("accept connection: %w", err)
			}
		}
		go p.handleConnection(conn)
	}
}

// Close stops the accept loop and closes the listener.
func (p *Proxy) Close() error {
	p.closeOnce.Do(func() { close(p.closeCh) })
	return p.listener.Close()
}

// Addr returns the listener's bound network address.
func (p *Proxy) Addr() string {
	return p.listener.Addr().String()
}

func (p *Proxy) handleConnection(clientRaw net.Conn) {
	remote := clientRaw.RemoteAddr().String()
	defer clientRaw.Close()

	stats.Global().IncrementConnections()
	defer stats.Global().DecrementConnections()

	upstreamRaw, err := transport.DialUpstream(p.cfg.Upstream, p.cfg.DialTimeout)
	if err != nil {
		logger.Warn("%s: %v", remote, err)
		stats.Global().IncrementConnectionErrors()
		return
	}
	defer upstreamRaw.Close()

	sess := newSession(clientRaw, upstreamRaw, p.keystore)
	if err := sess.run(); err != nil {
		if errors.Is(err, mcnet.ErrConnectionClosed) {
			logger.Debug("%s: session ended: %v", remote, err)
		} else {
			logger.Warn("%s: session ended: %v", remote, err)
		}
	}
}
