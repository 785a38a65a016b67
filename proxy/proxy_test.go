package proxy

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"

	"mccore/config"
	"mccore/protocol/mcnet"
	"mccore/protocol/mcnet/packets/c2s"
	"mccore/protocol/mcnet/packets/common"
	"mccore/protocol/mcnet/packets/s2c"
	"mccore/transport"
)

func rsaEncrypt(t *testing.T, der []byte, plaintext []byte) []byte {
	t.Helper()
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		t.Fatalf("parse public key: %v", err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		t.Fatalf("unexpected public key type %T", pub)
	}
	ciphertext, err := rsa.EncryptPKCS1v15(rand.Reader, rsaPub, plaintext)
	if err != nil {
		t.Fatalf("rsa encrypt: %v", err)
	}
	return ciphertext
}

func startProxiedPair(t *testing.T) (proxyAddr string) {
	t.Helper()
	upstreamCfg := config.DefaultServerConfig()
	upstreamCfg.Listen = "127.0.0.1:0"
	upstream, err := transport.Listen(upstreamCfg)
	if err != nil {
		t.Fatalf("listen upstream: %v", err)
	}
	go upstream.Serve()
	t.Cleanup(func() { upstream.Close() })
	upstreamAddr := upstream.Addr()

	proxyCfg := config.DefaultProxyConfig()
	proxyCfg.Listen = "127.0.0.1:0"
	proxyCfg.Upstream = upstreamAddr
	proxyCfg.DialTimeout = 2 * time.Second

	p, err := Listen(proxyCfg)
	if err != nil {
		t.Fatalf("listen proxy: %v", err)
	}
	go p.Serve()
	t.Cleanup(func() { p.Close() })

	return p.Addr()
}

func dial(t *testing.T, addr string) net.Conn {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		t.Fatalf("dial %s: %v", addr, err)
	}
	conn.SetDeadline(time.Now().Add(5 * time.Second))
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendHandshake(t *testing.T, conn net.Conn, intent mcnet.Intent) {
	t.Helper()
	hs := &common.Handshake{
		ProtocolVersion: 773,
		ServerAddress:   "localhost",
		ServerPort:      25565,
		Intent:          intent,
	}
	if err := mcnet.WriteFrame(conn, hs.ID(), hs.Encode); err != nil {
		t.Fatalf("write handshake: %v", err)
	}
}

// TestStatusPassesThrough covers spec scenario 5: a Status-intent handshake
// through the proxy behaves exactly as talking to the upstream directly.
func TestStatusPassesThrough(t *testing.T) {
	addr := startProxiedPair(t)
	conn := dial(t, addr)

	sendHandshake(t, conn, mcnet.IntentStatus)

	req := &c2s.StatusRequest{}
	if err := mcnet.WriteFrame(conn, req.ID(), req.Encode); err != nil {
		t.Fatalf("write status request: %v", err)
	}

	frame, err := mcnet.ReadFrame(conn, mcnet.DefaultMaxFrameLen)
	if err != nil {
		t.Fatalf("read status response: %v", err)
	}
	var resp s2c.StatusResponse
	if err := mcnet.DecodeExact(frame.Payload, resp.Decode); err != nil {
		t.Fatalf("decode status response: %v", err)
	}
	if resp.Status.Version.Protocol != 773 {
		t.Errorf("got protocol %d, want 773", resp.Status.Version.Protocol)
	}

	ping := &c2s.PingRequest{Timestamp: 42}
	if err := mcnet.WriteFrame(conn, ping.ID(), ping.Encode); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	frame, err = mcnet.ReadFrame(conn, mcnet.DefaultMaxFrameLen)
	if err != nil {
		t.Fatalf("read pong: %v", err)
	}
	var pong s2c.PongResponse
	if err := mcnet.DecodeExact(frame.Payload, pong.Decode); err != nil {
		t.Fatalf("decode pong: %v", err)
	}
	if pong.Timestamp != 42 {
		t.Errorf("got timestamp %d, want 42", pong.Timestamp)
	}
}

// TestLoginMiddleMan covers spec scenario 6: the proxy terminates the
// client's encryption handshake with its own keypair, and separately
// completes a distinct handshake with the upstream, then relays LoginSuccess
// once both halves are encrypted.
func TestLoginMiddleMan(t *testing.T) {
	addr := startProxiedPair(t)
	conn := dial(t, addr)

	sendHandshake(t, conn, mcnet.IntentLogin)

	id := uuid.New()
	start := &c2s.LoginStart{Name: "Notch", PlayerUUID: id}
	if err := mcnet.WriteFrame(conn, start.ID(), start.Encode); err != nil {
		t.Fatalf("write login start: %v", err)
	}

	frame, err := mcnet.ReadFrame(conn, mcnet.DefaultMaxFrameLen)
	if err != nil {
		t.Fatalf("read encryption request: %v", err)
	}
	var req s2c.EncryptionRequest
	if err := mcnet.DecodeExact(frame.Payload, req.Decode); err != nil {
		t.Fatalf("decode encryption request: %v", err)
	}

	secret := make([]byte, 16)
	if _, err := rand.Read(secret); err != nil {
		t.Fatal(err)
	}

	resp := &c2s.EncryptionResponse{
		SharedSecret: rsaEncrypt(t, req.PublicKey, secret),
		VerifyToken:  rsaEncrypt(t, req.PublicKey, req.VerifyToken),
	}
	if err := mcnet.WriteFrame(conn, resp.ID(), resp.Encode); err != nil {
		t.Fatalf("write encryption response: %v", err)
	}

	cipherConn := mcnet.NewCipherConn(conn)
	if err := cipherConn.EnableRead(secret); err != nil {
		t.Fatal(err)
	}
	if err := cipherConn.EnableWrite(secret); err != nil {
		t.Fatal(err)
	}

	frame, err = mcnet.ReadFrame(cipherConn, mcnet.DefaultMaxFrameLen)
	if err != nil {
		t.Fatalf("read login success: %v", err)
	}
	var success s2c.LoginSuccess
	if err := mcnet.DecodeExact(frame.Payload, success.Decode); err != nil {
		t.Fatalf("decode login success: %v", err)
	}
	if success.Profile.UUID != id {
		t.Errorf("got uuid %s, want %s", success.Profile.UUID, id)
	}
	if success.Profile.Username != "Notch" {
		t.Errorf("got username %q, want Notch", success.Profile.Username)
	}
}
