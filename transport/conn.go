package transport

import (
	"io"
	"net"

	"github.com/google/uuid"

	"mccore/protocol/mcnet"
	"mccore/protocol/mcnet/packets/s2c"
)

// outboundPacket is satisfied by every clientbound packet type in
// protocol/mcnet/packets/{common,s2c}; it is declared locally because the
// packet packages deliberately carry no shared interface (schemas are typed
// structs, not polymorphic records, per the wire codec's design).
type outboundPacket interface {
	ID() int32
	Encode(io.Writer) error
}

// connection is one accepted socket's worth of state machine: the frame
// layer wrapped in a cipher that starts as a pass-through, the current
// protocol state, and the login-phase bookkeeping needed to complete the
// encryption handshake.
type connection struct {
	raw      net.Conn
	cipher   *mcnet.CipherConn
	state    mcnet.State
	keystore *mcnet.Keystore

	pendingName string
	pendingUUID uuid.UUID
	verifyToken []byte
	profile     *s2c.GameProfile
}

func newConnection(raw net.Conn, keystore *mcnet.Keystore) *connection {
	return &connection{
		raw:      raw,
		cipher:   mcnet.NewCipherConn(raw),
		state:    mcnet.StateHandshaking,
		keystore: keystore,
	}
}

func (c *connection) readFrame() (mcnet.RawFrame, error) {
	return mcnet.ReadFrame(c.cipher, mcnet.DefaultMaxFrameLen)
}

func (c *connection) send(p outboundPacket) error {
	return mcnet.WriteFrame(c.cipher, p.ID(), p.Encode)
}

// sendDisconnect writes a clientbound Disconnect best-effort; the connection
// is being torn down regardless, so a write failure here is not reported to
// the caller.
func (c *connection) sendDisconnect(reason string) {
	_ = c.send(&s2c.Disconnect{Reason: reason})
}
