package mcnet

import (
	"errors"
	"fmt"
)

// ErrConnectionClosed is returned when the peer closes the connection at a
// frame boundary. It is not a protocol failure and must not be logged as one.
var ErrConnectionClosed = errors.New("mcnet: connection closed")

// ErrMalformedFrame covers varint overflow, truncated payloads, trailing
// bytes after schema exhaustion, bad UTF-8, and size-limit violations.
var ErrMalformedFrame = errors.New("mcnet: malformed frame")

// ErrUnsupportedProtocol is returned when a handshake declares a protocol
// version this server does not implement.
var ErrUnsupportedProtocol = errors.New("mcnet: unsupported protocol version")

// ErrUnsupportedPacket is returned on a dispatch miss: no handler is
// registered for the (state, packet id) pair.
var ErrUnsupportedPacket = errors.New("mcnet: unsupported packet id")

// ErrCrypto covers RSA decrypt failure, verify-token mismatch, and
// wrong-sized shared secrets. Never wrap the plaintext of a failed
// decryption into this error.
var ErrCrypto = errors.New("mcnet: crypto error")

// Overflow reports that a varint would require more bytes than its type allows.
type OverflowError struct {
	Kind string // "varint" or "varlong"
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("mcnet: %s overflow", e.Kind)
}

func (e *OverflowError) Unwrap() error { return ErrMalformedFrame }

// UnsupportedPacketError carries the (state, id) pair that failed dispatch.
type UnsupportedPacketError struct {
	State State
	ID    int32
}

func (e *UnsupportedPacketError) Error() string {
	return fmt.Sprintf("mcnet: unsupported packet 0x%02X in state %s", e.ID, e.State)
}

func (e *UnsupportedPacketError) Unwrap() error { return ErrUnsupportedPacket }

// TooLargeError reports a length bound violation on a string, JSON payload,
// or frame.
type TooLargeError struct {
	What  string
	Got   int
	Limit int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("mcnet: %s too large: %d > %d", e.What, e.Got, e.Limit)
}

func (e *TooLargeError) Unwrap() error { return ErrMalformedFrame }
