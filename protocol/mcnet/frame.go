package mcnet

import (
	"bytes"
	"io"

	"mccore/common/bufpool"
)

// DefaultMaxFrameLen bounds the declared length of a frame to keep a
// hostile peer from stalling an allocator with an oversized claim. It is
// 2^21 bytes, one more than the largest length a 3-byte varint prefix can
// carry (2^21-1).
const DefaultMaxFrameLen = 1 << 21

// RawFrame is one length-delimited unit on the wire, already split into its
// packet id and undeserialized payload. The frame layer does not interpret id.
type RawFrame struct {
	ID      int32
	Payload []byte
}

// ReadFrame reads one frame from r: length:varint, then id:varint + payload
// within exactly that many bytes.
//
// A clean EOF at the length varint surfaces as ErrConnectionClosed. Anything
// else wrong — an oversized length, a truncated id, a read failure inside the
// bounded region — is ErrMalformedFrame, and the stream must be abandoned
// (no partial-consumption retry is attempted).
func ReadFrame(r io.Reader, maxLen int) (RawFrame, error) {
	length, err := ReadVarInt(r)
	if err != nil {
		return RawFrame{}, err
	}
	if length < 0 || int(length) > maxLen {
		return RawFrame{}, &TooLargeError{What: "frame", Got: int(length), Limit: maxLen}
	}

	body := bufpool.Get(int(length))
	defer bufpool.Put(body)

	if _, err := io.ReadFull(r, body[:length]); err != nil {
		return RawFrame{}, ErrMalformedFrame
	}

	sub := bytes.NewReader(body[:length])
	id, err := ReadVarInt(sub)
	if err != nil {
		if err == ErrConnectionClosed {
			// The peer can't cleanly close mid-frame; a short read inside a
			// bounded region is always malformed, not a clean hangup.
			return RawFrame{}, ErrMalformedFrame
		}
		return RawFrame{}, err
	}

	payload := make([]byte, sub.Len())
	if _, err := io.ReadFull(sub, payload); err != nil {
		return RawFrame{}, ErrMalformedFrame
	}

	return RawFrame{ID: id, Payload: payload}, nil
}

// WriteFrame serializes id and a payload (produced by writePayload into an
// in-memory buffer) behind a single varint length prefix, then writes the
// whole frame as one logical unit.
func WriteFrame(w io.Writer, id int32, writePayload func(io.Writer) error) error {
	var body bytes.Buffer
	if err := WriteVarInt(&body, id); err != nil {
		return err
	}
	if writePayload != nil {
		if err := writePayload(&body); err != nil {
			return err
		}
	}

	if body.Len() > 0x7FFFFFFF {
		return &TooLargeError{What: "frame", Got: body.Len(), Limit: 0x7FFFFFFF}
	}

	var out bytes.Buffer
	out.Grow(MaxVarIntLen + body.Len())
	if err := WriteVarInt(&out, int32(body.Len())); err != nil {
		return err
	}
	out.Write(body.Bytes())

	_, err := w.Write(out.Bytes())
	return err
}

// DecodeExact runs decode over payload and fails with ErrMalformedFrame if
// decode leaves any bytes unconsumed — a frame whose payload is not exactly
// exhausted by its declared schema is a protocol error, not something to
// silently truncate.
func DecodeExact(payload []byte, decode func(io.Reader) error) error {
	r := bytes.NewReader(payload)
	if err := decode(r); err != nil {
		return err
	}
	if r.Len() != 0 {
		return ErrMalformedFrame
	}
	return nil
}
