// Package c2s holds serverbound packet schemas.
package c2s

import (
	"io"

	"mccore/protocol/mcnet"
)

// StatusRequest carries no fields; its arrival triggers a StatusResponse.
type StatusRequest struct{}

func (p *StatusRequest) ID() int32            { return 0x00 }
func (p *StatusRequest) Encode(io.Writer) error { return nil }
func (p *StatusRequest) Decode(io.Reader) error { return nil }

// PingRequest carries an opaque timestamp the server must echo unchanged.
type PingRequest struct {
	Timestamp int64
}

func (p *PingRequest) ID() int32 { return 0x01 }

func (p *PingRequest) Encode(w io.Writer) error {
	return mcnet.WriteInt64(w, p.Timestamp)
}

func (p *PingRequest) Decode(r io.Reader) error {
	v, err := mcnet.ReadInt64(r)
	if err != nil {
		return err
	}
	p.Timestamp = v
	return nil
}
