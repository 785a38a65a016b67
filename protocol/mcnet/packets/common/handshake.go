// Package common holds packets that are valid in more than one direction or
// are sent before a connection has committed to a protocol state.
package common

import (
	"io"

	"mccore/protocol/mcnet"
)

// Handshake is the first packet a client ever sends. Its Intent field
// decides whether the connection proceeds into Status or Login.
type Handshake struct {
	ProtocolVersion int32
	ServerAddress   string
	ServerPort      uint16
	Intent          mcnet.Intent
}

func (p *Handshake) ID() int32 { return 0x00 }

func (p *Handshake) Encode(w io.Writer) error {
	if err := mcnet.WriteVarInt(w, p.ProtocolVersion); err != nil {
		return err
	}
	if err := mcnet.WriteString(w, p.ServerAddress, 255); err != nil {
		return err
	}
	if err := mcnet.WriteUint16(w, p.ServerPort); err != nil {
		return err
	}
	return mcnet.WriteVarInt(w, int32(p.Intent))
}

func (p *Handshake) Decode(r io.Reader) error {
	var err error
	if p.ProtocolVersion, err = mcnet.ReadVarInt(r); err != nil {
		return err
	}
	if p.ServerAddress, err = mcnet.ReadString(r, 255); err != nil {
		return err
	}
	if p.ServerPort, err = mcnet.ReadUint16(r); err != nil {
		return err
	}
	intent, err := mcnet.ReadVarInt(r)
	if err != nil {
		return err
	}
	p.Intent = mcnet.Intent(intent)
	return nil
}
