package c2s

import (
	"io"

	"mccore/protocol/mcnet"
)

// ClientInformation reports client-side settings. The core records it but
// owes no reply — Play-phase behavior driven by these settings is out of
// scope.
type ClientInformation struct {
	Locale              string
	ViewDistance        int8
	ChatMode            int32
	ChatColors          bool
	DisplayedSkinParts  uint8
	MainHand            int32
	EnableTextFiltering bool
	AllowServerListings bool
	ParticleStatus      int32
}

func (p *ClientInformation) ID() int32 { return 0x00 }

func (p *ClientInformation) Encode(w io.Writer) error {
	if err := mcnet.WriteString(w, p.Locale, 16); err != nil {
		return err
	}
	if err := mcnet.WriteInt8(w, p.ViewDistance); err != nil {
		return err
	}
	if err := mcnet.WriteVarInt(w, p.ChatMode); err != nil {
		return err
	}
	if err := mcnet.WriteBool(w, p.ChatColors); err != nil {
		return err
	}
	if err := mcnet.WriteUint8(w, p.DisplayedSkinParts); err != nil {
		return err
	}
	if err := mcnet.WriteVarInt(w, p.MainHand); err != nil {
		return err
	}
	if err := mcnet.WriteBool(w, p.EnableTextFiltering); err != nil {
		return err
	}
	if err := mcnet.WriteBool(w, p.AllowServerListings); err != nil {
		return err
	}
	return mcnet.WriteVarInt(w, p.ParticleStatus)
}

func (p *ClientInformation) Decode(r io.Reader) error {
	var err error
	if p.Locale, err = mcnet.ReadString(r, 16); err != nil {
		return err
	}
	if p.ViewDistance, err = mcnet.ReadInt8(r); err != nil {
		return err
	}
	if p.ChatMode, err = mcnet.ReadVarInt(r); err != nil {
		return err
	}
	if p.ChatColors, err = mcnet.ReadBool(r); err != nil {
		return err
	}
	if p.DisplayedSkinParts, err = mcnet.ReadUint8(r); err != nil {
		return err
	}
	if p.MainHand, err = mcnet.ReadVarInt(r); err != nil {
		return err
	}
	if p.EnableTextFiltering, err = mcnet.ReadBool(r); err != nil {
		return err
	}
	if p.AllowServerListings, err = mcnet.ReadBool(r); err != nil {
		return err
	}
	p.ParticleStatus, err = mcnet.ReadVarInt(r)
	return err
}

// maxPluginMessageLen bounds the remaining-bytes-of-frame PluginMessage
// payload so a malicious channel name cannot be paired with an unbounded tail.
const maxPluginMessageLen = 1 << 20

// PluginMessage carries a channel identifier and raw application data that
// runs to the end of the frame. The core logs and discards it.
type PluginMessage struct {
	Channel string
	Data    []byte
}

func (p *PluginMessage) ID() int32 { return 0x02 }

func (p *PluginMessage) Encode(w io.Writer) error {
	if err := mcnet.WriteString(w, p.Channel, 32767); err != nil {
		return err
	}
	_, err := w.Write(p.Data)
	return err
}

func (p *PluginMessage) Decode(r io.Reader) error {
	channel, err := mcnet.ReadString(r, 32767)
	if err != nil {
		return err
	}
	p.Channel = channel

	data, err := io.ReadAll(io.LimitReader(r, maxPluginMessageLen+1))
	if err != nil {
		return mcnet.ErrMalformedFrame
	}
	if len(data) > maxPluginMessageLen {
		return &mcnet.TooLargeError{What: "plugin message", Got: len(data), Limit: maxPluginMessageLen}
	}
	p.Data = data
	return nil
}
