package s2c

import (
	"io"

	"github.com/google/uuid"

	"mccore/protocol/mcnet"
)

// EncryptionRequest opens the key-agreement handshake: a server (or a proxy
// impersonating one) hands the client its RSA public key and a nonce the
// client must round-trip to prove it holds the corresponding private key.
type EncryptionRequest struct {
	ServerID          string
	PublicKey         []byte
	VerifyToken       []byte
	ShouldAuthenticate bool
}

func (p *EncryptionRequest) ID() int32 { return 0x01 }

func (p *EncryptionRequest) Encode(w io.Writer) error {
	if err := mcnet.WriteString(w, p.ServerID, 20); err != nil {
		return err
	}
	if err := mcnet.WriteByteArray(w, p.PublicKey); err != nil {
		return err
	}
	if err := mcnet.WriteByteArray(w, p.VerifyToken); err != nil {
		return err
	}
	return mcnet.WriteBool(w, p.ShouldAuthenticate)
}

func (p *EncryptionRequest) Decode(r io.Reader) error {
	serverID, err := mcnet.ReadString(r, 20)
	if err != nil {
		return err
	}
	pub, err := mcnet.ReadByteArray(r, 512)
	if err != nil {
		return err
	}
	token, err := mcnet.ReadByteArray(r, 256)
	if err != nil {
		return err
	}
	auth, err := mcnet.ReadBool(r)
	if err != nil {
		return err
	}
	p.ServerID = serverID
	p.PublicKey = pub
	p.VerifyToken = token
	p.ShouldAuthenticate = auth
	return nil
}

// Property is a signed profile attribute (e.g. skin texture). This core
// never populates it; the field exists because LoginSuccess's wire schema
// requires the slot.
type Property struct {
	Name      string
	Value     string
	Signature *string
}

func writeProperty(w io.Writer, p Property) error {
	if err := mcnet.WriteString(w, p.Name, 32767); err != nil {
		return err
	}
	if err := mcnet.WriteString(w, p.Value, 32767); err != nil {
		return err
	}
	return mcnet.WritePrefixedOptional(w, p.Signature, func(w io.Writer, s string) error {
		return mcnet.WriteString(w, s, 32767)
	})
}

func readProperty(r io.Reader) (Property, error) {
	var p Property
	var err error
	if p.Name, err = mcnet.ReadString(r, 32767); err != nil {
		return p, err
	}
	if p.Value, err = mcnet.ReadString(r, 32767); err != nil {
		return p, err
	}
	p.Signature, err = mcnet.ReadPrefixedOptional(r, func(r io.Reader) (string, error) {
		return mcnet.ReadString(r, 32767)
	})
	return p, err
}

// GameProfile is the identity record delivered on successful login. This
// core leaves Properties empty — it performs no Mojang session lookup.
type GameProfile struct {
	UUID       uuid.UUID
	Username   string
	Properties []Property
}

// LoginSuccess completes the login handshake.
type LoginSuccess struct {
	Profile GameProfile
}

func (p *LoginSuccess) ID() int32 { return 0x02 }

func (p *LoginSuccess) Encode(w io.Writer) error {
	b, err := p.Profile.UUID.MarshalBinary()
	if err != nil {
		return err
	}
	var arr [16]byte
	copy(arr[:], b)
	if err := mcnet.WriteUUID(w, arr); err != nil {
		return err
	}
	if err := mcnet.WriteString(w, p.Profile.Username, 16); err != nil {
		return err
	}
	return mcnet.WritePrefixedArray(w, p.Profile.Properties, writeProperty)
}

func (p *LoginSuccess) Decode(r io.Reader) error {
	arr, err := mcnet.ReadUUID(r)
	if err != nil {
		return err
	}
	id, err := uuid.FromBytes(arr[:])
	if err != nil {
		return mcnet.ErrMalformedFrame
	}
	name, err := mcnet.ReadString(r, 16)
	if err != nil {
		return err
	}
	props, err := mcnet.ReadPrefixedArray(r, 1024, readProperty)
	if err != nil {
		return err
	}
	p.Profile = GameProfile{UUID: id, Username: name, Properties: props}
	return nil
}

// Disconnect carries a JSON chat-component reason, sent best-effort before a
// login-phase connection is torn down (e.g. an unsupported protocol
// version).
type Disconnect struct {
	Reason string
}

func (p *Disconnect) ID() int32 { return 0x00 }

func (p *Disconnect) Encode(w io.Writer) error {
	return mcnet.WriteString(w, p.Reason, 262144)
}

func (p *Disconnect) Decode(r io.Reader) error {
	reason, err := mcnet.ReadString(r, 262144)
	if err != nil {
		return err
	}
	p.Reason = reason
	return nil
}
