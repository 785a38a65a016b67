package c2s

import (
	"io"

	"github.com/google/uuid"

	"mccore/protocol/mcnet"
)

// LoginStart is the first Login-state packet a client sends, naming itself
// and the UUID it claims to hold.
type LoginStart struct {
	Name       string
	PlayerUUID uuid.UUID
}

func (p *LoginStart) ID() int32 { return 0x00 }

func (p *LoginStart) Encode(w io.Writer) error {
	if err := mcnet.WriteString(w, p.Name, 16); err != nil {
		return err
	}
	b, err := p.PlayerUUID.MarshalBinary()
	if err != nil {
		return err
	}
	var arr [16]byte
	copy(arr[:], b)
	return mcnet.WriteUUID(w, arr)
}

func (p *LoginStart) Decode(r io.Reader) error {
	name, err := mcnet.ReadString(r, 16)
	if err != nil {
		return err
	}
	p.Name = name

	arr, err := mcnet.ReadUUID(r)
	if err != nil {
		return err
	}
	id, err := uuid.FromBytes(arr[:])
	if err != nil {
		return mcnet.ErrMalformedFrame
	}
	p.PlayerUUID = id
	return nil
}

// maxRSABlobLen bounds the shared_secret and verify_token byte arrays. An
// RSA-1024 PKCS#1v1.5 ciphertext is at most 128 bytes; 256 gives headroom
// without letting a hostile peer force a large allocation.
const maxRSABlobLen = 256

// EncryptionResponse is the client's reply to an EncryptionRequest: the
// shared secret and verify token, both RSA-encrypted under the server's
// public key.
type EncryptionResponse struct {
	SharedSecret []byte
	VerifyToken  []byte
}

func (p *EncryptionResponse) ID() int32 { return 0x01 }

func (p *EncryptionResponse) Encode(w io.Writer) error {
	if err := mcnet.WriteByteArray(w, p.SharedSecret); err != nil {
		return err
	}
	return mcnet.WriteByteArray(w, p.VerifyToken)
}

func (p *EncryptionResponse) Decode(r io.Reader) error {
	secret, err := mcnet.ReadByteArray(r, maxRSABlobLen)
	if err != nil {
		return err
	}
	token, err := mcnet.ReadByteArray(r, maxRSABlobLen)
	if err != nil {
		return err
	}
	p.SharedSecret = secret
	p.VerifyToken = token
	return nil
}

// LoginAcknowledged carries no fields; its arrival transitions the
// connection from Login into Configuration.
type LoginAcknowledged struct{}

func (p *LoginAcknowledged) ID() int32            { return 0x03 }
func (p *LoginAcknowledged) Encode(io.Writer) error { return nil }
func (p *LoginAcknowledged) Decode(io.Reader) error { return nil }
