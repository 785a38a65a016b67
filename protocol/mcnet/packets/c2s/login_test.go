package c2s

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/uuid"

	"mccore/protocol/mcnet"
)

func TestLoginStartRoundTrip(t *testing.T) {
	in := &LoginStart{
		Name:       "Notch",
		PlayerUUID: uuid.MustParse("069a79f4-44e9-4726-a5be-fca90e38aaf5"),
	}
	var buf bytes.Buffer
	if err := in.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := &LoginStart{}
	if err := out.Decode(&buf); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Name != in.Name || out.PlayerUUID != in.PlayerUUID {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

func TestEncryptionResponseRoundTrip(t *testing.T) {
	in := &EncryptionResponse{
		SharedSecret: bytes.Repeat([]byte{0x11}, 128),
		VerifyToken:  []byte{1, 2, 3, 4},
	}
	var buf bytes.Buffer
	if err := in.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := &EncryptionResponse{}
	if err := out.Decode(&buf); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(out.SharedSecret, in.SharedSecret) || !bytes.Equal(out.VerifyToken, in.VerifyToken) {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

func TestEncryptionResponseRejectsOversizedSecret(t *testing.T) {
	var buf bytes.Buffer
	if err := mcnet.WriteByteArray(&buf, bytes.Repeat([]byte{0x01}, maxRSABlobLen+1)); err != nil {
		t.Fatal(err)
	}
	out := &EncryptionResponse{}
	var tooLarge *mcnet.TooLargeError
	if err := out.Decode(&buf); !errors.As(err, &tooLarge) {
		t.Fatalf("expected TooLargeError, got %v", err)
	}
}

func TestLoginAcknowledgedRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	in := &LoginAcknowledged{}
	if err := in.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected empty encoding, got %d bytes", buf.Len())
	}
	out := &LoginAcknowledged{}
	if err := out.Decode(&buf); err != nil {
		t.Fatalf("Decode: %v", err)
	}
}
