package common

import (
	"bytes"
	"testing"

	"mccore/protocol/mcnet"
)

func TestHandshakeRoundTrip(t *testing.T) {
	in := &Handshake{
		ProtocolVersion: 770,
		ServerAddress:   "play.example.com",
		ServerPort:      25565,
		Intent:          mcnet.IntentLogin,
	}

	var buf bytes.Buffer
	if err := in.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	out := &Handshake{}
	if err := out.Decode(&buf); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if *out != *in {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

func TestHandshakeID(t *testing.T) {
	if (&Handshake{}).ID() != 0x00 {
		t.Fatalf("unexpected id")
	}
}
