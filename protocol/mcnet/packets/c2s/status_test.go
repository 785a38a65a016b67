package c2s

import (
	"bytes"
	"testing"
)

func TestStatusRequestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	in := &StatusRequest{}
	if err := in.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected empty encoding, got %d bytes", buf.Len())
	}
	out := &StatusRequest{}
	if err := out.Decode(&buf); err != nil {
		t.Fatalf("Decode: %v", err)
	}
}

func TestPingRequestRoundTrip(t *testing.T) {
	in := &PingRequest{Timestamp: -123456789}
	var buf bytes.Buffer
	if err := in.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := &PingRequest{}
	if err := out.Decode(&buf); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Timestamp != in.Timestamp {
		t.Fatalf("got %d, want %d", out.Timestamp, in.Timestamp)
	}
}
