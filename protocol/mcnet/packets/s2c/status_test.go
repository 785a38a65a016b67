package s2c

import (
	"bytes"
	"testing"
)

func TestStatusResponseRoundTrip(t *testing.T) {
	online := true
	in := &StatusResponse{
		Status: ServerStatus{
			Version: StatusVersion{Name: "1.21.1", Protocol: 767},
			Players: &StatusPlayers{
				Max:    20,
				Online: 3,
				Sample: []StatusPlayerSample{{Name: "Notch", ID: "069a79f4-44e9-4726-a5be-fca90e38aaf5"}},
			},
			Description:        "A koria server",
			EnforcesSecureChat: &online,
		},
	}

	var buf bytes.Buffer
	if err := in.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := &StatusResponse{}
	if err := out.Decode(&buf); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Status.Version != in.Status.Version {
		t.Errorf("version mismatch: got %+v, want %+v", out.Status.Version, in.Status.Version)
	}
	if out.Status.Description != in.Status.Description {
		t.Errorf("description mismatch: got %q, want %q", out.Status.Description, in.Status.Description)
	}
	if out.Status.Players == nil || out.Status.Players.Max != 20 || out.Status.Players.Online != 3 {
		t.Errorf("players mismatch: got %+v", out.Status.Players)
	}
}

func TestStatusResponseOmitsEmptyFields(t *testing.T) {
	in := &StatusResponse{Status: ServerStatus{Version: StatusVersion{Name: "1.21.1", Protocol: 767}}}
	var buf bytes.Buffer
	if err := in.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte("favicon")) {
		t.Error("expected favicon to be omitted when empty")
	}
	if bytes.Contains(buf.Bytes(), []byte("players")) {
		t.Error("expected players to be omitted when nil")
	}
}

func TestPongResponseRoundTrip(t *testing.T) {
	in := &PongResponse{Timestamp: 42}
	var buf bytes.Buffer
	if err := in.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := &PongResponse{}
	if err := out.Decode(&buf); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Timestamp != in.Timestamp {
		t.Fatalf("got %d, want %d", out.Timestamp, in.Timestamp)
	}
}
