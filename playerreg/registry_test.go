package playerreg

import (
	"testing"

	"github.com/google/uuid"

	"mccore/protocol/mcnet/packets/s2c"
)

func TestRegisterAndLookup(t *testing.T) {
	r := New()
	profile := s2c.GameProfile{UUID: uuid.New(), Username: "Notch"}

	if err := r.Register(profile); err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, ok := r.Lookup(profile.UUID)
	if !ok {
		t.Fatal("expected profile to be found")
	}
	if got.Username != profile.Username {
		t.Fatalf("got %q, want %q", got.Username, profile.Username)
	}
	if r.Count() != 1 {
		t.Fatalf("got count %d, want 1", r.Count())
	}
}

func TestRegisterRejectsDuplicateUUID(t *testing.T) {
	r := New()
	profile := s2c.GameProfile{UUID: uuid.New(), Username: "Notch"}

	if err := r.Register(profile); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(profile); err == nil {
		t.Fatal("expected error registering a duplicate UUID")
	}
}

func TestUnregister(t *testing.T) {
	r := New()
	profile := s2c.GameProfile{UUID: uuid.New(), Username: "Steve"}
	if err := r.Register(profile); err != nil {
		t.Fatalf("Register: %v", err)
	}

	r.Unregister(profile.UUID)

	if _, ok := r.Lookup(profile.UUID); ok {
		t.Fatal("expected profile to be gone after Unregister")
	}
	if r.Count() != 0 {
		t.Fatalf("got count %d, want 0", r.Count())
	}
}

func TestUnregisterMissingIsNoOp(t *testing.T) {
	r := New()
	r.Unregister(uuid.New())
	if r.Count() != 0 {
		t.Fatalf("got count %d, want 0", r.Count())
	}
}

func TestList(t *testing.T) {
	r := New()
	a := s2c.GameProfile{UUID: uuid.New(), Username: "A"}
	b := s2c.GameProfile{UUID: uuid.New(), Username: "B"}
	if err := r.Register(a); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(b); err != nil {
		t.Fatal(err)
	}

	list := r.List()
	if len(list) != 2 {
		t.Fatalf("got %d profiles, want 2", len(list))
	}
}
