package stats

import "testing"

func TestConnectionCounters(t *testing.T) {
	s := NewStats()
	s.IncrementConnections()
	s.IncrementConnections()
	s.DecrementConnections()

	snap := s.GetSnapshot()
	if snap.TotalConnections != 2 {
		t.Errorf("got total %d, want 2", snap.TotalConnections)
	}
	if snap.ActiveConnections != 1 {
		t.Errorf("got active %d, want 1", snap.ActiveConnections)
	}
}

func TestPacketTypeCounters(t *testing.T) {
	s := NewStats()
	s.IncrementPacketsSent("status_response")
	s.IncrementPacketsSent("status_response")
	s.IncrementPacketsSent("pong_response")

	snap := s.GetSnapshot()
	if snap.PacketsSent != 3 {
		t.Errorf("got packets sent %d, want 3", snap.PacketsSent)
	}
	if snap.PacketTypes["status_response"] != 2 {
		t.Errorf("got status_response count %d, want 2", snap.PacketTypes["status_response"])
	}
}

func TestReset(t *testing.T) {
	s := NewStats()
	s.IncrementConnections()
	s.IncrementConnectionErrors()
	s.Reset()

	snap := s.GetSnapshot()
	if snap.TotalConnections != 0 || snap.TotalErrors != 0 {
		t.Fatalf("expected zeroed stats after Reset, got %+v", snap)
	}
}
