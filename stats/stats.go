// Package stats collects process-wide counters for the koria-core server
// and proxy engines.
package stats

import (
	"sync"
	"sync/atomic"
	"time"
)

// Stats holds atomic counters safe for concurrent use across every
// connection goroutine. There is exactly one live instance per process
// (Global), matching the keystore's process-wide, read-mostly lifecycle.
type Stats struct {
	TotalConnections  atomic.Uint64
	ActiveConnections atomic.Uint64
	FailedConnections atomic.Uint64

	BytesSent       atomic.Uint64
	BytesReceived   atomic.Uint64
	PacketsSent     atomic.Uint64
	PacketsReceived atomic.Uint64

	TotalErrors      atomic.Uint64
	ConnectionErrors atomic.Uint64
	PacketErrors     atomic.Uint64
	CryptoErrors     atomic.Uint64

	StartTime    time.Time
	LastActivity atomic.Value // time.Time

	packetTypesMu sync.RWMutex
	packetTypes   map[string]uint64
}

// NewStats returns a fresh, zeroed Stats with StartTime set to now.
func NewStats() *Stats {
	s := &Stats{
		StartTime:   time.Now(),
		packetTypes: make(map[string]uint64),
	}
	s.LastActivity.Store(time.Now())
	return s
}

func (s *Stats) IncrementConnections() {
	s.TotalConnections.Add(1)
	s.ActiveConnections.Add(1)
	s.updateActivity()
}

func (s *Stats) DecrementConnections() {
	s.ActiveConnections.Add(^uint64(0))
}

func (s *Stats) IncrementFailedConnections() {
	s.FailedConnections.Add(1)
}

func (s *Stats) AddBytesSent(n uint64) {
	s.BytesSent.Add(n)
	s.updateActivity()
}

func (s *Stats) AddBytesReceived(n uint64) {
	s.BytesReceived.Add(n)
	s.updateActivity()
}

// IncrementPacketsSent records one outbound packet of the given kind (a
// string such as "status_response" or "login_success").
func (s *Stats) IncrementPacketsSent(packetType string) {
	s.PacketsSent.Add(1)
	s.updateActivity()

	s.packetTypesMu.Lock()
	s.packetTypes[packetType]++
	s.packetTypesMu.Unlock()
}

func (s *Stats) IncrementPacketsReceived() {
	s.PacketsReceived.Add(1)
	s.updateActivity()
}

func (s *Stats) IncrementErrors() {
	s.TotalErrors.Add(1)
}

func (s *Stats) IncrementConnectionErrors() {
	s.ConnectionErrors.Add(1)
	s.TotalErrors.Add(1)
}

func (s *Stats) IncrementPacketErrors() {
	s.PacketErrors.Add(1)
	s.TotalErrors.Add(1)
}

func (s *Stats) IncrementCryptoErrors() {
	s.CryptoErrors.Add(1)
	s.TotalErrors.Add(1)
}

func (s *Stats) updateActivity() {
	s.LastActivity.Store(time.Now())
}

// Snapshot is a point-in-time copy of Stats suitable for reporting.
type Snapshot struct {
	TotalConnections  uint64
	ActiveConnections uint64
	FailedConnections uint64

	BytesSent       uint64
	BytesReceived   uint64
	PacketsSent     uint64
	PacketsReceived uint64

	TotalErrors      uint64
	ConnectionErrors uint64
	PacketErrors     uint64
	CryptoErrors     uint64

	Uptime       time.Duration
	LastActivity time.Time

	PacketTypes map[string]uint64
}

// GetSnapshot copies the current counters into a Snapshot.
func (s *Stats) GetSnapshot() Snapshot {
	s.packetTypesMu.RLock()
	packetTypesCopy := make(map[string]uint64, len(s.packetTypes))
	for k, v := range s.packetTypes {
		packetTypesCopy[k] = v
	}
	s.packetTypesMu.RUnlock()

	lastActivity := s.LastActivity.Load().(time.Time)

	return Snapshot{
		TotalConnections:  s.TotalConnections.Load(),
		ActiveConnections: s.ActiveConnections.Load(),
		FailedConnections: s.FailedConnections.Load(),

		BytesSent:       s.BytesSent.Load(),
		BytesReceived:   s.BytesReceived.Load(),
		PacketsSent:     s.PacketsSent.Load(),
		PacketsReceived: s.PacketsReceived.Load(),

		TotalErrors:      s.TotalErrors.Load(),
		ConnectionErrors: s.ConnectionErrors.Load(),
		PacketErrors:     s.PacketErrors.Load(),
		CryptoErrors:     s.CryptoErrors.Load(),

		Uptime:       time.Since(s.StartTime),
		LastActivity: lastActivity,

		PacketTypes: packetTypesCopy,
	}
}

// Reset zeroes every counter and restarts the uptime clock. Intended for
// tests; a running server has no supported reason to call it.
func (s *Stats) Reset() {
	s.TotalConnections.Store(0)
	s.ActiveConnections.Store(0)
	s.FailedConnections.Store(0)

	s.BytesSent.Store(0)
	s.BytesReceived.Store(0)
	s.PacketsSent.Store(0)
	s.PacketsReceived.Store(0)

	s.TotalErrors.Store(0)
	s.ConnectionErrors.Store(0)
	s.PacketErrors.Store(0)
	s.CryptoErrors.Store(0)

	s.StartTime = time.Now()
	s.LastActivity.Store(time.Now())

	s.packetTypesMu.Lock()
	s.packetTypes = make(map[string]uint64)
	s.packetTypesMu.Unlock()
}

var globalStats = NewStats()

// Global returns the process-wide Stats instance.
func Global() *Stats {
	return globalStats
}
