// Package playerreg tracks the game profiles of currently logged-in
// connections. It is the login-phase analogue of the teacher's
// config.UserValidator: a read-mostly map guarded by a single RWMutex, with
// no cross-connection coupling beyond membership.
package playerreg

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"mccore/protocol/mcnet/packets/s2c"
)

// Registry holds the GameProfile of every connection that has completed
// login. A connection registers itself just before LoginSuccess is written
// and unregisters on teardown.
type Registry struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]s2c.GameProfile
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{profiles: make(map[uuid.UUID]s2c.GameProfile)}
}

// Register adds profile to the registry. It returns an error, rather than
// overwriting, if the UUID is already present — duplicate logins are logged
// but not enforced against the upstream session service, which is out of
// scope for this core.
func (r *Registry) Register(profile s2c.GameProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.profiles[profile.UUID]; exists {
		return fmt.Errorf("playerreg: %s already registered", profile.UUID)
	}
	r.profiles[profile.UUID] = profile
	return nil
}

// Unregister removes id from the registry. It is a no-op if id is absent.
func (r *Registry) Unregister(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.profiles, id)
}

// Lookup returns the profile registered under id, if any.
func (r *Registry) Lookup(id uuid.UUID) (s2c.GameProfile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[id]
	return p, ok
}

// List returns a snapshot of every currently registered profile.
func (r *Registry) List() []s2c.GameProfile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]s2c.GameProfile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	return out
}

// Count returns the number of currently registered profiles.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles)
}
