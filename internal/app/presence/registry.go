/*
Package presence maintains the authoritative set of connected users and
resolves which of them are within chat range of each other.

The Registry is the single shared mutable state in the server. All access
goes through its methods; callers receive value copies and snapshots, never
references into the map.
*/
package presence

import (
	"fmt"
	"sync"

	"mapchat/internal/app/user"
)

// Registry is a process-wide mapping from user ID to the user's last-known
// record. It is created once at startup and lives for the process lifetime.
type Registry struct {
	// mu serializes all reads and writes to users.
	mu sync.RWMutex

	// users holds the single authoritative copy of each record, by value.
	users map[string]user.User
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		users: make(map[string]user.User),
	}
}

// Upsert inserts or fully replaces the entry for u.ID. An entry is never
// patched field-by-field; the stored record is overwritten wholesale.
func (r *Registry) Upsert(u user.User) error {
	if u.ID == "" {
		return fmt.Errorf("upsert requires a non-empty user id")
	}

	r.mu.Lock()
	r.users[u.ID] = u
	r.mu.Unlock()

	return nil
}

// Remove deletes the entry for id if present. Removing an absent id is a
// no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.users, id)
	r.mu.Unlock()
}

// Get returns the current record for id and whether it exists.
func (r *Registry) Get(id string) (user.User, bool) {
	r.mu.RLock()
	u, ok := r.users[id]
	r.mu.RUnlock()

	return u, ok
}

// All returns a materialized snapshot of every current entry. No ordering is
// guaranteed.
func (r *Registry) All() []user.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]user.User, 0, len(r.users))
	for _, u := range r.users {
		snapshot = append(snapshot, u)
	}

	return snapshot
}

// Len returns the number of registered users.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.users)
}
