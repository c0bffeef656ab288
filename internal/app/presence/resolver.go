/*
Package presence maintains the authoritative set of connected users and
resolves which of them are within chat range of each other.

This file implements the proximity resolver: a linear scan of the registry
against the great-circle distance predicate. O(n) per call is fine at the
population sizes this server targets; a spatial index could replace the scan
behind the same method signature if that ever changes.
*/
package presence

import (
	"mapchat/internal/app/geo"
	"mapchat/internal/app/user"
)

// Nearby returns every registered user other than u whose distance from u is
// at most rangeMeters. The boundary is inclusive: a user exactly rangeMeters
// away counts as near. u itself is excluded by ID, even when another entry
// shares its exact coordinates.
//
// The result is computed from a single snapshot of the registry and is
// deterministic for that snapshot; no adjacency is cached between calls.
func (r *Registry) Nearby(u user.User, rangeMeters float64) []user.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nearby := make([]user.User, 0)

	for id, other := range r.users {
		if id == u.ID {
			continue
		}

		if geo.Distance(u.Latitude, u.Longitude, other.Latitude, other.Longitude) <= rangeMeters {
			nearby = append(nearby, other)
		}
	}

	return nearby
}
