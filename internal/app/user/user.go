/*
Package user contains core data structures related to participant identity.

It defines the basic representation of a user within the proximity chat system
(the User struct), used for passing user information both internally and to clients.
*/
package user

import (
	"fmt"
	"strings"
	"time"
)

// MaxNameLength is the maximum allowed length (in bytes) for a display name.
const MaxNameLength = 64

// User represents one active participant and its last-known position.
// Fields use JSON tags for serialization in WebSocket messages.
type User struct {

	// ID is the unique identifier for the user, client-generated at join time.
	ID string `json:"id"`

	// Name is the display name shown to nearby users. Immutable after join.
	Name string `json:"name"`

	// Color is the display color assigned to the user, as a hex string. Immutable after join.
	Color string `json:"color"`

	// Latitude and Longitude hold the current position in decimal degrees (WGS84).
	// Overwritten wholesale on every move event.
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// IsOnline and LastSeen are presence metadata carried on the wire.
	// The server relays them as received and never updates them itself.
	IsOnline bool      `json:"isOnline"`
	LastSeen time.Time `json:"lastSeen"`
}

// Validate checks the fields a joining or moving user must supply.
func (u User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("user id is required")
	}

	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("user name is required")
	}

	if len(u.Name) > MaxNameLength {
		return fmt.Errorf("user name exceeds %d bytes", MaxNameLength)
	}

	if u.Latitude < -90 || u.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", u.Latitude)
	}

	if u.Longitude < -180 || u.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", u.Longitude)
	}

	return nil
}
