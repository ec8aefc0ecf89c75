// Package area defines the interactable-area contract and the dispatcher
// that serializes commands per area. An area is a zone on the town map with
// occupants and mutable state; every mutation flows through HandleCommand
// and ends with the area's model broadcast to all occupants.
package area

import (
	"context"
	"sort"
	"sync"

	"github.com/osse101/TownCommerce_Go/internal/domain"
)

// Area is the contract every interactable area implements. HandleCommand is
// the single mutation entry point: an exhaustive switch over the closed set
// of command kinds for the area type, returning domain.ErrInvalidCommand
// for anything else. The dispatcher, not the area, owns locking and
// broadcasting.
type Area interface {
	ID() string
	Type() string
	Bounds() domain.BoundingBox

	AddOccupant(playerID string)
	RemoveOccupant(playerID string)
	Occupants() []string
	// IsActive reports whether the area has any occupants; inactive areas
	// are eligible for idle handling by the town loop.
	IsActive() bool

	// ToModel exports the area's wire model for broadcast or resync.
	ToModel(ctx context.Context) any

	// HandleCommand validates and applies one command, returning the
	// result payload. Validation is fully checked before the first
	// mutating sub-step; on any error the area's state is unchanged.
	HandleCommand(ctx context.Context, playerID string, cmd Command) (any, error)
}

// Occupancy tracks which players are inside an area. Embedded by every
// area implementation. Insertion order is irrelevant; Occupants returns a
// sorted snapshot so models are stable for clients and tests.
type Occupancy struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewOccupancy creates an empty occupancy set
func NewOccupancy() *Occupancy {
	return &Occupancy{ids: make(map[string]struct{})}
}

// AddOccupant records a player entering the area. Re-entry is a no-op.
func (o *Occupancy) AddOccupant(playerID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ids[playerID] = struct{}{}
}

// RemoveOccupant records a player leaving the area.
func (o *Occupancy) RemoveOccupant(playerID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.ids, playerID)
}

// Contains reports whether the player is currently in the area
func (o *Occupancy) Contains(playerID string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, ok := o.ids[playerID]
	return ok
}

// Occupants returns a sorted snapshot of occupant ids
func (o *Occupancy) Occupants() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]string, 0, len(o.ids))
	for id := range o.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// IsActive reports whether any player occupies the area
func (o *Occupancy) IsActive() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.ids) > 0
}
