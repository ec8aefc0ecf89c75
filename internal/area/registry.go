package area

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/TownCommerce_Go/internal/concurrency"
	"github.com/osse101/TownCommerce_Go/internal/domain"
	"github.com/osse101/TownCommerce_Go/internal/event"
	"github.com/osse101/TownCommerce_Go/internal/logger"
	"github.com/osse101/TownCommerce_Go/internal/metrics"
)

// Broadcaster pushes an area model to the given occupants. Delivery is
// best-effort: the dispatcher never blocks on it and never retries; clients
// resync by re-fetching the model on area (re)entry.
type Broadcaster interface {
	Broadcast(areaID string, occupants []string, model any)
}

// NopBroadcaster discards broadcasts; useful in tests and tools.
type NopBroadcaster struct{}

func (NopBroadcaster) Broadcast(string, []string, any) {}

// Registry resolves live areas by id and serializes command processing per
// area: one exclusive lock per area id, held for the full
// validate-mutate-persist-broadcast span. Commands for different areas run
// concurrently.
type Registry struct {
	areas       map[string]Area
	locks       *concurrency.LockManager
	broadcaster Broadcaster
	bus         event.Bus
}

// NewRegistry creates a registry. The area set is fixed at construction
// time; the town map does not change at runtime.
func NewRegistry(broadcaster Broadcaster, bus event.Bus, areas ...Area) (*Registry, error) {
	r := &Registry{
		areas:       make(map[string]Area, len(areas)),
		locks:       concurrency.NewLockManager(),
		broadcaster: broadcaster,
		bus:         bus,
	}
	for _, a := range areas {
		if _, ok := r.areas[a.ID()]; ok {
			return nil, fmt.Errorf("duplicate area id %q", a.ID())
		}
		r.areas[a.ID()] = a
	}
	return r, nil
}

// Get returns the area with the given id
func (r *Registry) Get(areaID string) (Area, bool) {
	a, ok := r.areas[areaID]
	return a, ok
}

// List returns all registered areas
func (r *Registry) List() []Area {
	out := make([]Area, 0, len(r.areas))
	for _, a := range r.areas {
		out = append(out, a)
	}
	return out
}

// HandleCommand dispatches one command under the target area's lock and, on
// success, broadcasts the area's new model to all current occupants. Domain
// errors are returned to the issuer only; no broadcast happens and area
// state is untouched.
func (r *Registry) HandleCommand(ctx context.Context, playerID string, cmd Command) CommandResult {
	log := logger.FromContext(ctx)

	a, ok := r.areas[cmd.AreaID]
	if !ok {
		log.Warn("Command for unknown area", "area_id", cmd.AreaID, "kind", cmd.Kind, "player_id", playerID)
		return CommandResult{Success: false, ErrorKind: domain.KindInvalidCommand}
	}

	lock := r.locks.GetLock(a.ID())
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	payload, err := a.HandleCommand(ctx, playerID, cmd)
	metrics.CommandDuration.WithLabelValues(a.Type(), string(cmd.Kind)).Observe(time.Since(start).Seconds())
	metrics.CommandsTotal.WithLabelValues(a.Type(), string(cmd.Kind)).Inc()

	if err != nil {
		kind := domain.ErrorKind(err)
		metrics.CommandErrors.WithLabelValues(a.Type(), string(cmd.Kind), kind).Inc()
		log.Warn("Area command rejected",
			"area_id", a.ID(), "kind", cmd.Kind, "player_id", playerID,
			"error_kind", kind, "error", err)
		return CommandResult{Success: false, ErrorKind: kind}
	}

	r.broadcastLocked(ctx, a, string(cmd.Kind), playerID)
	return CommandResult{Success: true, Payload: payload}
}

// EnterArea adds the player to the area, broadcasts the change and returns
// the current model so the client starts (or resyncs) from authoritative
// state.
func (r *Registry) EnterArea(ctx context.Context, areaID, playerID string) (any, error) {
	a, ok := r.areas[areaID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAreaNotFound, areaID)
	}

	lock := r.locks.GetLock(a.ID())
	lock.Lock()
	defer lock.Unlock()

	a.AddOccupant(playerID)
	metrics.Occupants.WithLabelValues(a.ID()).Set(float64(len(a.Occupants())))
	model := a.ToModel(ctx)
	r.broadcaster.Broadcast(a.ID(), a.Occupants(), model)
	metrics.BroadcastsTotal.WithLabelValues(a.ID()).Inc()
	return model, nil
}

// LeaveArea removes the player and broadcasts to the remaining occupants.
// Safe to call for a player who already left; disconnect handling calls it
// for every area.
func (r *Registry) LeaveArea(ctx context.Context, areaID, playerID string) error {
	a, ok := r.areas[areaID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrAreaNotFound, areaID)
	}

	lock := r.locks.GetLock(a.ID())
	lock.Lock()
	defer lock.Unlock()

	a.RemoveOccupant(playerID)
	metrics.Occupants.WithLabelValues(a.ID()).Set(float64(len(a.Occupants())))
	r.broadcastLocked(ctx, a, "leave", playerID)
	return nil
}

// RemoveEverywhere drops a disconnected player from every area they occupy.
// Runs after any in-flight command completes because it takes each area's
// lock in turn.
func (r *Registry) RemoveEverywhere(ctx context.Context, playerID string) {
	for id, a := range r.areas {
		if occ, ok := a.(interface{ Contains(string) bool }); ok && !occ.Contains(playerID) {
			continue
		}
		if err := r.LeaveArea(ctx, id, playerID); err != nil {
			logger.FromContext(ctx).Error("Failed to remove player from area",
				"area_id", id, "player_id", playerID, "error", err)
		}
	}
}

// Model returns the current model of an area, for HTTP resync reads.
func (r *Registry) Model(ctx context.Context, areaID string) (any, error) {
	a, ok := r.areas[areaID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAreaNotFound, areaID)
	}

	lock := r.locks.GetLock(a.ID())
	lock.Lock()
	defer lock.Unlock()
	return a.ToModel(ctx), nil
}

func (r *Registry) broadcastLocked(ctx context.Context, a Area, trigger, playerID string) {
	occupants := a.Occupants()
	model := a.ToModel(ctx)
	r.broadcaster.Broadcast(a.ID(), occupants, model)
	metrics.BroadcastsTotal.WithLabelValues(a.ID()).Inc()

	if r.bus == nil {
		return
	}
	if err := r.bus.Publish(ctx, event.NewAreaUpdatedEvent(a.ID(), a.Type(), trigger, playerID, len(occupants))); err != nil {
		logger.FromContext(ctx).Error("Failed to publish area event", "area_id", a.ID(), "error", err)
	}
}
