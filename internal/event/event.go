package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/TownCommerce_Go/internal/metrics"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Common event types
const (
	AreaUpdated       Type = "area.updated"
	PlayerProvisioned Type = "player.provisioned"
	CheckoutCompleted Type = "checkout.completed"
	TradeAccepted     Type = "trade.accepted"
)

// Typed event payloads for type safety

// AreaUpdatedPayloadV1 is the typed payload for area update events
type AreaUpdatedPayloadV1 struct {
	AreaID    string `json:"area_id"`
	AreaType  string `json:"area_type"`
	Trigger   string `json:"trigger"` // command kind, "join" or "leave"
	PlayerID  string `json:"player_id"`
	Occupants int    `json:"occupants"`
	Timestamp int64  `json:"timestamp"`
}

// PlayerProvisionedPayloadV1 is the typed payload for first-touch provisioning events
type PlayerProvisionedPayloadV1 struct {
	PlayerID        string `json:"player_id"`
	StartingBalance int    `json:"starting_balance"`
	Timestamp       int64  `json:"timestamp"`
}

// CheckoutCompletedPayloadV1 is the typed payload for grocery checkout events
type CheckoutCompletedPayloadV1 struct {
	AreaID       string `json:"area_id"`
	PlayerID     string `json:"player_id"`
	TotalCharged int    `json:"total_charged"`
	ItemCount    int    `json:"item_count"`
	Timestamp    int64  `json:"timestamp"`
}

// TradeAcceptedPayloadV1 is the typed payload for accepted trading offers
type TradeAcceptedPayloadV1 struct {
	AreaID      string `json:"area_id"`
	OfferID     string `json:"offer_id"`
	PosterID    string `json:"poster_id"`
	AcceptorID  string `json:"acceptor_id"`
	ItemOffered string `json:"item_offered"`
	QtyOffered  int    `json:"qty_offered"`
	ItemDesired string `json:"item_desired"`
	QtyDesired  int    `json:"qty_desired"`
	Timestamp   int64  `json:"timestamp"`
}

// Type-safe event constructors

// NewAreaUpdatedEvent creates a new area update event
func NewAreaUpdatedEvent(areaID, areaType, trigger, playerID string, occupants int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    AreaUpdated,
		Payload: AreaUpdatedPayloadV1{
			AreaID:    areaID,
			AreaType:  areaType,
			Trigger:   trigger,
			PlayerID:  playerID,
			Occupants: occupants,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewPlayerProvisionedEvent creates a new player provisioned event
func NewPlayerProvisionedEvent(playerID string, startingBalance int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    PlayerProvisioned,
		Payload: PlayerProvisionedPayloadV1{
			PlayerID:        playerID,
			StartingBalance: startingBalance,
			Timestamp:       time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewCheckoutCompletedEvent creates a new checkout completed event
func NewCheckoutCompletedEvent(areaID, playerID string, totalCharged, itemCount int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    CheckoutCompleted,
		Payload: CheckoutCompletedPayloadV1{
			AreaID:       areaID,
			PlayerID:     playerID,
			TotalCharged: totalCharged,
			ItemCount:    itemCount,
			Timestamp:    time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewTradeAcceptedEvent creates a new trade accepted event
func NewTradeAcceptedEvent(areaID, offerID, posterID, acceptorID, itemOffered string, qtyOffered int, itemDesired string, qtyDesired int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    TradeAccepted,
		Payload: TradeAcceptedPayloadV1{
			AreaID:      areaID,
			OfferID:     offerID,
			PosterID:    posterID,
			AcceptorID:  acceptorID,
			ItemOffered: itemOffered,
			QtyOffered:  qtyOffered,
			ItemDesired: itemDesired,
			QtyDesired:  qtyDesired,
			Timestamp:   time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	metrics.EventsPublished.WithLabelValues(string(event.Type)).Inc()

	if !ok {
		return nil
	}

	// Handlers run synchronously. With configuration these could be
	// dispatched to a worker pool or run in goroutines.
	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			metrics.EventHandlerErrors.WithLabelValues(string(event.Type)).Inc()
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
