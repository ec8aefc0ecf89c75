// Package grocery implements the grocery store area: a shared shelf
// inventory, one cart per occupant and a checkout flow that settles against
// the player database. All mutation happens inside HandleCommand, which the
// dispatcher serializes per area; nothing here takes its own lock beyond
// occupancy bookkeeping.
package grocery

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/TownCommerce_Go/internal/area"
	"github.com/osse101/TownCommerce_Go/internal/domain"
	"github.com/osse101/TownCommerce_Go/internal/economy"
	"github.com/osse101/TownCommerce_Go/internal/event"
	"github.com/osse101/TownCommerce_Go/internal/logger"
	"github.com/osse101/TownCommerce_Go/internal/metrics"
	"github.com/osse101/TownCommerce_Go/internal/playerdb"
)

// Catalog supplies the store's shelf listing. The store copies the catalog
// on first OpenInventory; later catalog changes do not reach a running
// store.
type Catalog interface {
	Items() []domain.GroceryItem
}

// Store is a GroceryStoreArea. Shelf quantities are shared across all
// occupants; carts and purchase history are per player. Cart contents exist
// only in memory, so item conservation holds between the shelf and the
// carts until checkout moves goods into persistent inventory.
type Store struct {
	*area.Occupancy

	id      string
	bounds  domain.BoundingBox
	catalog Catalog
	players playerdb.Service
	bus     event.Bus

	storeInventory []domain.GroceryItem
	carts          map[string][]domain.GroceryItem
	history        map[string][]domain.PurchaseRecord
}

// New creates a grocery store area. The shelf stays empty until the first
// OpenInventory command initializes it from the catalog.
func New(id string, bounds domain.BoundingBox, catalog Catalog, players playerdb.Service, bus event.Bus) *Store {
	return &Store{
		Occupancy: area.NewOccupancy(),
		id:        id,
		bounds:    bounds,
		catalog:   catalog,
		players:   players,
		bus:       bus,
		carts:     make(map[string][]domain.GroceryItem),
		history:   make(map[string][]domain.PurchaseRecord),
	}
}

func (s *Store) ID() string                 { return s.id }
func (s *Store) Type() string               { return domain.AreaTypeGroceryStore }
func (s *Store) Bounds() domain.BoundingBox { return s.bounds }

// HandleCommand applies one grocery command. Every branch validates fully
// before touching shelf or cart state; checkout persists first and mutates
// memory only after the player database accepted the purchase.
func (s *Store) HandleCommand(ctx context.Context, playerID string, cmd area.Command) (any, error) {
	switch cmd.Kind {
	case area.KindOpenInventory:
		return nil, s.handleOpenInventory(ctx, playerID)
	case area.KindAddItemToCart:
		payload, ok := cmd.Payload.(*area.AddItemToCartPayload)
		if !ok {
			return nil, fmt.Errorf("%w: bad payload for %s", domain.ErrInvalidCommand, cmd.Kind)
		}
		return nil, s.handleAddItem(ctx, playerID, payload.ItemName, payload.Price)
	case area.KindRemoveItemFromCart:
		payload, ok := cmd.Payload.(*area.RemoveItemFromCartPayload)
		if !ok {
			return nil, fmt.Errorf("%w: bad payload for %s", domain.ErrInvalidCommand, cmd.Kind)
		}
		return nil, s.handleRemoveItem(playerID, payload.ItemName)
	case area.KindCheckout:
		return s.handleCheckout(ctx, playerID)
	default:
		return nil, fmt.Errorf("%w: %s not supported by %s", domain.ErrInvalidCommand, cmd.Kind, domain.AreaTypeGroceryStore)
	}
}

// handleOpenInventory is idempotent: the first call stocks the shelf from
// the catalog, later calls are no-ops. It also resolves the acting player
// so first-touch provisioning happens before any cart activity.
func (s *Store) handleOpenInventory(ctx context.Context, playerID string) error {
	if _, err := s.players.EnsurePlayer(ctx, playerID); err != nil {
		return err
	}
	if s.storeInventory != nil {
		return nil
	}
	s.storeInventory = cloneItems(s.catalog.Items())
	logger.FromContext(ctx).Info("Stocked store inventory from catalog",
		"area_id", s.id, "items", len(s.storeInventory))
	return nil
}

// handleAddItem moves one unit from the shelf into the player's cart. The
// claimed price must match the shelf price exactly; the shelf price is the
// one that ends up in the cart.
func (s *Store) handleAddItem(ctx context.Context, playerID, itemName string, claimedPrice int) error {
	if _, err := s.players.EnsurePlayer(ctx, playerID); err != nil {
		return err
	}

	idx := -1
	for i := range s.storeInventory {
		if s.storeInventory[i].Name == itemName {
			idx = i
			break
		}
	}
	if idx < 0 || s.storeInventory[idx].Quantity == 0 {
		return fmt.Errorf("%w: %s", domain.ErrItemUnavailable, itemName)
	}
	if s.storeInventory[idx].Price != claimedPrice {
		return fmt.Errorf("%w: %s is %d, not %d", domain.ErrPriceMismatch,
			itemName, s.storeInventory[idx].Price, claimedPrice)
	}

	s.storeInventory[idx].Quantity--
	s.carts[playerID] = economy.AddToCollection(s.carts[playerID], itemName, s.storeInventory[idx].Price, 1)
	return nil
}

// handleRemoveItem returns one unit from the player's cart to the shelf.
func (s *Store) handleRemoveItem(playerID, itemName string) error {
	cart := s.carts[playerID]
	price := 0
	for _, it := range cart {
		if it.Name == itemName {
			price = it.Price
		}
	}
	if economy.QuantityIn(cart, itemName) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrItemNotInCart, itemName)
	}

	remaining, err := economy.RemoveFromCollection(cart, itemName, 1)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrItemNotInCart, itemName)
	}
	s.carts[playerID] = remaining
	s.storeInventory = economy.AddToCollection(s.storeInventory, itemName, price, 1)
	return nil
}

// handleCheckout settles the player's cart: debit the total and merge the
// cart into persistent inventory in one database transaction, then record
// history and clear the cart. An empty cart is rejected the same way as an
// unaffordable one. On any persistence error the cart and shelf are left
// exactly as they were.
func (s *Store) handleCheckout(ctx context.Context, playerID string) (any, error) {
	cart := s.carts[playerID]
	total := economy.CartTotal(cart)
	if total == 0 {
		return nil, fmt.Errorf("%w: nothing to buy", domain.ErrInsufficientFunds)
	}

	if err := s.players.Purchase(ctx, playerID, total, cart); err != nil {
		return nil, err
	}

	record := domain.PurchaseRecord{
		Items:       cloneItems(cart),
		Total:       total,
		PurchasedAt: time.Now().Unix(),
	}
	entries := append([]domain.PurchaseRecord{record}, s.history[playerID]...)
	if len(entries) > MaxHistoryEntries {
		entries = entries[:MaxHistoryEntries]
	}
	s.history[playerID] = entries
	delete(s.carts, playerID)

	metrics.CheckoutsCompleted.Inc()
	metrics.CheckoutRevenue.Add(float64(total))
	if s.bus != nil {
		if err := s.bus.Publish(ctx, event.NewCheckoutCompletedEvent(s.id, playerID, total, len(record.Items))); err != nil {
			logger.FromContext(ctx).Error("Failed to publish checkout event", "area_id", s.id, "error", err)
		}
	}

	return &area.CheckoutResult{TotalCharged: total}, nil
}

// ToModel exports the store's wire model. Carts, balances and history are
// keyed by player id; clients filter to their own id. A balance that cannot
// be read right now is omitted rather than failing the whole model.
func (s *Store) ToModel(ctx context.Context) any {
	occupants := s.Occupants()

	balances := make(map[string]int, len(occupants))
	for _, id := range occupants {
		balance, err := s.players.GetBalance(ctx, id)
		if err != nil {
			logger.FromContext(ctx).Warn("Omitting balance from area model",
				"area_id", s.id, "player_id", id, "error", err)
			continue
		}
		balances[id] = balance
	}

	carts := make(map[string][]domain.GroceryItem, len(s.carts))
	for id, cart := range s.carts {
		carts[id] = cloneItems(cart)
	}
	history := make(map[string][]domain.PurchaseRecord, len(s.history))
	for id, entries := range s.history {
		history[id] = append([]domain.PurchaseRecord(nil), entries...)
	}

	return &domain.GroceryStoreModel{
		ID:             s.id,
		Occupants:      occupants,
		Type:           domain.AreaTypeGroceryStore,
		StoreInventory: cloneItems(s.storeInventory),
		Carts:          carts,
		Balances:       balances,
		History:        history,
	}
}

func cloneItems(items []domain.GroceryItem) []domain.GroceryItem {
	if items == nil {
		return []domain.GroceryItem{}
	}
	out := make([]domain.GroceryItem, len(items))
	copy(out, items)
	return out
}
