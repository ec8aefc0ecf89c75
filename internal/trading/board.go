// Package trading implements the trading area: an ordered board of open
// offers between players. Offered items are escrowed out of the poster's
// inventory the moment an offer is posted, so the same goods can never back
// two offers at once; acceptance settles both legs in one player database
// transaction.
package trading

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/TownCommerce_Go/internal/area"
	"github.com/osse101/TownCommerce_Go/internal/domain"
	"github.com/osse101/TownCommerce_Go/internal/economy"
	"github.com/osse101/TownCommerce_Go/internal/event"
	"github.com/osse101/TownCommerce_Go/internal/logger"
	"github.com/osse101/TownCommerce_Go/internal/metrics"
	"github.com/osse101/TownCommerce_Go/internal/playerdb"
)

// Board is a TradingArea. Offers live only here; board order is posting
// order. An offer leaves the board exactly once, through acceptance or
// cancellation.
type Board struct {
	*area.Occupancy

	id      string
	bounds  domain.BoundingBox
	players playerdb.Service
	bus     event.Bus

	// newOfferID is injectable so tests get stable ids
	newOfferID func() string

	board []domain.TradingOffer
}

// New creates a trading area with an empty board.
func New(id string, bounds domain.BoundingBox, players playerdb.Service, bus event.Bus) *Board {
	return &Board{
		Occupancy:  area.NewOccupancy(),
		id:         id,
		bounds:     bounds,
		players:    players,
		bus:        bus,
		newOfferID: uuid.NewString,
		board:      []domain.TradingOffer{},
	}
}

func (b *Board) ID() string                 { return b.id }
func (b *Board) Type() string               { return domain.AreaTypeTrading }
func (b *Board) Bounds() domain.BoundingBox { return b.bounds }

// HandleCommand applies one trading command. The board is only mutated
// after the player database accepted the matching inventory movement, so a
// persistence failure leaves board and inventories consistent.
func (b *Board) HandleCommand(ctx context.Context, playerID string, cmd area.Command) (any, error) {
	switch cmd.Kind {
	case area.KindPostTradingOffer:
		payload, ok := cmd.Payload.(*area.PostTradingOfferPayload)
		if !ok {
			return nil, fmt.Errorf("%w: bad payload for %s", domain.ErrInvalidCommand, cmd.Kind)
		}
		return b.handlePost(ctx, playerID, payload)
	case area.KindAcceptTradingOffer:
		payload, ok := cmd.Payload.(*area.AcceptTradingOfferPayload)
		if !ok {
			return nil, fmt.Errorf("%w: bad payload for %s", domain.ErrInvalidCommand, cmd.Kind)
		}
		return nil, b.handleAccept(ctx, playerID, payload.OfferID)
	case area.KindDeleteOffer:
		payload, ok := cmd.Payload.(*area.DeleteOfferPayload)
		if !ok {
			return nil, fmt.Errorf("%w: bad payload for %s", domain.ErrInvalidCommand, cmd.Kind)
		}
		return nil, b.handleDelete(ctx, playerID, payload.OfferID)
	default:
		return nil, fmt.Errorf("%w: %s not supported by %s", domain.ErrInvalidCommand, cmd.Kind, domain.AreaTypeTrading)
	}
}

// handlePost validates the offer, escrows the offered items out of the
// poster's inventory and appends the offer to the board.
func (b *Board) handlePost(ctx context.Context, playerID string, payload *area.PostTradingOfferPayload) (any, error) {
	offered := domain.ItemStack{Name: payload.ItemOffered, Quantity: payload.QtyOffered}
	desired := domain.ItemStack{Name: payload.ItemDesired, Quantity: payload.QtyDesired}

	if err := economy.ValidateOffer(offered, desired); err != nil {
		return nil, err
	}

	inv, err := b.players.GetInventory(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if inv.QuantityOf(offered.Name) < offered.Quantity {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotOwned, offered.Name)
	}

	// Escrow: the items leave the poster's live inventory now, not at
	// acceptance time
	if err := b.players.RemoveFromInventory(ctx, playerID, economy.StackAsItems(offered)); err != nil {
		return nil, err
	}

	offer := domain.TradingOffer{
		OfferID:     b.newOfferID(),
		PlayerID:    playerID,
		ItemOffered: offered,
		ItemDesired: desired,
		PostedAt:    time.Now().Unix(),
	}
	b.board = append(b.board, offer)

	metrics.TradeOffersPosted.Inc()
	logger.FromContext(ctx).Info("Trading offer posted",
		"area_id", b.id, "offer_id", offer.OfferID, "player_id", playerID,
		"offered", offered.Name, "desired", desired.Name)

	return &area.PostTradingOfferResult{OfferID: offer.OfferID}, nil
}

// handleAccept settles an open offer. Both legs run in one database
// transaction inside ExchangeItems; the offer leaves the board only after
// that transaction committed.
func (b *Board) handleAccept(ctx context.Context, acceptorID, offerID string) error {
	idx := b.find(offerID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", domain.ErrOfferNotFound, offerID)
	}
	offer := b.board[idx]
	if offer.PlayerID == acceptorID {
		return fmt.Errorf("%w: cannot accept own offer %s", domain.ErrSelfTrade, offerID)
	}

	inv, err := b.players.GetInventory(ctx, acceptorID)
	if err != nil {
		return err
	}
	if inv.QuantityOf(offer.ItemDesired.Name) < offer.ItemDesired.Quantity {
		return fmt.Errorf("%w: %s", domain.ErrItemNotOwned, offer.ItemDesired.Name)
	}

	if err := b.players.ExchangeItems(ctx, offer.PlayerID, acceptorID, offer.ItemOffered, offer.ItemDesired); err != nil {
		return err
	}
	b.board = append(b.board[:idx], b.board[idx+1:]...)

	metrics.TradeOffersAccepted.Inc()
	if b.bus != nil {
		ev := event.NewTradeAcceptedEvent(b.id, offer.OfferID, offer.PlayerID, acceptorID,
			offer.ItemOffered.Name, offer.ItemOffered.Quantity,
			offer.ItemDesired.Name, offer.ItemDesired.Quantity)
		if err := b.bus.Publish(ctx, ev); err != nil {
			logger.FromContext(ctx).Error("Failed to publish trade event", "area_id", b.id, "error", err)
		}
	}
	return nil
}

// handleDelete cancels the caller's own offer and returns the escrowed
// items to their inventory.
func (b *Board) handleDelete(ctx context.Context, playerID, offerID string) error {
	idx := b.find(offerID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", domain.ErrOfferNotFound, offerID)
	}
	offer := b.board[idx]
	if offer.PlayerID != playerID {
		return fmt.Errorf("%w: offer %s belongs to %s", domain.ErrNotOfferOwner, offerID, offer.PlayerID)
	}

	if err := b.players.AddToInventory(ctx, playerID, economy.StackAsItems(offer.ItemOffered)); err != nil {
		return err
	}
	b.board = append(b.board[:idx], b.board[idx+1:]...)

	metrics.TradeOffersCancelled.Inc()
	return nil
}

func (b *Board) find(offerID string) int {
	for i := range b.board {
		if b.board[i].OfferID == offerID {
			return i
		}
	}
	return -1
}

// ToModel exports the trading area's wire model.
func (b *Board) ToModel(_ context.Context) any {
	board := make([]domain.TradingOffer, len(b.board))
	copy(board, b.board)
	return &domain.TradingAreaModel{
		ID:           b.id,
		Occupants:    b.Occupants(),
		Type:         domain.AreaTypeTrading,
		TradingBoard: board,
	}
}
