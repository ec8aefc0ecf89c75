package trading

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TownCommerce_Go/internal/area"
	"github.com/osse101/TownCommerce_Go/internal/domain"
	"github.com/osse101/TownCommerce_Go/internal/playerdb"
)

func newTestBoard(t *testing.T) (*Board, playerdb.Service, *playerdb.FakeRepository) {
	t.Helper()
	repo := playerdb.NewFakeRepository()
	players := playerdb.NewService(repo, 100)
	board := New("trading-post", domain.BoundingBox{X: 10, Y: 0, Width: 4, Height: 4}, players, nil)
	return board, players, repo
}

func give(t *testing.T, players playerdb.Service, playerID, item string, qty int) {
	t.Helper()
	err := players.AddToInventory(context.Background(), playerID,
		[]domain.GroceryItem{{Name: item, Quantity: qty}})
	require.NoError(t, err)
}

func held(t *testing.T, players playerdb.Service, playerID, item string) int {
	t.Helper()
	inv, err := players.GetInventory(context.Background(), playerID)
	require.NoError(t, err)
	return inv.QuantityOf(item)
}

func post(t *testing.T, b *Board, playerID string, payload *area.PostTradingOfferPayload) string {
	t.Helper()
	result, err := b.HandleCommand(context.Background(), playerID, area.Command{
		AreaID: b.ID(), Kind: area.KindPostTradingOffer, Payload: payload,
	})
	require.NoError(t, err)
	return result.(*area.PostTradingOfferResult).OfferID
}

func TestBoard_PostEscrowsOfferedItems(t *testing.T) {
	board, players, _ := newTestBoard(t)
	give(t, players, "alice", "bread", 3)

	offerID := post(t, board, "alice", &area.PostTradingOfferPayload{
		ItemOffered: "bread", QtyOffered: 2,
		ItemDesired: "milk", QtyDesired: 1,
	})
	assert.NotEmpty(t, offerID)

	// Escrow happens at post time, not acceptance time
	assert.Equal(t, 1, held(t, players, "alice", "bread"))

	model := board.ToModel(context.Background()).(*domain.TradingAreaModel)
	require.Len(t, model.TradingBoard, 1)
	assert.Equal(t, "alice", model.TradingBoard[0].PlayerID)
}

func TestBoard_PostInvalidOffer(t *testing.T) {
	board, players, _ := newTestBoard(t)
	give(t, players, "alice", "bread", 3)

	for _, payload := range []*area.PostTradingOfferPayload{
		{ItemOffered: "bread", QtyOffered: 0, ItemDesired: "milk", QtyDesired: 1},
		{ItemOffered: "bread", QtyOffered: 2, ItemDesired: "milk", QtyDesired: -1},
	} {
		_, err := board.HandleCommand(context.Background(), "alice", area.Command{
			AreaID: board.ID(), Kind: area.KindPostTradingOffer, Payload: payload,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidOffer)
	}

	assert.Equal(t, 3, held(t, players, "alice", "bread"), "nothing escrowed for a rejected offer")
}

func TestBoard_PostItemNotOwned(t *testing.T) {
	board, players, _ := newTestBoard(t)
	give(t, players, "alice", "bread", 1)

	_, err := board.HandleCommand(context.Background(), "alice", area.Command{
		AreaID: board.ID(),
		Kind:   area.KindPostTradingOffer,
		Payload: &area.PostTradingOfferPayload{
			ItemOffered: "bread", QtyOffered: 2,
			ItemDesired: "milk", QtyDesired: 1,
		},
	})
	assert.ErrorIs(t, err, domain.ErrItemNotOwned)
	assert.Equal(t, 1, held(t, players, "alice", "bread"))
}

func TestBoard_DoubleSpendBlockedByEscrow(t *testing.T) {
	board, players, _ := newTestBoard(t)
	give(t, players, "alice", "bread", 2)

	post(t, board, "alice", &area.PostTradingOfferPayload{
		ItemOffered: "bread", QtyOffered: 2,
		ItemDesired: "milk", QtyDesired: 1,
	})

	// The same two bread cannot back a second offer
	_, err := board.HandleCommand(context.Background(), "alice", area.Command{
		AreaID: board.ID(),
		Kind:   area.KindPostTradingOffer,
		Payload: &area.PostTradingOfferPayload{
			ItemOffered: "bread", QtyOffered: 2,
			ItemDesired: "eggs", QtyDesired: 1,
		},
	})
	assert.ErrorIs(t, err, domain.ErrItemNotOwned)
}

func TestBoard_AcceptSettlesBothLegs(t *testing.T) {
	board, players, _ := newTestBoard(t)
	give(t, players, "alice", "bread", 2)
	give(t, players, "bob", "milk", 1)

	offerID := post(t, board, "alice", &area.PostTradingOfferPayload{
		ItemOffered: "bread", QtyOffered: 2,
		ItemDesired: "milk", QtyDesired: 1,
	})

	_, err := board.HandleCommand(context.Background(), "bob", area.Command{
		AreaID:  board.ID(),
		Kind:    area.KindAcceptTradingOffer,
		Payload: &area.AcceptTradingOfferPayload{OfferID: offerID},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, held(t, players, "bob", "bread"))
	assert.Equal(t, 0, held(t, players, "bob", "milk"))
	assert.Equal(t, 1, held(t, players, "alice", "milk"))
	assert.Equal(t, 0, held(t, players, "alice", "bread"))

	model := board.ToModel(context.Background()).(*domain.TradingAreaModel)
	assert.Empty(t, model.TradingBoard, "accepted offer leaves the board")
}

func TestBoard_AcceptOfferNotFound(t *testing.T) {
	board, _, _ := newTestBoard(t)

	_, err := board.HandleCommand(context.Background(), "bob", area.Command{
		AreaID:  board.ID(),
		Kind:    area.KindAcceptTradingOffer,
		Payload: &area.AcceptTradingOfferPayload{OfferID: "missing"},
	})
	assert.ErrorIs(t, err, domain.ErrOfferNotFound)
}

func TestBoard_AcceptSelfTrade(t *testing.T) {
	board, players, _ := newTestBoard(t)
	give(t, players, "alice", "bread", 2)
	give(t, players, "alice", "milk", 1)

	offerID := post(t, board, "alice", &area.PostTradingOfferPayload{
		ItemOffered: "bread", QtyOffered: 2,
		ItemDesired: "milk", QtyDesired: 1,
	})

	_, err := board.HandleCommand(context.Background(), "alice", area.Command{
		AreaID:  board.ID(),
		Kind:    area.KindAcceptTradingOffer,
		Payload: &area.AcceptTradingOfferPayload{OfferID: offerID},
	})
	assert.ErrorIs(t, err, domain.ErrSelfTrade)

	// Board and inventories untouched
	model := board.ToModel(context.Background()).(*domain.TradingAreaModel)
	assert.Len(t, model.TradingBoard, 1)
	assert.Equal(t, 1, held(t, players, "alice", "milk"))
}

func TestBoard_AcceptWithoutDesiredItems(t *testing.T) {
	board, players, _ := newTestBoard(t)
	give(t, players, "alice", "bread", 2)

	offerID := post(t, board, "alice", &area.PostTradingOfferPayload{
		ItemOffered: "bread", QtyOffered: 2,
		ItemDesired: "milk", QtyDesired: 1,
	})

	_, err := board.HandleCommand(context.Background(), "bob", area.Command{
		AreaID:  board.ID(),
		Kind:    area.KindAcceptTradingOffer,
		Payload: &area.AcceptTradingOfferPayload{OfferID: offerID},
	})
	assert.ErrorIs(t, err, domain.ErrItemNotOwned)

	// Offer stays open, no leg applied
	model := board.ToModel(context.Background()).(*domain.TradingAreaModel)
	assert.Len(t, model.TradingBoard, 1)
	assert.Equal(t, 0, held(t, players, "bob", "bread"))
	assert.Equal(t, 0, held(t, players, "alice", "milk"))
}

func TestBoard_DeleteRestoresEscrow(t *testing.T) {
	board, players, _ := newTestBoard(t)
	give(t, players, "alice", "bread", 2)

	offerID := post(t, board, "alice", &area.PostTradingOfferPayload{
		ItemOffered: "bread", QtyOffered: 2,
		ItemDesired: "milk", QtyDesired: 1,
	})
	assert.Equal(t, 0, held(t, players, "alice", "bread"))

	_, err := board.HandleCommand(context.Background(), "alice", area.Command{
		AreaID:  board.ID(),
		Kind:    area.KindDeleteOffer,
		Payload: &area.DeleteOfferPayload{OfferID: offerID},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, held(t, players, "alice", "bread"), "escrow restored exactly")
	model := board.ToModel(context.Background()).(*domain.TradingAreaModel)
	assert.Empty(t, model.TradingBoard)
}

func TestBoard_DeleteNotOfferOwner(t *testing.T) {
	board, players, _ := newTestBoard(t)
	give(t, players, "alice", "bread", 2)

	offerID := post(t, board, "alice", &area.PostTradingOfferPayload{
		ItemOffered: "bread", QtyOffered: 2,
		ItemDesired: "milk", QtyDesired: 1,
	})

	_, err := board.HandleCommand(context.Background(), "carol", area.Command{
		AreaID:  board.ID(),
		Kind:    area.KindDeleteOffer,
		Payload: &area.DeleteOfferPayload{OfferID: offerID},
	})
	assert.ErrorIs(t, err, domain.ErrNotOfferOwner)

	model := board.ToModel(context.Background()).(*domain.TradingAreaModel)
	assert.Len(t, model.TradingBoard, 1, "board unchanged")
}

func TestBoard_PostPersistenceUnavailable(t *testing.T) {
	board, players, repo := newTestBoard(t)
	give(t, players, "alice", "bread", 2)

	repo.FailNext = 100
	_, err := board.HandleCommand(context.Background(), "alice", area.Command{
		AreaID: board.ID(),
		Kind:   area.KindPostTradingOffer,
		Payload: &area.PostTradingOfferPayload{
			ItemOffered: "bread", QtyOffered: 2,
			ItemDesired: "milk", QtyDesired: 1,
		},
	})
	assert.ErrorIs(t, err, domain.ErrPersistenceUnavailable)
	repo.FailNext = 0

	model := board.ToModel(context.Background()).(*domain.TradingAreaModel)
	assert.Empty(t, model.TradingBoard, "no offer appears when escrow could not persist")
	assert.Equal(t, 2, held(t, players, "alice", "bread"))
}

func TestBoard_RejectsGroceryCommands(t *testing.T) {
	board, _, _ := newTestBoard(t)

	_, err := board.HandleCommand(context.Background(), "alice", area.Command{
		AreaID: board.ID(), Kind: area.KindCheckout,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCommand)
}
