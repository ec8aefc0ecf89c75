package playerdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TownCommerce_Go/internal/domain"
)

func newTestService(repo *FakeRepository, startingBalance int) *service {
	svc := NewService(repo, startingBalance).(*service)
	svc.sleep = func(time.Duration) {} // no real backoff in tests
	return svc
}

func TestService_EnsurePlayerProvisionsOnFirstTouch(t *testing.T) {
	repo := NewFakeRepository()
	svc := newTestService(repo, 100)
	ctx := context.Background()

	record, err := svc.EnsurePlayer(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", record.PlayerID)
	assert.Equal(t, 100, record.Balance)
	assert.Empty(t, record.Inventory.Items)

	// Second touch resolves the same record, not a fresh one
	require.NoError(t, svc.SetBalance(ctx, "alice", 42))
	record, err = svc.EnsurePlayer(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 42, record.Balance)
}

func TestService_SetBalanceRejectsNegative(t *testing.T) {
	svc := newTestService(NewFakeRepository(), 100)

	err := svc.SetBalance(context.Background(), "alice", -1)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	balance, err := svc.GetBalance(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 100, balance)
}

func TestService_AddAndRemoveInventory(t *testing.T) {
	svc := newTestService(NewFakeRepository(), 100)
	ctx := context.Background()

	require.NoError(t, svc.AddToInventory(ctx, "alice", []domain.GroceryItem{
		{Name: "apple", Price: 2, Quantity: 3},
	}))
	require.NoError(t, svc.RemoveFromInventory(ctx, "alice", []domain.GroceryItem{
		{Name: "apple", Quantity: 2},
	}))

	inv, err := svc.GetInventory(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, inv.QuantityOf("apple"))

	err = svc.RemoveFromInventory(ctx, "alice", []domain.GroceryItem{
		{Name: "apple", Quantity: 5},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientItems)
	inv, err = svc.GetInventory(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, inv.QuantityOf("apple"), "failed removal changes nothing")
}

func TestService_PurchaseAtomic(t *testing.T) {
	svc := newTestService(NewFakeRepository(), 10)
	ctx := context.Background()
	items := []domain.GroceryItem{{Name: "apple", Price: 2, Quantity: 3}}

	require.NoError(t, svc.Purchase(ctx, "alice", 6, items))

	balance, err := svc.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 4, balance)
	inv, err := svc.GetInventory(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, inv.QuantityOf("apple"))
}

func TestService_PurchaseInsufficientFunds(t *testing.T) {
	svc := newTestService(NewFakeRepository(), 5)
	ctx := context.Background()

	err := svc.Purchase(ctx, "alice", 6, []domain.GroceryItem{{Name: "apple", Price: 2, Quantity: 3}})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// Neither debit nor merge applied
	balance, err := svc.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 5, balance)
	inv, err := svc.GetInventory(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, inv.QuantityOf("apple"))
}

func TestService_ExchangeItems(t *testing.T) {
	svc := newTestService(NewFakeRepository(), 100)
	ctx := context.Background()

	// Offered items are escrowed (out of the poster's live inventory), so
	// only the acceptor needs stock here.
	require.NoError(t, svc.AddToInventory(ctx, "bob", []domain.GroceryItem{{Name: "milk", Quantity: 1}}))
	_, err := svc.EnsurePlayer(ctx, "alice")
	require.NoError(t, err)

	err = svc.ExchangeItems(ctx, "alice", "bob",
		domain.ItemStack{Name: "bread", Quantity: 2},
		domain.ItemStack{Name: "milk", Quantity: 1})
	require.NoError(t, err)

	aliceInv, err := svc.GetInventory(ctx, "alice")
	require.NoError(t, err)
	bobInv, err := svc.GetInventory(ctx, "bob")
	require.NoError(t, err)

	assert.Equal(t, 1, aliceInv.QuantityOf("milk"))
	assert.Equal(t, 2, bobInv.QuantityOf("bread"))
	assert.Equal(t, 0, bobInv.QuantityOf("milk"))
}

func TestService_ExchangeItemsAcceptorLacksDesired(t *testing.T) {
	svc := newTestService(NewFakeRepository(), 100)
	ctx := context.Background()

	err := svc.ExchangeItems(ctx, "alice", "bob",
		domain.ItemStack{Name: "bread", Quantity: 2},
		domain.ItemStack{Name: "milk", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInsufficientItems)

	// Neither leg applied
	aliceInv, err := svc.GetInventory(ctx, "alice")
	require.NoError(t, err)
	bobInv, err := svc.GetInventory(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, aliceInv.Items)
	assert.Empty(t, bobInv.Items)
}

func TestService_RetriesTransientFailures(t *testing.T) {
	repo := NewFakeRepository()
	svc := newTestService(repo, 100)
	ctx := context.Background()

	repo.FailNext = 2
	record, err := svc.EnsurePlayer(ctx, "alice")
	require.NoError(t, err, "two transient failures are within the retry budget")
	assert.Equal(t, 100, record.Balance)
}

func TestService_RetryExhaustion(t *testing.T) {
	repo := NewFakeRepository()
	svc := newTestService(repo, 100)
	ctx := context.Background()

	repo.FailNext = 100
	_, err := svc.EnsurePlayer(ctx, "alice")
	assert.ErrorIs(t, err, domain.ErrPersistenceUnavailable)
}

func TestService_DomainErrorsNotRetried(t *testing.T) {
	repo := NewFakeRepository()
	svc := newTestService(repo, 5)
	ctx := context.Background()
	_, err := svc.EnsurePlayer(ctx, "alice")
	require.NoError(t, err)

	// An InsufficientFunds rejection is final: one attempt, no retries
	err = svc.Purchase(ctx, "alice", 10, nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}
