// Package playerdb is the authoritative owner of per-player economic state.
// Areas never hold a private copy of a record; every balance or inventory
// read and write goes through this service, which layers first-touch
// provisioning, bounded retries and a short-lived read cache over the
// repository.
package playerdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/TownCommerce_Go/internal/domain"
	"github.com/osse101/TownCommerce_Go/internal/economy"
	"github.com/osse101/TownCommerce_Go/internal/logger"
	"github.com/osse101/TownCommerce_Go/internal/metrics"
	"github.com/osse101/TownCommerce_Go/internal/repository"
)

// Service defines the player database consumed by commercial areas
type Service interface {
	EnsurePlayer(ctx context.Context, playerID string) (*domain.PlayerEconomicRecord, error)
	GetBalance(ctx context.Context, playerID string) (int, error)
	SetBalance(ctx context.Context, playerID string, value int) error
	GetInventory(ctx context.Context, playerID string) (domain.Inventory, error)
	AddToInventory(ctx context.Context, playerID string, items []domain.GroceryItem) error
	RemoveFromInventory(ctx context.Context, playerID string, items []domain.GroceryItem) error

	// Purchase atomically debits total and merges items into the player's
	// persistent inventory. Fails domain.ErrInsufficientFunds without any
	// partial application.
	Purchase(ctx context.Context, playerID string, total int, items []domain.GroceryItem) error

	// ExchangeItems settles an accepted trading offer in one transaction:
	// the acceptor loses desired and gains offered (offered items come out
	// of board escrow, not the poster's inventory); the poster gains
	// desired. Fails domain.ErrInsufficientItems when the acceptor cannot
	// cover desired; neither leg is applied.
	ExchangeItems(ctx context.Context, posterID, acceptorID string, offered, desired domain.ItemStack) error
}

type service struct {
	repo            repository.Player
	startingBalance int
	cache           *recordCache
	sleep           func(time.Duration) // injectable for tests
}

// NewService creates a new player database service. New players are
// provisioned on first touch with startingBalance and an empty inventory.
func NewService(repo repository.Player, startingBalance int) Service {
	return &service{
		repo:            repo,
		startingBalance: startingBalance,
		cache:           newRecordCache(RecordCacheSize, RecordCacheTTL),
		sleep:           time.Sleep,
	}
}

// retryable reports whether an error is worth another attempt. Domain
// validation errors are final; everything else is treated as a transient
// store failure.
func retryable(err error) bool {
	switch {
	case errors.Is(err, domain.ErrInsufficientItems),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrPlayerNotFound):
		return false
	}
	return true
}

// withRetry runs op up to MaxPersistenceAttempts times with doubling
// backoff, then wraps the last error in domain.ErrPersistenceUnavailable.
func (s *service) withRetry(ctx context.Context, name string, op func() error) error {
	backoff := RetryBackoffBase
	var err error
	for attempt := 1; attempt <= MaxPersistenceAttempts; attempt++ {
		err = op()
		if err == nil || !retryable(err) {
			return err
		}
		metrics.PersistenceRetries.WithLabelValues(name).Inc()
		logger.FromContext(ctx).Warn("Transient player database failure",
			"operation", name, "attempt", attempt, "error", err)
		if attempt < MaxPersistenceAttempts {
			s.sleep(backoff)
			backoff *= 2
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrPersistenceUnavailable, err)
}

// EnsurePlayer resolves a record, provisioning it on first touch.
// Missing players are a policy case, not an error.
func (s *service) EnsurePlayer(ctx context.Context, playerID string) (*domain.PlayerEconomicRecord, error) {
	if record, ok := s.cache.Get(playerID); ok {
		return record, nil
	}

	var record *domain.PlayerEconomicRecord
	err := s.withRetry(ctx, "ensure_player", func() error {
		var err error
		record, err = s.repo.GetRecord(ctx, playerID)
		if errors.Is(err, domain.ErrPlayerNotFound) {
			fresh := domain.PlayerEconomicRecord{
				PlayerID:  playerID,
				Balance:   s.startingBalance,
				Inventory: domain.Inventory{Items: []domain.GroceryItem{}},
			}
			if createErr := s.repo.CreateRecord(ctx, fresh); createErr != nil {
				return createErr
			}
			logger.FromContext(ctx).Info("Provisioned new player record",
				"player_id", playerID, "starting_balance", s.startingBalance)
			record, err = s.repo.GetRecord(ctx, playerID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cache.Put(record)
	return record, nil
}

func (s *service) GetBalance(ctx context.Context, playerID string) (int, error) {
	record, err := s.EnsurePlayer(ctx, playerID)
	if err != nil {
		return 0, err
	}
	return record.Balance, nil
}

func (s *service) SetBalance(ctx context.Context, playerID string, value int) error {
	if value < 0 {
		return fmt.Errorf("%w: balance cannot be negative", domain.ErrInsufficientFunds)
	}
	record, err := s.EnsurePlayer(ctx, playerID)
	if err != nil {
		return err
	}

	updated := record.Clone()
	updated.Balance = value
	err = s.withRetry(ctx, "set_balance", func() error {
		return s.repo.UpdateRecord(ctx, updated)
	})
	s.cache.Invalidate(playerID)
	return err
}

func (s *service) GetInventory(ctx context.Context, playerID string) (domain.Inventory, error) {
	record, err := s.EnsurePlayer(ctx, playerID)
	if err != nil {
		return domain.Inventory{}, err
	}
	return record.Inventory.Clone(), nil
}

func (s *service) AddToInventory(ctx context.Context, playerID string, items []domain.GroceryItem) error {
	if _, err := s.EnsurePlayer(ctx, playerID); err != nil {
		return err
	}
	defer s.cache.Invalidate(playerID)

	return s.withRetry(ctx, "add_to_inventory", func() error {
		return s.inTx(ctx, func(tx repository.PlayerTx) error {
			record, err := tx.GetRecordForUpdate(ctx, playerID)
			if err != nil {
				return err
			}
			record.Inventory.Items = economy.MergeItems(record.Inventory.Items, items)
			record.Inventory.LastUpdate = time.Now().Unix()
			return tx.UpdateRecord(ctx, *record)
		})
	})
}

func (s *service) RemoveFromInventory(ctx context.Context, playerID string, items []domain.GroceryItem) error {
	if _, err := s.EnsurePlayer(ctx, playerID); err != nil {
		return err
	}
	defer s.cache.Invalidate(playerID)

	return s.withRetry(ctx, "remove_from_inventory", func() error {
		return s.inTx(ctx, func(tx repository.PlayerTx) error {
			record, err := tx.GetRecordForUpdate(ctx, playerID)
			if err != nil {
				return err
			}
			remaining, err := economy.RemoveItems(record.Inventory.Items, items)
			if err != nil {
				return err
			}
			record.Inventory.Items = remaining
			record.Inventory.LastUpdate = time.Now().Unix()
			return tx.UpdateRecord(ctx, *record)
		})
	})
}

func (s *service) Purchase(ctx context.Context, playerID string, total int, items []domain.GroceryItem) error {
	if _, err := s.EnsurePlayer(ctx, playerID); err != nil {
		return err
	}
	defer s.cache.Invalidate(playerID)

	return s.withRetry(ctx, "purchase", func() error {
		return s.inTx(ctx, func(tx repository.PlayerTx) error {
			record, err := tx.GetRecordForUpdate(ctx, playerID)
			if err != nil {
				return err
			}
			if record.Balance < total {
				return fmt.Errorf("%w: balance %d, total %d", domain.ErrInsufficientFunds, record.Balance, total)
			}
			record.Balance -= total
			record.Inventory.Items = economy.MergeItems(record.Inventory.Items, items)
			record.Inventory.LastUpdate = time.Now().Unix()
			return tx.UpdateRecord(ctx, *record)
		})
	})
}

func (s *service) ExchangeItems(ctx context.Context, posterID, acceptorID string, offered, desired domain.ItemStack) error {
	if _, err := s.EnsurePlayer(ctx, posterID); err != nil {
		return err
	}
	if _, err := s.EnsurePlayer(ctx, acceptorID); err != nil {
		return err
	}
	defer s.cache.Invalidate(posterID)
	defer s.cache.Invalidate(acceptorID)

	return s.withRetry(ctx, "exchange_items", func() error {
		return s.inTx(ctx, func(tx repository.PlayerTx) error {
			// Lock in a fixed order so two concurrent trades between the
			// same pair cannot deadlock.
			firstID, secondID := posterID, acceptorID
			if acceptorID < posterID {
				firstID, secondID = acceptorID, posterID
			}
			first, err := tx.GetRecordForUpdate(ctx, firstID)
			if err != nil {
				return err
			}
			second, err := tx.GetRecordForUpdate(ctx, secondID)
			if err != nil {
				return err
			}

			poster, acceptor := first, second
			if first.PlayerID != posterID {
				poster, acceptor = second, first
			}

			remaining, err := economy.RemoveItems(acceptor.Inventory.Items, economy.StackAsItems(desired))
			if err != nil {
				return err
			}
			now := time.Now().Unix()
			acceptor.Inventory.Items = economy.MergeItems(remaining, economy.StackAsItems(offered))
			acceptor.Inventory.LastUpdate = now
			poster.Inventory.Items = economy.MergeItems(poster.Inventory.Items, economy.StackAsItems(desired))
			poster.Inventory.LastUpdate = now

			if err := tx.UpdateRecord(ctx, *acceptor); err != nil {
				return err
			}
			return tx.UpdateRecord(ctx, *poster)
		})
	})
}

// inTx runs fn inside a repository transaction with commit/rollback handling.
func (s *service) inTx(ctx context.Context, fn func(repository.PlayerTx) error) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			logger.FromContext(ctx).Error("Failed to rollback transaction", "error", rbErr)
		}
		return err
	}
	return tx.Commit(ctx)
}
