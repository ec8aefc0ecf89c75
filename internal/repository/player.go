package repository

import (
	"context"

	"github.com/osse101/TownCommerce_Go/internal/domain"
)

// Player defines the interface for player economic persistence
type Player interface {
	GetRecord(ctx context.Context, playerID string) (*domain.PlayerEconomicRecord, error)
	CreateRecord(ctx context.Context, record domain.PlayerEconomicRecord) error
	UpdateRecord(ctx context.Context, record domain.PlayerEconomicRecord) error
	BeginTx(ctx context.Context) (PlayerTx, error)
}

// PlayerTx defines the interface for player transactions. GetRecordForUpdate
// takes a row lock so concurrent transactions on the same player serialize.
type PlayerTx interface {
	GetRecordForUpdate(ctx context.Context, playerID string) (*domain.PlayerEconomicRecord, error)
	UpdateRecord(ctx context.Context, record domain.PlayerEconomicRecord) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
