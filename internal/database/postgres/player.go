package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/TownCommerce_Go/internal/domain"
	"github.com/osse101/TownCommerce_Go/internal/logger"
	"github.com/osse101/TownCommerce_Go/internal/repository"
)

// PlayerRepository implements the player repository for PostgreSQL. Player
// economic records live in a single players table with the inventory stored
// as a JSONB document.
type PlayerRepository struct {
	db *pgxpool.Pool
}

// NewPlayerRepository creates a new PlayerRepository
func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// SafeRollback rolls back a transaction and logs any error that isn't ErrTxClosed
func SafeRollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
	}
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the record
// helpers work inside and outside transactions.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func getRecord(ctx context.Context, q querier, playerID string, forUpdate bool) (*domain.PlayerEconomicRecord, error) {
	query := `
		SELECT player_id, balance, inventory
		FROM players
		WHERE player_id = $1
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var record domain.PlayerEconomicRecord
	var inventoryData []byte
	err := q.QueryRow(ctx, query, playerID).Scan(&record.PlayerID, &record.Balance, &inventoryData)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPlayerNotFound, playerID)
		}
		return nil, fmt.Errorf("failed to get player record: %w", err)
	}

	if err := json.Unmarshal(inventoryData, &record.Inventory); err != nil {
		return nil, fmt.Errorf("failed to unmarshal inventory: %w", err)
	}
	if record.Inventory.Items == nil {
		record.Inventory.Items = []domain.GroceryItem{}
	}
	return &record, nil
}

func updateRecord(ctx context.Context, q querier, record domain.PlayerEconomicRecord) error {
	inventoryJSON, err := json.Marshal(record.Inventory)
	if err != nil {
		return fmt.Errorf("failed to marshal inventory: %w", err)
	}

	query := `
		UPDATE players
		SET balance = $1, inventory = $2, updated_at = NOW()
		WHERE player_id = $3
	`
	tag, err := q.Exec(ctx, query, record.Balance, inventoryJSON, record.PlayerID)
	if err != nil {
		return fmt.Errorf("failed to update player record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrPlayerNotFound, record.PlayerID)
	}
	return nil
}

// GetRecord fetches a player's economic record.
// Returns domain.ErrPlayerNotFound when no row exists.
func (r *PlayerRepository) GetRecord(ctx context.Context, playerID string) (*domain.PlayerEconomicRecord, error) {
	return getRecord(ctx, r.db, playerID, false)
}

// CreateRecord inserts a new player record. Inserting an existing player is
// a no-op so first-touch provisioning is race-safe.
func (r *PlayerRepository) CreateRecord(ctx context.Context, record domain.PlayerEconomicRecord) error {
	inventoryJSON, err := json.Marshal(record.Inventory)
	if err != nil {
		return fmt.Errorf("failed to marshal inventory: %w", err)
	}

	query := `
		INSERT INTO players (player_id, balance, inventory, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (player_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, record.PlayerID, record.Balance, inventoryJSON); err != nil {
		return fmt.Errorf("failed to insert player record: %w", err)
	}
	return nil
}

// UpdateRecord writes balance and inventory for an existing player.
func (r *PlayerRepository) UpdateRecord(ctx context.Context, record domain.PlayerEconomicRecord) error {
	return updateRecord(ctx, r.db, record)
}

// PlayerTx implements repository.PlayerTx
type PlayerTx struct {
	tx pgx.Tx
}

// BeginTx starts a new transaction
func (r *PlayerRepository) BeginTx(ctx context.Context) (repository.PlayerTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &PlayerTx{tx: tx}, nil
}

// GetRecordForUpdate fetches a record under a row lock
func (t *PlayerTx) GetRecordForUpdate(ctx context.Context, playerID string) (*domain.PlayerEconomicRecord, error) {
	return getRecord(ctx, t.tx, playerID, true)
}

// UpdateRecord writes balance and inventory within the transaction
func (t *PlayerTx) UpdateRecord(ctx context.Context, record domain.PlayerEconomicRecord) error {
	return updateRecord(ctx, t.tx, record)
}

// Commit commits the transaction
func (t *PlayerTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction
func (t *PlayerTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}
