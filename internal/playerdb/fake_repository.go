package playerdb

import (
	"context"
	"fmt"
	"sync"

	"github.com/osse101/TownCommerce_Go/internal/domain"
	"github.com/osse101/TownCommerce_Go/internal/repository"
)

// FakeRepository is a stateful in-memory implementation of
// repository.Player for integration-style unit tests. It lives in this
// package so area tests can build a full player database without Postgres.
//
// FailNext makes the next n repository calls return a synthetic transient
// error, for exercising the retry and rollback paths.
type FakeRepository struct {
	mu       sync.Mutex
	records  map[string]*domain.PlayerEconomicRecord
	FailNext int
}

// NewFakeRepository creates an empty fake repository
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		records: make(map[string]*domain.PlayerEconomicRecord),
	}
}

func (f *FakeRepository) failing() bool {
	if f.FailNext > 0 {
		f.FailNext--
		return true
	}
	return false
}

func (f *FakeRepository) GetRecord(_ context.Context, playerID string) (*domain.PlayerEconomicRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing() {
		return nil, fmt.Errorf("fake: connection reset")
	}
	record, ok := f.records[playerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPlayerNotFound, playerID)
	}
	clone := record.Clone()
	return &clone, nil
}

func (f *FakeRepository) CreateRecord(_ context.Context, record domain.PlayerEconomicRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing() {
		return fmt.Errorf("fake: connection reset")
	}
	if _, ok := f.records[record.PlayerID]; ok {
		return nil
	}
	clone := record.Clone()
	f.records[record.PlayerID] = &clone
	return nil
}

func (f *FakeRepository) UpdateRecord(_ context.Context, record domain.PlayerEconomicRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing() {
		return fmt.Errorf("fake: connection reset")
	}
	if _, ok := f.records[record.PlayerID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrPlayerNotFound, record.PlayerID)
	}
	clone := record.Clone()
	f.records[record.PlayerID] = &clone
	return nil
}

// BeginTx returns a transaction over a snapshot of the store; nothing is
// visible to other readers until Commit.
func (f *FakeRepository) BeginTx(_ context.Context) (repository.PlayerTx, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing() {
		return nil, fmt.Errorf("fake: connection reset")
	}
	staged := make(map[string]*domain.PlayerEconomicRecord, len(f.records))
	for id, record := range f.records {
		clone := record.Clone()
		staged[id] = &clone
	}
	return &fakeTx{repo: f, staged: staged}, nil
}

type fakeTx struct {
	repo     *FakeRepository
	staged   map[string]*domain.PlayerEconomicRecord
	finished bool
}

func (t *fakeTx) GetRecordForUpdate(_ context.Context, playerID string) (*domain.PlayerEconomicRecord, error) {
	t.repo.mu.Lock()
	failing := t.repo.failing()
	t.repo.mu.Unlock()
	if failing {
		return nil, fmt.Errorf("fake: connection reset")
	}
	record, ok := t.staged[playerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPlayerNotFound, playerID)
	}
	clone := record.Clone()
	return &clone, nil
}

func (t *fakeTx) UpdateRecord(_ context.Context, record domain.PlayerEconomicRecord) error {
	t.repo.mu.Lock()
	failing := t.repo.failing()
	t.repo.mu.Unlock()
	if failing {
		return fmt.Errorf("fake: connection reset")
	}
	if _, ok := t.staged[record.PlayerID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrPlayerNotFound, record.PlayerID)
	}
	clone := record.Clone()
	t.staged[record.PlayerID] = &clone
	return nil
}

func (t *fakeTx) Commit(_ context.Context) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	if t.finished {
		return fmt.Errorf("fake: transaction already finished")
	}
	t.finished = true
	t.repo.records = t.staged
	return nil
}

func (t *fakeTx) Rollback(_ context.Context) error {
	t.finished = true
	return nil
}
