package playerdb

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/TownCommerce_Go/internal/domain"
)

// recordCache is a short-TTL LRU over player records. It only ever serves
// reads; every write path invalidates the player's entry before returning,
// so a stale hit can survive at most one TTL window of pure reads.
type recordCache struct {
	lru *expirable.LRU[string, *domain.PlayerEconomicRecord]
}

func newRecordCache(size int, ttl time.Duration) *recordCache {
	return &recordCache{
		lru: expirable.NewLRU[string, *domain.PlayerEconomicRecord](size, nil, ttl),
	}
}

func (c *recordCache) Get(playerID string) (*domain.PlayerEconomicRecord, bool) {
	record, ok := c.lru.Get(playerID)
	if !ok {
		return nil, false
	}
	clone := record.Clone()
	return &clone, true
}

func (c *recordCache) Put(record *domain.PlayerEconomicRecord) {
	clone := record.Clone()
	c.lru.Add(record.PlayerID, &clone)
}

func (c *recordCache) Invalidate(playerID string) {
	c.lru.Remove(playerID)
}
