package concurrency

import (
	"sync"
)

// LockManager hands out named locks. The area dispatcher uses one lock per
// area id so commands for the same area run strictly one at a time while
// different areas proceed in parallel. Locks are created on first use and
// never released; the set of names is small and fixed.
type LockManager struct {
	locks sync.Map
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns the mutex for the given key, creating it if needed
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
