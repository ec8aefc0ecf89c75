package playerdb

import "time"

// Persistence retry policy. Transient store failures are retried this many
// times with doubling backoff before the command surfaces
// PersistenceUnavailable.
const (
	MaxPersistenceAttempts = 3
	RetryBackoffBase       = 50 * time.Millisecond
)

// Record cache sizing
const (
	RecordCacheSize = 1024
	RecordCacheTTL  = 30 * time.Second
)
