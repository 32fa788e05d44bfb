package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction.
	// This prevents long-running transactions from blocking tables.
	DefaultTransactionTimeout = 10 * time.Second

	// PreviewCacheTTL is how long expected-balance previews are cached.
	// Short on purpose: a preview may be consulted a few times in a row
	// while counting cash, but must not survive new drawer activity long.
	PreviewCacheTTL = 5 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)
