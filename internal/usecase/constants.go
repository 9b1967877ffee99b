package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds a single unit of work, lock wait included.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long adapter responses are kept for replay.
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyProcessing is the stored value while the first request with a
	// key is still running.
	IdempotencyProcessing = "processing"
)
