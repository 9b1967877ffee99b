package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/creditledger/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// SellerRepository is the ledger store: seller rows and their cached balance.
// GetByIDForUpdate and UpdateBalance must run inside a unit of work; calling
// them with a nil Transaction panics.
type SellerRepository interface {
	Create(ctx context.Context, seller *domain.Seller) error
	GetByID(ctx context.Context, id string) (*domain.Seller, error)
	GetByPrincipalID(ctx context.Context, principalID string) (*domain.Seller, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Seller, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Seller, error)
}

// TransactionLog is the append-only record of credit and charge transactions.
type TransactionLog interface {
	// Exists is a fast-path hint; Append is the final arbiter of uniqueness.
	Exists(ctx context.Context, tx Transaction, kind domain.TransactionKind, key string) (bool, error)
	// Append records the transaction or returns domain.ErrDuplicateKey without
	// writing anything.
	Append(ctx context.Context, tx Transaction, transaction *domain.Transaction) error
	ListCredits(ctx context.Context, filter CreditFilter) ([]*domain.Transaction, error)
	ListCharges(ctx context.Context, filter ChargeFilter) ([]*domain.Transaction, error)
	// Snapshot reads a seller's balance and log totals from one consistent
	// view. It returns domain.ErrSellerNotFound for an unknown seller.
	Snapshot(ctx context.Context, sellerID string) (LedgerSnapshot, error)
}

// PhoneNumberRepository resolves charge targets.
type PhoneNumberRepository interface {
	// GetOrCreate returns the phone number with the given value, creating it
	// inside tx when it has never been seen.
	GetOrCreate(ctx context.Context, tx Transaction, number string) (*domain.PhoneNumber, error)
	List(ctx context.Context, limit, offset int) ([]*domain.PhoneNumber, error)
}

// CreditFilter selects credit transactions, newest first. An empty SellerID
// matches all sellers.
type CreditFilter struct {
	SellerID string
	Limit    int
}

// ChargeFilter selects charge transactions, newest first. Empty fields match all.
type ChargeFilter struct {
	SellerID    string
	PhoneNumber string
	Limit       int
}

// LedgerTotals are the per-seller sums of the transaction log.
type LedgerTotals struct {
	Increases decimal.Decimal
	Decreases decimal.Decimal
	Charges   decimal.Decimal
}

// Balance is the balance implied by the totals.
func (t LedgerTotals) Balance() decimal.Decimal {
	return t.Increases.Sub(t.Decreases).Sub(t.Charges)
}

// LedgerSnapshot is a seller's recorded balance next to the totals of its log,
// both as of the same commit.
type LedgerSnapshot struct {
	Balance decimal.Decimal
	Totals  LedgerTotals
}

// Transaction represents a unit of work.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles unit of work lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient store conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock timestamps transactions and idempotency keys.
type Clock interface {
	Now() time.Time
}

// BalanceCache holds the latest committed balance per seller. Store must
// ignore versions older than the one already cached.
type BalanceCache interface {
	Load(ctx context.Context, sellerID string) (decimal.Decimal, bool, error)
	Store(ctx context.Context, sellerID string, version int64, balance decimal.Decimal) error
	// Invalidate drops the seller's entry so the next read goes to the store.
	Invalidate(ctx context.Context, sellerID string) error
}

// EventRecorder receives one event per ledger operation outcome.
type EventRecorder interface {
	Record(ctx context.Context, event LedgerEvent)
}

// IdempotencyStore handles replay of adapter responses keyed by the client
// Idempotency-Key.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not complete.
	Release(ctx context.Context, key string) error
}
