// Package memory is an in-process ledger store. It gives the same guarantees
// as the postgres store: exclusive per-seller access inside a unit of work,
// unique transaction keys and all-or-nothing commits.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

// ErrTxDone is returned when a finished unit of work is committed again.
var ErrTxDone = errors.New("memory: transaction already committed or rolled back")

type keyRef struct {
	kind domain.TransactionKind
	key  string
}

// Store holds all ledger state. Mutations staged by a Tx become visible
// atomically on Commit.
type Store struct {
	mu sync.RWMutex

	sellers     map[string]*domain.Seller
	sellerOrder []string
	principals  map[string]string

	credits  []*domain.Transaction
	charges  []*domain.Transaction
	keys     map[keyRef]struct{}
	reserved map[keyRef]*Tx

	phones     map[string]*domain.PhoneNumber
	phoneOrder []string

	locksMu sync.Mutex
	locks   map[string]*sellerLock

	idGen usecase.IDGenerator
	clock usecase.Clock
}

// NewStore creates an empty store. idGen names lazily created phone numbers.
func NewStore(idGen usecase.IDGenerator, clock usecase.Clock) *Store {
	if clock == nil {
		clock = usecase.SystemClock()
	}

	return &Store{
		sellers:    make(map[string]*domain.Seller),
		principals: make(map[string]string),
		keys:       make(map[keyRef]struct{}),
		reserved:   make(map[keyRef]*Tx),
		phones:     make(map[string]*domain.PhoneNumber),
		locks:      make(map[string]*sellerLock),
		idGen:      idGen,
		clock:      clock,
	}
}

// Sellers returns the seller repository backed by s.
func (s *Store) Sellers() *SellerRepository { return &SellerRepository{store: s} }

// Transactions returns the transaction log backed by s.
func (s *Store) Transactions() *TransactionLog { return &TransactionLog{store: s} }

// PhoneNumbers returns the phone number repository backed by s.
func (s *Store) PhoneNumbers() *PhoneNumberRepository { return &PhoneNumberRepository{store: s} }

// Begin starts a unit of work.
func (s *Store) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreTimeout, err)
	}

	return &Tx{
		store:    s,
		locked:   make(map[string]struct{}),
		balances: make(map[string]stagedBalance),
		phones:   make(map[string]*domain.PhoneNumber),
	}, nil
}

func (s *Store) lockFor(sellerID string) *sellerLock {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	l, ok := s.locks[sellerID]
	if !ok {
		l = &sellerLock{}
		s.locks[sellerID] = l
	}

	return l
}

type stagedBalance struct {
	balance   decimal.Decimal
	updatedAt time.Time
}

// Tx is a memory unit of work. It is not safe for concurrent use.
type Tx struct {
	store *Store

	locked   map[string]struct{}
	balances map[string]stagedBalance
	appended []*domain.Transaction
	keys     []keyRef
	phones   map[string]*domain.PhoneNumber

	done bool
}

// Commit applies all staged writes atomically and releases seller locks.
// A unit of work whose context has ended is rolled back instead.
func (tx *Tx) Commit(ctx context.Context) error {
	if tx.done {
		return ErrTxDone
	}

	if err := ctx.Err(); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("%w: commit: %w", domain.ErrStoreTimeout, err)
	}

	s := tx.store
	s.mu.Lock()

	for number, phone := range tx.phones {
		if existing, ok := s.phones[number]; ok {
			// Another unit of work created the same number first. Callers
			// already hold phone, so it takes the stored identity in place.
			*phone = *existing
			continue
		}
		s.phones[number] = phone
		s.phoneOrder = append(s.phoneOrder, number)
	}

	for id, staged := range tx.balances {
		seller := s.sellers[id]
		seller.Balance = staged.balance
		seller.UpdatedAt = staged.updatedAt
		seller.Version++
	}

	for _, t := range tx.appended {
		if t.Kind == domain.KindCharge {
			if phone, ok := tx.phones[t.PhoneNumber.Number]; ok {
				t.PhoneNumber = phone
			}
			s.charges = append(s.charges, t)
		} else {
			s.credits = append(s.credits, t)
		}
	}

	for _, ref := range tx.keys {
		s.keys[ref] = struct{}{}
		delete(s.reserved, ref)
	}

	s.mu.Unlock()

	tx.finish()

	return nil
}

// Rollback discards staged writes and releases seller locks. Rolling back a
// finished unit of work is a no-op.
func (tx *Tx) Rollback(_ context.Context) error {
	if tx.done {
		return nil
	}

	s := tx.store
	s.mu.Lock()
	for _, ref := range tx.keys {
		delete(s.reserved, ref)
	}
	s.mu.Unlock()

	tx.finish()

	return nil
}

func (tx *Tx) finish() {
	tx.done = true

	for id := range tx.locked {
		tx.store.lockFor(id).release()
	}

	tx.locked = nil
}

func (tx *Tx) holds(sellerID string) bool {
	_, ok := tx.locked[sellerID]
	return ok
}

// mustTx extracts the memory unit of work. Store calls outside one are
// programming errors.
func mustTx(tx usecase.Transaction, op string) *Tx {
	if tx == nil {
		panic(fmt.Sprintf("memory: %s called outside a unit of work", op))
	}

	mtx, ok := tx.(*Tx)
	if !ok {
		panic(fmt.Sprintf("memory: %s called with foreign transaction %T", op, tx))
	}

	if mtx.done {
		panic(fmt.Sprintf("memory: %s called on a finished unit of work", op))
	}

	return mtx
}

func copySeller(s *domain.Seller) *domain.Seller {
	c := *s
	return &c
}
