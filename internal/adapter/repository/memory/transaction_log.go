package memory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

// TransactionLog implements usecase.TransactionLog.
type TransactionLog struct {
	store *Store
}

// Exists reports whether key is committed or already appended by tx.
func (l *TransactionLog) Exists(_ context.Context, tx usecase.Transaction, kind domain.TransactionKind, key string) (bool, error) {
	mtx := mustTx(tx, "Exists")
	ref := keyRef{kind: kind, key: key}

	for _, own := range mtx.keys {
		if own == ref {
			return true, nil
		}
	}

	s := l.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.keys[ref]

	return ok, nil
}

// Append stages transaction. The key is reserved until tx ends, so a second
// unit of work appending the same key gets domain.ErrDuplicateKey even before
// the first one commits.
func (l *TransactionLog) Append(_ context.Context, tx usecase.Transaction, transaction *domain.Transaction) error {
	mtx := mustTx(tx, "Append")

	if err := transaction.Validate(); err != nil {
		return err
	}

	ref := keyRef{kind: transaction.Kind, key: transaction.Key}

	s := l.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keys[ref]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateKey, transaction.Key)
	}

	if _, ok := s.reserved[ref]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateKey, transaction.Key)
	}

	s.reserved[ref] = mtx
	mtx.keys = append(mtx.keys, ref)

	t := *transaction
	mtx.appended = append(mtx.appended, &t)

	return nil
}

// ListCredits returns committed credit transactions, newest first.
func (l *TransactionLog) ListCredits(_ context.Context, filter usecase.CreditFilter) ([]*domain.Transaction, error) {
	s := l.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	return newestFirst(s.credits, domain.ClampLimit(filter.Limit), func(t *domain.Transaction) bool {
		return filter.SellerID == "" || t.SellerID == filter.SellerID
	}), nil
}

// ListCharges returns committed charge transactions, newest first.
func (l *TransactionLog) ListCharges(_ context.Context, filter usecase.ChargeFilter) ([]*domain.Transaction, error) {
	s := l.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	return newestFirst(s.charges, domain.ClampLimit(filter.Limit), func(t *domain.Transaction) bool {
		if filter.SellerID != "" && t.SellerID != filter.SellerID {
			return false
		}
		return filter.PhoneNumber == "" || t.PhoneNumber.Number == filter.PhoneNumber
	}), nil
}

// Snapshot reads the seller and sums its log under one read lock. Commit
// holds the write lock, so no unit of work lands between the two.
func (l *TransactionLog) Snapshot(_ context.Context, sellerID string) (usecase.LedgerSnapshot, error) {
	s := l.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	seller, ok := s.sellers[sellerID]
	if !ok {
		return usecase.LedgerSnapshot{}, domain.ErrSellerNotFound
	}

	totals := usecase.LedgerTotals{
		Increases: decimal.Zero,
		Decreases: decimal.Zero,
		Charges:   decimal.Zero,
	}

	for _, t := range s.credits {
		if t.SellerID != sellerID {
			continue
		}
		if t.CreditType == domain.CreditDecrease {
			totals.Decreases = totals.Decreases.Add(t.Amount)
		} else {
			totals.Increases = totals.Increases.Add(t.Amount)
		}
	}

	for _, t := range s.charges {
		if t.SellerID == sellerID {
			totals.Charges = totals.Charges.Add(t.Amount)
		}
	}

	return usecase.LedgerSnapshot{Balance: seller.Balance, Totals: totals}, nil
}

// newestFirst walks the append order backwards, which is commit order.
func newestFirst(all []*domain.Transaction, limit int, match func(*domain.Transaction) bool) []*domain.Transaction {
	out := make([]*domain.Transaction, 0)

	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		if match(all[i]) {
			t := *all[i]
			out = append(out, &t)
		}
	}

	return out
}
