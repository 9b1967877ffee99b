package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/creditledger/internal/domain"
)

// reconcilePageSize is the number of sellers fetched per page in ReconcileAll.
const reconcilePageSize = 500

// ReconciliationUseCase checks that balances match their transaction history.
type ReconciliationUseCase struct {
	sellerRepo SellerRepository
	txLog      TransactionLog
	clock      Clock
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(sellerRepo SellerRepository, txLog TransactionLog) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		sellerRepo: sellerRepo,
		txLog:      txLog,
		clock:      SystemClock(),
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	SellerID          string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconcileSeller compares the recorded balance with the sum of the log. Both
// come from one snapshot, so concurrent mutations never show up as a
// difference.
func (uc *ReconciliationUseCase) ReconcileSeller(ctx context.Context, sellerID string) (*ReconciliationResult, error) {
	snapshot, err := uc.txLog.Snapshot(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	calculated := snapshot.Totals.Balance()
	diff := snapshot.Balance.Sub(calculated)

	return &ReconciliationResult{
		SellerID:          sellerID,
		RecordedBalance:   snapshot.Balance,
		CalculatedBalance: calculated,
		Difference:        diff,
		IsReconciled:      diff.IsZero(),
		LastChecked:       uc.clock.Now(),
	}, nil
}

// ReconcileAll reconciles every seller.
func (uc *ReconciliationUseCase) ReconcileAll(ctx context.Context) ([]*ReconciliationResult, error) {
	var results []*ReconciliationResult

	for offset := 0; ; offset += reconcilePageSize {
		sellers, err := uc.sellerRepo.List(ctx, reconcilePageSize, offset)
		if err != nil {
			return nil, err
		}

		for _, seller := range sellers {
			result, err := uc.ReconcileSeller(ctx, seller.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to reconcile seller %s: %w", seller.ID, err)
			}
			results = append(results, result)
		}

		if len(sellers) < reconcilePageSize {
			return results, nil
		}
	}
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalSellers      int
	ReconciledSellers int
	Discrepancies     []*ReconciliationResult
	Consistent        bool
	CheckedAt         time.Time
}

// CheckConsistency reconciles every seller and returns the report. The error
// wraps domain.ErrLedgerInconsistent when any seller is off.
func (uc *ReconciliationUseCase) CheckConsistency(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		TotalSellers:  len(results),
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     uc.clock.Now(),
	}

	for _, result := range results {
		if result.IsReconciled {
			report.ReconciledSellers++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	report.Consistent = len(report.Discrepancies) == 0
	if !report.Consistent {
		return report, fmt.Errorf("%w: %d of %d sellers", domain.ErrLedgerInconsistent, len(report.Discrepancies), report.TotalSellers)
	}

	return report, nil
}
