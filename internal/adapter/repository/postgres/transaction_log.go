package postgres

import (
	"context"
	"fmt"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/infrastructure/postgres/generated"
	"github.com/iho/creditledger/internal/usecase"
)

// TransactionLog implements usecase.TransactionLog over the
// credit_transactions and charge_transactions tables.
type TransactionLog struct {
	queries *generated.Queries
}

// NewTransactionLog creates a new TransactionLog.
func NewTransactionLog(db generated.DBTX) *TransactionLog {
	return &TransactionLog{queries: generated.New(db)}
}

// Exists checks the key inside tx.
func (l *TransactionLog) Exists(ctx context.Context, tx usecase.Transaction, kind domain.TransactionKind, key string) (bool, error) {
	queries := l.queries.WithTx(pgxTx(tx, "Exists"))

	var (
		exists bool
		err    error
	)

	switch kind {
	case domain.KindCredit:
		exists, err = queries.CreditTransactionKeyExists(ctx, key)
	case domain.KindCharge:
		exists, err = queries.ChargeTransactionKeyExists(ctx, key)
	default:
		return false, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidTransaction, kind)
	}

	return exists, mapError(err)
}

// Append inserts the transaction. The unique key constraint turns a second
// insert of the same key into domain.ErrDuplicateKey.
func (l *TransactionLog) Append(ctx context.Context, tx usecase.Transaction, transaction *domain.Transaction) error {
	queries := l.queries.WithTx(pgxTx(tx, "Append"))

	if err := transaction.Validate(); err != nil {
		return err
	}

	var err error

	switch transaction.Kind {
	case domain.KindCredit:
		err = queries.CreateCreditTransaction(ctx, generated.CreateCreditTransactionParams{
			ID:             transaction.ID,
			TransactionKey: transaction.Key,
			SellerID:       transaction.SellerID,
			Amount:         decimalToNumeric(transaction.Amount),
			CreditType:     string(transaction.CreditType),
			CreatedAt:      timeToPgTimestamptz(transaction.CreatedAt),
		})
	case domain.KindCharge:
		err = queries.CreateChargeTransaction(ctx, generated.CreateChargeTransactionParams{
			ID:             transaction.ID,
			TransactionKey: transaction.Key,
			SellerID:       transaction.SellerID,
			PhoneNumberID:  transaction.PhoneNumber.ID,
			Amount:         decimalToNumeric(transaction.Amount),
			CreatedAt:      timeToPgTimestamptz(transaction.CreatedAt),
		})
	}

	return mapError(err)
}

// ListCredits lists credit transactions, newest first. An empty seller ID
// lists every seller's.
func (l *TransactionLog) ListCredits(ctx context.Context, filter usecase.CreditFilter) ([]*domain.Transaction, error) {
	rows, err := l.queries.ListCreditTransactions(ctx, generated.ListCreditTransactionsParams{
		SellerID: filter.SellerID,
		RowLimit: int32(domain.ClampLimit(filter.Limit)),
	})
	if err != nil {
		return nil, mapError(err)
	}

	transactions := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, &domain.Transaction{
			ID:         row.ID,
			Key:        row.TransactionKey,
			SellerID:   row.SellerID,
			Kind:       domain.KindCredit,
			Amount:     numericToDecimal(row.Amount),
			CreditType: domain.CreditType(row.CreditType),
			CreatedAt:  row.CreatedAt.Time,
		})
	}

	return transactions, nil
}

// ListCharges lists charge transactions with their phone numbers, newest first.
func (l *TransactionLog) ListCharges(ctx context.Context, filter usecase.ChargeFilter) ([]*domain.Transaction, error) {
	rows, err := l.queries.ListChargeTransactions(ctx, generated.ListChargeTransactionsParams{
		SellerID:    filter.SellerID,
		PhoneNumber: filter.PhoneNumber,
		RowLimit:    int32(domain.ClampLimit(filter.Limit)),
	})
	if err != nil {
		return nil, mapError(err)
	}

	transactions := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, &domain.Transaction{
			ID:       row.ID,
			Key:      row.TransactionKey,
			SellerID: row.SellerID,
			Kind:     domain.KindCharge,
			Amount:   numericToDecimal(row.Amount),
			PhoneNumber: &domain.PhoneNumber{
				ID:        row.PhoneNumberID,
				Number:    row.PhoneNumber,
				CreatedAt: row.PhoneCreatedAt.Time,
			},
			CreatedAt: row.CreatedAt.Time,
		})
	}

	return transactions, nil
}

// Snapshot reads the balance and the log sums in one statement, so both
// come from the same MVCC snapshot.
func (l *TransactionLog) Snapshot(ctx context.Context, sellerID string) (usecase.LedgerSnapshot, error) {
	row, err := l.queries.GetLedgerSnapshot(ctx, sellerID)
	if err != nil {
		return usecase.LedgerSnapshot{}, sellerError(err)
	}

	return usecase.LedgerSnapshot{
		Balance: numericToDecimal(row.Balance),
		Totals: usecase.LedgerTotals{
			Increases: numericToDecimal(row.Increases),
			Decreases: numericToDecimal(row.Decreases),
			Charges:   numericToDecimal(row.Charges),
		},
	}, nil
}
