package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/infrastructure/postgres/generated"
	"github.com/iho/creditledger/internal/usecase"
)

// PhoneNumberRepository implements usecase.PhoneNumberRepository.
type PhoneNumberRepository struct {
	queries *generated.Queries
	idGen   usecase.IDGenerator
	clock   usecase.Clock
}

// NewPhoneNumberRepository creates a new PhoneNumberRepository.
func NewPhoneNumberRepository(db generated.DBTX, idGen usecase.IDGenerator) *PhoneNumberRepository {
	return &PhoneNumberRepository{
		queries: generated.New(db),
		idGen:   idGen,
		clock:   usecase.SystemClock(),
	}
}

// GetOrCreate inserts the number unless it exists and returns the stored row.
// Concurrent creators of the same number wait on the unique index and then
// read the winner's row.
func (r *PhoneNumberRepository) GetOrCreate(ctx context.Context, tx usecase.Transaction, number string) (*domain.PhoneNumber, error) {
	queries := r.queries.WithTx(pgxTx(tx, "GetOrCreate"))

	err := queries.CreatePhoneNumberIfAbsent(ctx, generated.CreatePhoneNumberIfAbsentParams{
		ID:        r.idGen.Generate(),
		Number:    number,
		CreatedAt: timeToPgTimestamptz(r.clock.Now()),
	})
	if err != nil {
		return nil, mapError(err)
	}

	row, err := queries.GetPhoneNumberByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPhoneNumberNotFound
		}
		return nil, mapError(err)
	}

	return rowToPhoneNumber(row), nil
}

// List lists phone numbers in creation order.
func (r *PhoneNumberRepository) List(ctx context.Context, limit, offset int) ([]*domain.PhoneNumber, error) {
	rows, err := r.queries.ListPhoneNumbers(ctx, generated.ListPhoneNumbersParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, mapError(err)
	}

	phones := make([]*domain.PhoneNumber, 0, len(rows))
	for _, row := range rows {
		phones = append(phones, rowToPhoneNumber(row))
	}

	return phones, nil
}

func rowToPhoneNumber(row generated.PhoneNumber) *domain.PhoneNumber {
	return &domain.PhoneNumber{
		ID:        row.ID,
		Number:    row.Number,
		CreatedAt: row.CreatedAt.Time,
	}
}
