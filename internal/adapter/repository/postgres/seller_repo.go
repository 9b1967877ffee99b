package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/infrastructure/postgres/generated"
	"github.com/iho/creditledger/internal/usecase"
)

const sellerPrincipalConstraint = "sellers_principal_id_key"

// SellerRepository implements usecase.SellerRepository.
type SellerRepository struct {
	queries *generated.Queries
}

// NewSellerRepository creates a new SellerRepository. db is usually a
// *pgxpool.Pool.
func NewSellerRepository(db generated.DBTX) *SellerRepository {
	return &SellerRepository{queries: generated.New(db)}
}

// Create inserts a seller.
func (r *SellerRepository) Create(ctx context.Context, seller *domain.Seller) error {
	err := r.queries.CreateSeller(ctx, generated.CreateSellerParams{
		ID:          seller.ID,
		PrincipalID: seller.PrincipalID,
		Balance:     decimalToNumeric(seller.Balance),
		Version:     seller.Version,
		CreatedAt:   timeToPgTimestamptz(seller.CreatedAt),
		UpdatedAt:   timeToPgTimestamptz(seller.UpdatedAt),
	})
	if isUniqueViolation(err, sellerPrincipalConstraint) {
		return domain.ErrSellerExists
	}

	return mapError(err)
}

// GetByID retrieves a seller by ID.
func (r *SellerRepository) GetByID(ctx context.Context, id string) (*domain.Seller, error) {
	row, err := r.queries.GetSellerByID(ctx, id)
	if err != nil {
		return nil, sellerError(err)
	}

	return rowToSeller(row), nil
}

// GetByPrincipalID retrieves a seller by its principal.
func (r *SellerRepository) GetByPrincipalID(ctx context.Context, principalID string) (*domain.Seller, error) {
	row, err := r.queries.GetSellerByPrincipalID(ctx, principalID)
	if err != nil {
		return nil, sellerError(err)
	}

	return rowToSeller(row), nil
}

// GetByIDForUpdate retrieves a seller with a FOR UPDATE lock held until tx ends.
func (r *SellerRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Seller, error) {
	queries := r.queries.WithTx(pgxTx(tx, "GetByIDForUpdate"))

	row, err := queries.GetSellerByIDForUpdate(ctx, id)
	if err != nil {
		return nil, sellerError(err)
	}

	return rowToSeller(row), nil
}

// UpdateBalance sets the balance and bumps the version.
func (r *SellerRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	queries := r.queries.WithTx(pgxTx(tx, "UpdateBalance"))

	rows, err := queries.UpdateSellerBalance(ctx, generated.UpdateSellerBalanceParams{
		ID:        id,
		Balance:   decimalToNumeric(balance),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return mapError(err)
	}

	if rows == 0 {
		return domain.ErrSellerNotFound
	}

	return nil
}

// List lists sellers in creation order.
func (r *SellerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Seller, error) {
	rows, err := r.queries.ListSellers(ctx, generated.ListSellersParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, mapError(err)
	}

	sellers := make([]*domain.Seller, 0, len(rows))
	for _, row := range rows {
		sellers = append(sellers, rowToSeller(row))
	}

	return sellers, nil
}

func sellerError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrSellerNotFound
	}
	return mapError(err)
}

func rowToSeller(row generated.Seller) *domain.Seller {
	return &domain.Seller{
		ID:          row.ID,
		PrincipalID: row.PrincipalID,
		Balance:     numericToDecimal(row.Balance),
		Version:     row.Version,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
