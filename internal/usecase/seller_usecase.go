package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/creditledger/internal/domain"
)

// SellerUseCase handles seller onboarding and balance reads.
type SellerUseCase struct {
	sellerRepo SellerRepository
	idGen      IDGenerator
	clock      Clock
	cache      BalanceCache
}

// NewSellerUseCase creates a new SellerUseCase. cache may be nil.
func NewSellerUseCase(sellerRepo SellerRepository, idGen IDGenerator, cache BalanceCache) *SellerUseCase {
	return &SellerUseCase{
		sellerRepo: sellerRepo,
		idGen:      idGen,
		clock:      SystemClock(),
		cache:      cache,
	}
}

// CreateSellerInput represents input for onboarding a seller.
type CreateSellerInput struct {
	PrincipalID string
}

// CreateSeller onboards a seller with a zero balance.
func (uc *SellerUseCase) CreateSeller(ctx context.Context, input CreateSellerInput) (*domain.Seller, error) {
	if err := domain.ValidatePrincipalID(input.PrincipalID); err != nil {
		return nil, err
	}

	principalID := strings.TrimSpace(input.PrincipalID)

	_, err := uc.sellerRepo.GetByPrincipalID(ctx, principalID)
	if err == nil {
		return nil, domain.ErrSellerExists
	}
	if !errors.Is(err, domain.ErrSellerNotFound) {
		return nil, err
	}

	now := uc.clock.Now()

	seller := &domain.Seller{
		ID:          uc.idGen.Generate(),
		PrincipalID: principalID,
		Balance:     decimal.Zero,
		Version:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.sellerRepo.Create(ctx, seller); err != nil {
		return nil, err
	}

	return seller, nil
}

// GetSeller retrieves a seller by ID.
func (uc *SellerUseCase) GetSeller(ctx context.Context, id string) (*domain.Seller, error) {
	return uc.sellerRepo.GetByID(ctx, id)
}

// ListSellersInput represents input for listing sellers.
type ListSellersInput struct {
	Limit  int
	Offset int
}

// ListSellers lists sellers with pagination.
func (uc *SellerUseCase) ListSellers(ctx context.Context, input ListSellersInput) ([]*domain.Seller, error) {
	if input.Offset < 0 {
		input.Offset = 0
	}
	return uc.sellerRepo.List(ctx, domain.ClampLimit(input.Limit), input.Offset)
}

// GetBalance returns the latest committed balance, reading through the cache.
func (uc *SellerUseCase) GetBalance(ctx context.Context, sellerID string) (decimal.Decimal, error) {
	if uc.cache != nil {
		if balance, ok, err := uc.cache.Load(ctx, sellerID); err == nil && ok {
			return balance, nil
		}
	}

	seller, err := uc.sellerRepo.GetByID(ctx, sellerID)
	if err != nil {
		return decimal.Zero, err
	}

	if uc.cache != nil {
		_ = uc.cache.Store(ctx, seller.ID, seller.Version, seller.Balance)
	}

	return seller.Balance, nil
}
