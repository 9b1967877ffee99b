package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

// SellerRepository implements usecase.SellerRepository.
type SellerRepository struct {
	store *Store
}

// Create inserts a seller. The principal ID is unique.
func (r *SellerRepository) Create(_ context.Context, seller *domain.Seller) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.principals[seller.PrincipalID]; ok {
		return domain.ErrSellerExists
	}

	if _, ok := s.sellers[seller.ID]; ok {
		return domain.ErrSellerExists
	}

	s.sellers[seller.ID] = copySeller(seller)
	s.principals[seller.PrincipalID] = seller.ID
	s.sellerOrder = append(s.sellerOrder, seller.ID)

	return nil
}

// GetByID returns the last committed state of a seller.
func (r *SellerRepository) GetByID(_ context.Context, id string) (*domain.Seller, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	seller, ok := s.sellers[id]
	if !ok {
		return nil, domain.ErrSellerNotFound
	}

	return copySeller(seller), nil
}

// GetByPrincipalID looks a seller up by its external identity.
func (r *SellerRepository) GetByPrincipalID(_ context.Context, principalID string) (*domain.Seller, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.principals[principalID]
	if !ok {
		return nil, domain.ErrSellerNotFound
	}

	return copySeller(s.sellers[id]), nil
}

// GetByIDForUpdate takes the seller's exclusive lock for the rest of the unit
// of work and returns the seller as the unit of work sees it.
func (r *SellerRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Seller, error) {
	mtx := mustTx(tx, "GetByIDForUpdate")

	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if !mtx.holds(id) {
		if err := r.store.lockFor(id).acquire(ctx); err != nil {
			return nil, err
		}
		mtx.locked[id] = struct{}{}
	}

	seller, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if staged, ok := mtx.balances[id]; ok {
		seller.Balance = staged.balance
		seller.UpdatedAt = staged.updatedAt
	}

	return seller, nil
}

// UpdateBalance stages the new balance. The seller must be locked by tx.
func (r *SellerRepository) UpdateBalance(_ context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	mtx := mustTx(tx, "UpdateBalance")

	if !mtx.holds(id) {
		panic("memory: UpdateBalance on a seller not locked by this unit of work")
	}

	mtx.balances[id] = stagedBalance{balance: balance, updatedAt: updatedAt}

	return nil
}

// List returns sellers in creation order.
func (r *SellerRepository) List(_ context.Context, limit, offset int) ([]*domain.Seller, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := page(s.sellerOrder, limit, offset)
	sellers := make([]*domain.Seller, 0, len(ids))

	for _, id := range ids {
		sellers = append(sellers, copySeller(s.sellers[id]))
	}

	return sellers, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}

	if offset >= len(items) {
		return nil
	}

	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return items[offset:end]
}
