package memory

import (
	"context"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

// PhoneNumberRepository implements usecase.PhoneNumberRepository.
type PhoneNumberRepository struct {
	store *Store
}

// GetOrCreate returns the committed phone number or stages a new one in tx.
func (r *PhoneNumberRepository) GetOrCreate(_ context.Context, tx usecase.Transaction, number string) (*domain.PhoneNumber, error) {
	mtx := mustTx(tx, "GetOrCreate")

	if phone, ok := mtx.phones[number]; ok {
		return phone, nil
	}

	s := r.store
	s.mu.RLock()
	phone, ok := s.phones[number]
	s.mu.RUnlock()

	if ok {
		existing := *phone
		return &existing, nil
	}

	phone = &domain.PhoneNumber{
		ID:        s.idGen.Generate(),
		Number:    number,
		CreatedAt: s.clock.Now(),
	}
	mtx.phones[number] = phone

	return phone, nil
}

// List returns phone numbers in creation order.
func (r *PhoneNumberRepository) List(_ context.Context, limit, offset int) ([]*domain.PhoneNumber, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	numbers := page(s.phoneOrder, limit, offset)
	phones := make([]*domain.PhoneNumber, 0, len(numbers))

	for _, n := range numbers {
		p := *s.phones[n]
		phones = append(phones, &p)
	}

	return phones, nil
}
