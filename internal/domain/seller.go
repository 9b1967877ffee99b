package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Seller holds a prepaid credit balance.
type Seller struct {
	ID          string
	PrincipalID string
	Balance     decimal.Decimal
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateCharge checks if the seller can be charged amount.
func (s *Seller) ValidateCharge(amount decimal.Decimal) error {
	if s.Balance.LessThan(amount) {
		return ErrInsufficientCredit
	}
	return nil
}

// ApplyIncrease returns new balance after a credit increase.
func (s *Seller) ApplyIncrease(amount decimal.Decimal) decimal.Decimal {
	return s.Balance.Add(amount)
}

// ApplyCharge returns new balance after a charge sale.
func (s *Seller) ApplyCharge(amount decimal.Decimal) decimal.Decimal {
	return s.Balance.Sub(amount)
}
