package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind tags the payload carried by a Transaction.
type TransactionKind string

const (
	KindCredit TransactionKind = "credit"
	KindCharge TransactionKind = "charge"
)

// CreditType is the direction of a credit transaction.
type CreditType string

const (
	CreditIncrease CreditType = "INCREASE"
	// CreditDecrease is reserved; the ledger engine never produces it.
	CreditDecrease CreditType = "DECREASE"
)

// IsValid reports whether t is a known credit type.
func (t CreditType) IsValid() bool {
	return t == CreditIncrease || t == CreditDecrease
}

// Transaction is an immutable ledger movement. Kind selects which of the
// kind-specific fields is set: CreditType for credits, PhoneNumber for charges.
type Transaction struct {
	CreatedAt time.Time
	ID        string
	Key       string
	SellerID  string
	Kind      TransactionKind
	Amount    decimal.Decimal

	CreditType  CreditType
	PhoneNumber *PhoneNumber
}

// NewCreditTransaction builds a credit increase record.
func NewCreditTransaction(id, key, sellerID string, amount decimal.Decimal, at time.Time) *Transaction {
	return &Transaction{
		ID:         id,
		Key:        key,
		SellerID:   sellerID,
		Kind:       KindCredit,
		Amount:     amount,
		CreatedAt:  at,
		CreditType: CreditIncrease,
	}
}

// NewChargeTransaction builds a charge sale record against phone.
func NewChargeTransaction(id, key, sellerID string, phone *PhoneNumber, amount decimal.Decimal, at time.Time) *Transaction {
	return &Transaction{
		ID:          id,
		Key:         key,
		SellerID:    sellerID,
		Kind:        KindCharge,
		Amount:      amount,
		CreatedAt:   at,
		PhoneNumber: phone,
	}
}

// Validate checks the common fields and the payload of the tagged kind.
func (t *Transaction) Validate() error {
	if t.Key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidTransaction)
	}

	if t.SellerID == "" {
		return fmt.Errorf("%w: empty seller", ErrInvalidTransaction)
	}

	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}

	switch t.Kind {
	case KindCredit:
		if !t.CreditType.IsValid() {
			return fmt.Errorf("%w: unknown credit type %q", ErrInvalidTransaction, t.CreditType)
		}
		if t.PhoneNumber != nil {
			return fmt.Errorf("%w: credit carries a phone number", ErrInvalidTransaction)
		}
	case KindCharge:
		if t.PhoneNumber == nil || t.PhoneNumber.ID == "" {
			return fmt.Errorf("%w: charge without phone number", ErrInvalidTransaction)
		}
		if t.CreditType != "" {
			return fmt.Errorf("%w: charge carries a credit type", ErrInvalidTransaction)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidTransaction, t.Kind)
	}

	return nil
}

// SignedAmount is the effect of the transaction on the seller balance.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Kind == KindCharge || t.CreditType == CreditDecrease {
		return t.Amount.Neg()
	}
	return t.Amount
}
