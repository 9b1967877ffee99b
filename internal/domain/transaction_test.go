package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTransaction_Validate(t *testing.T) {
	now := time.Now().UTC()
	phone := &PhoneNumber{ID: "phone-1", Number: "09121234567"}

	tests := []struct {
		name        string
		tx          *Transaction
		expectError error
	}{
		{
			name:        "valid credit",
			tx:          NewCreditTransaction("tx-1", "key-1", "seller-1", decimal.NewFromInt(100), now),
			expectError: nil,
		},
		{
			name:        "valid charge",
			tx:          NewChargeTransaction("tx-2", "key-2", "seller-1", phone, decimal.NewFromInt(100), now),
			expectError: nil,
		},
		{
			name:        "zero amount",
			tx:          NewCreditTransaction("tx-3", "key-3", "seller-1", decimal.Zero, now),
			expectError: ErrInvalidAmount,
		},
		{
			name:        "charge without phone",
			tx:          NewChargeTransaction("tx-4", "key-4", "seller-1", nil, decimal.NewFromInt(10), now),
			expectError: ErrInvalidTransaction,
		},
		{
			name: "credit with phone payload",
			tx: &Transaction{
				Key: "key-5", SellerID: "seller-1", Kind: KindCredit, Amount: decimal.NewFromInt(1),
				CreditType: CreditIncrease, PhoneNumber: phone,
			},
			expectError: ErrInvalidTransaction,
		},
		{
			name:        "unknown kind",
			tx:          &Transaction{Key: "key-6", SellerID: "seller-1", Kind: "refund", Amount: decimal.NewFromInt(1)},
			expectError: ErrInvalidTransaction,
		},
		{
			name:        "missing key",
			tx:          NewCreditTransaction("tx-7", "", "seller-1", decimal.NewFromInt(1), now),
			expectError: ErrInvalidTransaction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()

			if tt.expectError == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.expectError != nil && !errors.Is(err, tt.expectError) {
				t.Errorf("expected error %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestTransaction_SignedAmount(t *testing.T) {
	now := time.Now().UTC()
	amount := decimal.NewFromInt(25)

	credit := NewCreditTransaction("tx-1", "k1", "s1", amount, now)
	if !credit.SignedAmount().Equal(amount) {
		t.Errorf("expected credit to add %s, got %s", amount, credit.SignedAmount())
	}

	charge := NewChargeTransaction("tx-2", "k2", "s1", &PhoneNumber{ID: "p1"}, amount, now)
	if !charge.SignedAmount().Equal(amount.Neg()) {
		t.Errorf("expected charge to subtract %s, got %s", amount, charge.SignedAmount())
	}
}
