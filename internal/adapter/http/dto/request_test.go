package dto

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

func TestCreateSellerRequest_ToUseCaseInput(t *testing.T) {
	req := &CreateSellerRequest{PrincipalID: "user-42"}

	got := req.ToUseCaseInput()
	want := usecase.CreateSellerInput{PrincipalID: "user-42"}

	if got != want {
		t.Fatalf("ToUseCaseInput() = %+v, want %+v", got, want)
	}
}

func TestIncreaseCreditRequest_ToUseCaseInput(t *testing.T) {
	tests := []struct {
		name        string
		request     *IncreaseCreditRequest
		headerKey   string
		wantAmount  string
		wantKey     string
		expectError bool
	}{
		{
			name:       "valid amount",
			request:    &IncreaseCreditRequest{Amount: "12.34"},
			wantAmount: "12.34",
		},
		{
			name:       "header key wins over body key",
			request:    &IncreaseCreditRequest{Amount: "1", IdempotencyKey: "body"},
			headerKey:  "header",
			wantAmount: "1",
			wantKey:    "header",
		},
		{
			name:       "body key used without header",
			request:    &IncreaseCreditRequest{Amount: "1", IdempotencyKey: "body"},
			wantAmount: "1",
			wantKey:    "body",
		},
		{
			name:        "invalid amount",
			request:     &IncreaseCreditRequest{Amount: "ten"},
			expectError: true,
		},
		{
			name:        "missing amount",
			request:     &IncreaseCreditRequest{},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.request.ToUseCaseInput("s1", tt.headerKey)
			if tt.expectError {
				if !errors.Is(err, domain.ErrInvalidAmount) {
					t.Fatalf("expected ErrInvalidAmount, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.SellerID != "s1" {
				t.Fatalf("expected seller s1, got %s", got.SellerID)
			}
			if !got.Amount.Equal(decimal.RequireFromString(tt.wantAmount)) {
				t.Fatalf("expected amount %s, got %s", tt.wantAmount, got.Amount)
			}
			if got.IdempotencyKey != tt.wantKey {
				t.Fatalf("expected key %q, got %q", tt.wantKey, got.IdempotencyKey)
			}
		})
	}
}

func TestSellChargeRequest_ToUseCaseInput(t *testing.T) {
	req := &SellChargeRequest{PhoneNumber: "09120000000", Amount: " 5.50 "}

	got, err := req.ToUseCaseInput("s1", "req-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.PhoneNumber != "09120000000" || got.IdempotencyKey != "req-1" || got.SellerID != "s1" {
		t.Fatalf("unexpected input %+v", got)
	}
	if !got.Amount.Equal(decimal.RequireFromString("5.5")) {
		t.Fatalf("expected amount 5.5, got %s", got.Amount)
	}
}
