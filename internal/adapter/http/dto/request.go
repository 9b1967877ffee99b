package dto

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

// CreateSellerRequest represents a request to onboard a seller.
type CreateSellerRequest struct {
	PrincipalID string `json:"principal_id"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateSellerRequest) ToUseCaseInput() usecase.CreateSellerInput {
	return usecase.CreateSellerInput{PrincipalID: r.PrincipalID}
}

// IncreaseCreditRequest represents a request to add credit to a seller.
type IncreaseCreditRequest struct {
	Amount         string `json:"amount"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// ToUseCaseInput converts to use case input. headerKey is the Idempotency-Key
// header and takes precedence over the body field.
func (r *IncreaseCreditRequest) ToUseCaseInput(sellerID, headerKey string) (usecase.IncreaseCreditInput, error) {
	amount, err := parseAmount(r.Amount)
	if err != nil {
		return usecase.IncreaseCreditInput{}, err
	}

	return usecase.IncreaseCreditInput{
		SellerID:       sellerID,
		Amount:         amount,
		IdempotencyKey: pickKey(headerKey, r.IdempotencyKey),
	}, nil
}

// SellChargeRequest represents a request to sell a charge to a phone number.
type SellChargeRequest struct {
	PhoneNumber    string `json:"phone_number"`
	Amount         string `json:"amount"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *SellChargeRequest) ToUseCaseInput(sellerID, headerKey string) (usecase.SellChargeInput, error) {
	amount, err := parseAmount(r.Amount)
	if err != nil {
		return usecase.SellChargeInput{}, err
	}

	return usecase.SellChargeInput{
		SellerID:       sellerID,
		PhoneNumber:    r.PhoneNumber,
		Amount:         amount,
		IdempotencyKey: pickKey(headerKey, r.IdempotencyKey),
	}, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", domain.ErrInvalidAmount)
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidAmount, raw)
	}

	return amount, nil
}

func pickKey(headerKey, bodyKey string) string {
	if headerKey != "" {
		return headerKey
	}
	return bodyKey
}
