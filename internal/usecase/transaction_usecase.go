package usecase

import (
	"context"

	"github.com/iho/creditledger/internal/domain"
)

// TransactionUseCase serves read access to the transaction log.
type TransactionUseCase struct {
	sellerRepo SellerRepository
	txLog      TransactionLog
	phoneRepo  PhoneNumberRepository
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(sellerRepo SellerRepository, txLog TransactionLog, phoneRepo PhoneNumberRepository) *TransactionUseCase {
	return &TransactionUseCase{
		sellerRepo: sellerRepo,
		txLog:      txLog,
		phoneRepo:  phoneRepo,
	}
}

// ListCreditTransactionsInput represents input for listing credit transactions.
type ListCreditTransactionsInput struct {
	SellerID string
	Limit    int
}

// ListCreditTransactions lists credit transactions, newest first. Without a
// seller ID it lists across all sellers.
func (uc *TransactionUseCase) ListCreditTransactions(ctx context.Context, input ListCreditTransactionsInput) ([]*domain.Transaction, error) {
	if input.SellerID != "" {
		if err := uc.ensureSeller(ctx, input.SellerID); err != nil {
			return nil, err
		}
	}

	return uc.txLog.ListCredits(ctx, CreditFilter{
		SellerID: input.SellerID,
		Limit:    domain.ClampLimit(input.Limit),
	})
}

// ListChargeTransactionsInput represents input for listing charge
// transactions. Both filters are optional.
type ListChargeTransactionsInput struct {
	SellerID    string
	PhoneNumber string
	Limit       int
}

// ListChargeTransactions lists charge transactions, newest first.
func (uc *TransactionUseCase) ListChargeTransactions(ctx context.Context, input ListChargeTransactionsInput) ([]*domain.Transaction, error) {
	filter := ChargeFilter{
		SellerID: input.SellerID,
		Limit:    domain.ClampLimit(input.Limit),
	}

	if input.SellerID != "" {
		if err := uc.ensureSeller(ctx, input.SellerID); err != nil {
			return nil, err
		}
	}

	if input.PhoneNumber != "" {
		number, err := domain.NormalizePhoneNumber(input.PhoneNumber)
		if err != nil {
			return nil, err
		}
		filter.PhoneNumber = number
	}

	return uc.txLog.ListCharges(ctx, filter)
}

// ListPhoneNumbersInput represents input for listing phone numbers.
type ListPhoneNumbersInput struct {
	Limit  int
	Offset int
}

// ListPhoneNumbers lists known charge targets.
func (uc *TransactionUseCase) ListPhoneNumbers(ctx context.Context, input ListPhoneNumbersInput) ([]*domain.PhoneNumber, error) {
	if input.Offset < 0 {
		input.Offset = 0
	}
	return uc.phoneRepo.List(ctx, domain.ClampLimit(input.Limit), input.Offset)
}

func (uc *TransactionUseCase) ensureSeller(ctx context.Context, sellerID string) error {
	_, err := uc.sellerRepo.GetByID(ctx, sellerID)
	return err
}
