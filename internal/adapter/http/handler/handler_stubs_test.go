package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

type sellerServiceStub struct {
	createFn  func(ctx context.Context, input usecase.CreateSellerInput) (*domain.Seller, error)
	getFn     func(ctx context.Context, id string) (*domain.Seller, error)
	listFn    func(ctx context.Context, input usecase.ListSellersInput) ([]*domain.Seller, error)
	balanceFn func(ctx context.Context, sellerID string) (decimal.Decimal, error)
}

func (s *sellerServiceStub) CreateSeller(ctx context.Context, input usecase.CreateSellerInput) (*domain.Seller, error) {
	return s.createFn(ctx, input)
}

func (s *sellerServiceStub) GetSeller(ctx context.Context, id string) (*domain.Seller, error) {
	return s.getFn(ctx, id)
}

func (s *sellerServiceStub) ListSellers(ctx context.Context, input usecase.ListSellersInput) ([]*domain.Seller, error) {
	return s.listFn(ctx, input)
}

func (s *sellerServiceStub) GetBalance(ctx context.Context, sellerID string) (decimal.Decimal, error) {
	return s.balanceFn(ctx, sellerID)
}

type ledgerServiceStub struct {
	increaseFn func(ctx context.Context, input usecase.IncreaseCreditInput) (*usecase.LedgerResult, error)
	chargeFn   func(ctx context.Context, input usecase.SellChargeInput) (*usecase.LedgerResult, error)
}

func (s *ledgerServiceStub) IncreaseCredit(ctx context.Context, input usecase.IncreaseCreditInput) (*usecase.LedgerResult, error) {
	return s.increaseFn(ctx, input)
}

func (s *ledgerServiceStub) SellCharge(ctx context.Context, input usecase.SellChargeInput) (*usecase.LedgerResult, error) {
	return s.chargeFn(ctx, input)
}

type reconciliationServiceStub struct {
	reconcileFn   func(ctx context.Context, sellerID string) (*usecase.ReconciliationResult, error)
	consistencyFn func(ctx context.Context) (*usecase.ReconciliationReport, error)
}

func (s *reconciliationServiceStub) ReconcileSeller(ctx context.Context, sellerID string) (*usecase.ReconciliationResult, error) {
	return s.reconcileFn(ctx, sellerID)
}

func (s *reconciliationServiceStub) CheckConsistency(ctx context.Context) (*usecase.ReconciliationReport, error) {
	return s.consistencyFn(ctx)
}

type transactionServiceStub struct {
	creditsFn func(ctx context.Context, input usecase.ListCreditTransactionsInput) ([]*domain.Transaction, error)
	chargesFn func(ctx context.Context, input usecase.ListChargeTransactionsInput) ([]*domain.Transaction, error)
	phonesFn  func(ctx context.Context, input usecase.ListPhoneNumbersInput) ([]*domain.PhoneNumber, error)
}

func (s *transactionServiceStub) ListCreditTransactions(ctx context.Context, input usecase.ListCreditTransactionsInput) ([]*domain.Transaction, error) {
	return s.creditsFn(ctx, input)
}

func (s *transactionServiceStub) ListChargeTransactions(ctx context.Context, input usecase.ListChargeTransactionsInput) ([]*domain.Transaction, error) {
	return s.chargesFn(ctx, input)
}

func (s *transactionServiceStub) ListPhoneNumbers(ctx context.Context, input usecase.ListPhoneNumbersInput) ([]*domain.PhoneNumber, error) {
	return s.phonesFn(ctx, input)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
