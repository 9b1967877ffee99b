package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/creditledger/internal/adapter/http/dto"
	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

func testTime() time.Time {
	return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestTransactionHandler_ListSellerCredits(t *testing.T) {
	var captured usecase.ListCreditTransactionsInput
	handler := NewTransactionHandler(&transactionServiceStub{
		creditsFn: func(ctx context.Context, input usecase.ListCreditTransactionsInput) ([]*domain.Transaction, error) {
			captured = input
			return []*domain.Transaction{
				domain.NewCreditTransaction("t1", "k1", "s1", decimal.NewFromInt(10), testTime()),
			}, nil
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/sellers/s1/credit-transactions?limit=5", nil), "id", "s1")
	rec := httptest.NewRecorder()

	handler.ListSellerCredits(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.SellerID != "s1" || captured.Limit != 5 {
		t.Fatalf("unexpected input %+v", captured)
	}

	var resp dto.ListTransactionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 1 || resp.Transactions[0].CreditType != "INCREASE" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestTransactionHandler_ListCredits_AllSellers(t *testing.T) {
	var captured usecase.ListCreditTransactionsInput
	called := false
	handler := NewTransactionHandler(&transactionServiceStub{
		creditsFn: func(ctx context.Context, input usecase.ListCreditTransactionsInput) ([]*domain.Transaction, error) {
			called = true
			captured = input
			return []*domain.Transaction{
				domain.NewCreditTransaction("t2", "k2", "s2", decimal.NewFromInt(20), testTime()),
				domain.NewCreditTransaction("t1", "k1", "s1", decimal.NewFromInt(10), testTime()),
			}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.ListCredits(rec, httptest.NewRequest(http.MethodGet, "/credit-transactions", nil))

	if rec.Code != http.StatusOK || !called {
		t.Fatalf("expected 200 from the service, got %d", rec.Code)
	}
	if captured.SellerID != "" || captured.Limit != domain.DefaultListLimit {
		t.Fatalf("unexpected input %+v", captured)
	}

	var resp dto.ListTransactionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 2 || resp.Transactions[0].SellerID != "s2" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestTransactionHandler_ListCredits_SellerQuery(t *testing.T) {
	var captured usecase.ListCreditTransactionsInput
	handler := NewTransactionHandler(&transactionServiceStub{
		creditsFn: func(ctx context.Context, input usecase.ListCreditTransactionsInput) ([]*domain.Transaction, error) {
			captured = input
			return nil, domain.ErrSellerNotFound
		},
	})

	rec := httptest.NewRecorder()
	handler.ListCredits(rec, httptest.NewRequest(http.MethodGet, "/credit-transactions?seller_id=ghost&limit=5000", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown seller, got %d", rec.Code)
	}
	if captured.SellerID != "ghost" || captured.Limit != 5000 {
		t.Fatalf("unexpected input %+v", captured)
	}
}

func TestTransactionHandler_ListCharges_QueryFilters(t *testing.T) {
	var captured usecase.ListChargeTransactionsInput
	handler := NewTransactionHandler(&transactionServiceStub{
		chargesFn: func(ctx context.Context, input usecase.ListChargeTransactionsInput) ([]*domain.Transaction, error) {
			captured = input
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/charge-transactions?seller_id=s2&phone_number=09120000000", nil)
	rec := httptest.NewRecorder()

	handler.ListCharges(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.SellerID != "s2" || captured.PhoneNumber != "09120000000" || captured.Limit != domain.DefaultListLimit {
		t.Fatalf("unexpected input %+v", captured)
	}
}

func TestTransactionHandler_ListSellerCharges_UsesPathSeller(t *testing.T) {
	var captured usecase.ListChargeTransactionsInput
	handler := NewTransactionHandler(&transactionServiceStub{
		chargesFn: func(ctx context.Context, input usecase.ListChargeTransactionsInput) ([]*domain.Transaction, error) {
			captured = input
			return nil, domain.ErrSellerNotFound
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/sellers/s9/charge-transactions?seller_id=other", nil), "id", "s9")
	rec := httptest.NewRecorder()

	handler.ListSellerCharges(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if captured.SellerID != "s9" {
		t.Fatalf("expected path seller s9, got %s", captured.SellerID)
	}
}

func TestTransactionHandler_ListPhoneNumbers(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		phonesFn: func(ctx context.Context, input usecase.ListPhoneNumbersInput) ([]*domain.PhoneNumber, error) {
			return []*domain.PhoneNumber{{ID: "p1", Number: "09120000000", CreatedAt: testTime()}}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.ListPhoneNumbers(rec, httptest.NewRequest(http.MethodGet, "/phone-numbers", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListPhoneNumbersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 1 || resp.PhoneNumbers[0].Number != "09120000000" {
		t.Fatalf("unexpected response %+v", resp)
	}
}
