package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/creditledger/internal/adapter/http/dto"
	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

// TransactionService defines the listings needed by TransactionHandler.
type TransactionService interface {
	ListCreditTransactions(ctx context.Context, input usecase.ListCreditTransactionsInput) ([]*domain.Transaction, error)
	ListChargeTransactions(ctx context.Context, input usecase.ListChargeTransactionsInput) ([]*domain.Transaction, error)
	ListPhoneNumbers(ctx context.Context, input usecase.ListPhoneNumbersInput) ([]*domain.PhoneNumber, error)
}

// TransactionHandler handles transaction and phone number listings.
type TransactionHandler struct {
	transactionUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionUC: transactionUC}
}

// ListSellerCredits lists credit transactions of the seller in the URL.
func (h *TransactionHandler) ListSellerCredits(w http.ResponseWriter, r *http.Request) {
	h.listCredits(w, r, chi.URLParam(r, "id"))
}

// ListCredits lists credit transactions of all sellers, or of the one named
// by the seller_id query parameter.
func (h *TransactionHandler) ListCredits(w http.ResponseWriter, r *http.Request) {
	h.listCredits(w, r, r.URL.Query().Get("seller_id"))
}

func (h *TransactionHandler) listCredits(w http.ResponseWriter, r *http.Request, sellerID string) {
	transactions, err := h.transactionUC.ListCreditTransactions(r.Context(), usecase.ListCreditTransactionsInput{
		SellerID: sellerID,
		Limit:    parseIntQuery(r, "limit", domain.DefaultListLimit),
	})
	if err != nil {
		writeDomainError(w, "failed to list credit transactions", err)
		return
	}

	writeTransactions(w, transactions)
}

// ListSellerCharges lists charge transactions of the seller in the URL.
func (h *TransactionHandler) ListSellerCharges(w http.ResponseWriter, r *http.Request) {
	h.listCharges(w, r, chi.URLParam(r, "id"))
}

// ListCharges lists charge transactions filtered by the seller_id and
// phone_number query parameters.
func (h *TransactionHandler) ListCharges(w http.ResponseWriter, r *http.Request) {
	h.listCharges(w, r, r.URL.Query().Get("seller_id"))
}

func (h *TransactionHandler) listCharges(w http.ResponseWriter, r *http.Request, sellerID string) {
	transactions, err := h.transactionUC.ListChargeTransactions(r.Context(), usecase.ListChargeTransactionsInput{
		SellerID:    sellerID,
		PhoneNumber: r.URL.Query().Get("phone_number"),
		Limit:       parseIntQuery(r, "limit", domain.DefaultListLimit),
	})
	if err != nil {
		writeDomainError(w, "failed to list charge transactions", err)
		return
	}

	writeTransactions(w, transactions)
}

// ListPhoneNumbers lists known charge targets.
func (h *TransactionHandler) ListPhoneNumbers(w http.ResponseWriter, r *http.Request) {
	phones, err := h.transactionUC.ListPhoneNumbers(r.Context(), usecase.ListPhoneNumbersInput{
		Limit:  parseIntQuery(r, "limit", domain.DefaultListLimit),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list phone numbers", err)
		return
	}

	resp := dto.ListPhoneNumbersResponse{
		PhoneNumbers: make([]*dto.PhoneNumberResponse, len(phones)),
		Total:        int64(len(phones)),
	}
	for i, p := range phones {
		resp.PhoneNumbers[i] = dto.PhoneNumberFromDomain(p)
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeTransactions(w http.ResponseWriter, transactions []*domain.Transaction) {
	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(transactions),
		Total:        int64(len(transactions)),
	})
}
