package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/creditledger/internal/adapter/http/dto"
	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

// LedgerService defines the mutations needed by LedgerHandler.
type LedgerService interface {
	IncreaseCredit(ctx context.Context, input usecase.IncreaseCreditInput) (*usecase.LedgerResult, error)
	SellCharge(ctx context.Context, input usecase.SellChargeInput) (*usecase.LedgerResult, error)
}

// ReconciliationService defines the checks needed by LedgerHandler.
type ReconciliationService interface {
	ReconcileSeller(ctx context.Context, sellerID string) (*usecase.ReconciliationResult, error)
	CheckConsistency(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// LedgerHandler handles credit increases, charge sales and ledger checks.
type LedgerHandler struct {
	ledgerUC         LedgerService
	reconciliationUC ReconciliationService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService, reconciliationUC ReconciliationService) *LedgerHandler {
	return &LedgerHandler{
		ledgerUC:         ledgerUC,
		reconciliationUC: reconciliationUC,
	}
}

// IncreaseCredit adds credit to the seller in the URL.
func (h *LedgerHandler) IncreaseCredit(w http.ResponseWriter, r *http.Request) {
	var req dto.IncreaseCreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "id"), r.Header.Get(IdempotencyKeyHeader))
	if err != nil {
		writeDomainError(w, "invalid credit request", err)
		return
	}

	result, err := h.ledgerUC.IncreaseCredit(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to increase credit", err)
		return
	}

	writeLedgerResult(w, result)
}

// SellCharge sells a charge from the seller in the URL.
func (h *LedgerHandler) SellCharge(w http.ResponseWriter, r *http.Request) {
	var req dto.SellChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "id"), r.Header.Get(IdempotencyKeyHeader))
	if err != nil {
		writeDomainError(w, "invalid charge request", err)
		return
	}

	result, err := h.ledgerUC.SellCharge(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to sell charge", err)
		return
	}

	writeLedgerResult(w, result)
}

// writeLedgerResult answers 201 for a new transaction and 200 for a replayed key.
func writeLedgerResult(w http.ResponseWriter, result *usecase.LedgerResult) {
	status := http.StatusCreated
	if result.AlreadyProcessed {
		status = http.StatusOK
	}
	writeJSON(w, status, dto.LedgerResultFromUseCase(result))
}

// Reconcile compares one seller balance with its transaction history.
func (h *LedgerHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	result, err := h.reconciliationUC.ReconcileSeller(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to reconcile seller", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(result))
}

// CheckConsistency checks if the ledger is consistent.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciliationUC.CheckConsistency(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrLedgerInconsistent) && report != nil {
			writeJSON(w, http.StatusConflict, dto.ConsistencyFromUseCase(report))
			return
		}
		writeDomainError(w, "failed to check consistency", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromUseCase(report))
}
