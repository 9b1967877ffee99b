package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/creditledger/internal/adapter/http/dto"
	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

// SellerService defines the behavior needed by SellerHandler.
type SellerService interface {
	CreateSeller(ctx context.Context, input usecase.CreateSellerInput) (*domain.Seller, error)
	GetSeller(ctx context.Context, id string) (*domain.Seller, error)
	ListSellers(ctx context.Context, input usecase.ListSellersInput) ([]*domain.Seller, error)
	GetBalance(ctx context.Context, sellerID string) (decimal.Decimal, error)
}

// SellerHandler handles seller onboarding and lookups.
type SellerHandler struct {
	sellerUC SellerService
}

// NewSellerHandler creates a new SellerHandler.
func NewSellerHandler(sellerUC SellerService) *SellerHandler {
	return &SellerHandler{sellerUC: sellerUC}
}

// Create onboards a new seller.
func (h *SellerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSellerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	seller, err := h.sellerUC.CreateSeller(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create seller", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.SellerFromDomain(seller))
}

// Get retrieves a seller by ID.
func (h *SellerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing seller ID", "")
		return
	}

	seller, err := h.sellerUC.GetSeller(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get seller", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SellerFromDomain(seller))
}

// List lists sellers in creation order.
func (h *SellerHandler) List(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.sellerUC.ListSellers(r.Context(), usecase.ListSellersInput{
		Limit:  parseIntQuery(r, "limit", domain.DefaultListLimit),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list sellers", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListSellersResponse{
		Sellers: dto.SellersFromDomain(sellers),
		Total:   int64(len(sellers)),
	})
}

// Balance returns the current seller balance.
func (h *SellerHandler) Balance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	balance, err := h.sellerUC.GetBalance(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{SellerID: id, Balance: balance})
}
