package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

// SellerResponse represents a seller in API responses.
type SellerResponse struct {
	ID          string          `json:"id"`
	PrincipalID string          `json:"principal_id"`
	Balance     decimal.Decimal `json:"balance"`
	Version     int64           `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SellerFromDomain converts domain seller to response.
func SellerFromDomain(s *domain.Seller) *SellerResponse {
	return &SellerResponse{
		ID:          s.ID,
		PrincipalID: s.PrincipalID,
		Balance:     s.Balance,
		Version:     s.Version,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// SellersFromDomain converts domain sellers to responses.
func SellersFromDomain(sellers []*domain.Seller) []*SellerResponse {
	result := make([]*SellerResponse, len(sellers))
	for i, s := range sellers {
		result[i] = SellerFromDomain(s)
	}
	return result
}

// ListSellersResponse represents a page of sellers.
type ListSellersResponse struct {
	Sellers []*SellerResponse `json:"sellers"`
	Total   int64             `json:"total"`
}

// BalanceResponse represents a seller balance.
type BalanceResponse struct {
	SellerID string          `json:"seller_id"`
	Balance  decimal.Decimal `json:"balance"`
}

// PhoneNumberResponse represents a charge target.
type PhoneNumberResponse struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	CreatedAt time.Time `json:"created_at"`
}

// PhoneNumberFromDomain converts domain phone number to response.
func PhoneNumberFromDomain(p *domain.PhoneNumber) *PhoneNumberResponse {
	return &PhoneNumberResponse{
		ID:        p.ID,
		Number:    p.Number,
		CreatedAt: p.CreatedAt,
	}
}

// ListPhoneNumbersResponse represents a page of phone numbers.
type ListPhoneNumbersResponse struct {
	PhoneNumbers []*PhoneNumberResponse `json:"phone_numbers"`
	Total        int64                  `json:"total"`
}

// TransactionResponse represents a credit or charge transaction.
type TransactionResponse struct {
	ID          string               `json:"id"`
	Key         string               `json:"key"`
	SellerID    string               `json:"seller_id"`
	Kind        string               `json:"kind"`
	Amount      decimal.Decimal      `json:"amount"`
	CreditType  string               `json:"credit_type,omitempty"`
	PhoneNumber *PhoneNumberResponse `json:"phone_number,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// TransactionFromDomain converts domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	resp := &TransactionResponse{
		ID:         t.ID,
		Key:        t.Key,
		SellerID:   t.SellerID,
		Kind:       string(t.Kind),
		Amount:     t.Amount,
		CreditType: string(t.CreditType),
		CreatedAt:  t.CreatedAt,
	}

	if t.PhoneNumber != nil {
		resp.PhoneNumber = PhoneNumberFromDomain(t.PhoneNumber)
	}

	return resp
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ListTransactionsResponse represents a page of transactions.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int64                  `json:"total"`
}

// LedgerResultResponse represents the outcome of a credit increase or a
// charge sale.
type LedgerResultResponse struct {
	SellerID         string               `json:"seller_id"`
	Key              string               `json:"key"`
	Balance          decimal.Decimal      `json:"balance"`
	AlreadyProcessed bool                 `json:"already_processed"`
	Transaction      *TransactionResponse `json:"transaction,omitempty"`
}

// LedgerResultFromUseCase converts an engine result to response.
func LedgerResultFromUseCase(r *usecase.LedgerResult) *LedgerResultResponse {
	resp := &LedgerResultResponse{
		SellerID:         r.SellerID,
		Key:              r.Key,
		Balance:          r.Balance,
		AlreadyProcessed: r.AlreadyProcessed,
	}

	if r.Transaction != nil {
		resp.Transaction = TransactionFromDomain(r.Transaction)
	}

	return resp
}

// ReconciliationResponse represents a per-seller reconciliation result.
type ReconciliationResponse struct {
	SellerID          string          `json:"seller_id"`
	RecordedBalance   decimal.Decimal `json:"recorded_balance"`
	CalculatedBalance decimal.Decimal `json:"calculated_balance"`
	Difference        decimal.Decimal `json:"difference"`
	IsReconciled      bool            `json:"is_reconciled"`
	LastChecked       time.Time       `json:"last_checked"`
}

// ReconciliationFromUseCase converts a reconciliation result to response.
func ReconciliationFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		SellerID:          r.SellerID,
		RecordedBalance:   r.RecordedBalance,
		CalculatedBalance: r.CalculatedBalance,
		Difference:        r.Difference,
		IsReconciled:      r.IsReconciled,
		LastChecked:       r.LastChecked,
	}
}

// ConsistencyResponse represents a ledger-wide consistency report.
type ConsistencyResponse struct {
	Status            string                    `json:"status"`
	Consistent        bool                      `json:"consistent"`
	TotalSellers      int                       `json:"total_sellers"`
	ReconciledSellers int                       `json:"reconciled_sellers"`
	Discrepancies     []*ReconciliationResponse `json:"discrepancies"`
	CheckedAt         time.Time                 `json:"checked_at"`
}

// ConsistencyFromUseCase converts a reconciliation report to response.
func ConsistencyFromUseCase(r *usecase.ReconciliationReport) *ConsistencyResponse {
	resp := &ConsistencyResponse{
		Status:            "consistent",
		Consistent:        r.Consistent,
		TotalSellers:      r.TotalSellers,
		ReconciledSellers: r.ReconciledSellers,
		Discrepancies:     make([]*ReconciliationResponse, len(r.Discrepancies)),
		CheckedAt:         r.CheckedAt,
	}

	if !r.Consistent {
		resp.Status = "inconsistent"
	}

	for i, d := range r.Discrepancies {
		resp.Discrepancies[i] = ReconciliationFromUseCase(d)
	}

	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
