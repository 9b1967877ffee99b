package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Ledger event types.
const (
	EventCreditIncreased  = "credit.increased"
	EventChargeSold       = "charge.sold"
	EventAlreadyProcessed = "transaction.already_processed"
	EventRejected         = "transaction.rejected"
	EventFailed           = "transaction.failed"
)

// LedgerEvent describes the outcome of one ledger operation.
type LedgerEvent struct {
	Err         error
	Type        string
	Operation   string
	SellerID    string
	Key         string
	PhoneNumber string
	Amount      decimal.Decimal
	Balance     decimal.Decimal
	Duration    time.Duration
}

type nopRecorder struct{}

func (nopRecorder) Record(_ context.Context, _ LedgerEvent) {}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns a Clock backed by time.Now in UTC.
func SystemClock() Clock { return systemClock{} }
