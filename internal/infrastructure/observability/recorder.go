// Package observability turns ledger outcomes into log lines and metrics.
package observability

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iho/creditledger/internal/infrastructure/metrics"
	"github.com/iho/creditledger/internal/usecase"
)

// Outcome labels used on the ledger operations counter.
const (
	OutcomeApplied          = "applied"
	OutcomeAlreadyProcessed = "already_processed"
	OutcomeRejected         = "rejected"
	OutcomeFailed           = "failed"
)

// Recorder implements usecase.EventRecorder.
type Recorder struct {
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewRecorder creates a Recorder. m may be nil.
func NewRecorder(logger zerolog.Logger, m *metrics.Metrics) *Recorder {
	return &Recorder{logger: logger, metrics: m}
}

// Record logs the event and updates metrics.
func (r *Recorder) Record(_ context.Context, event usecase.LedgerEvent) {
	outcome := outcomeOf(event.Type)

	var e *zerolog.Event
	switch outcome {
	case OutcomeFailed:
		e = r.logger.Error().Err(event.Err)
	case OutcomeRejected:
		e = r.logger.Warn().Err(event.Err)
	default:
		e = r.logger.Info()
	}

	e = e.Str("event", event.Type).
		Str("operation", event.Operation).
		Str("seller_id", event.SellerID).
		Str("amount", event.Amount.StringFixed(2)).
		Dur("duration", event.Duration)

	if event.Key != "" {
		e = e.Str("key", event.Key)
	}
	if event.PhoneNumber != "" {
		e = e.Str("phone_number", event.PhoneNumber)
	}
	if outcome == OutcomeApplied || outcome == OutcomeAlreadyProcessed {
		e = e.Str("balance", event.Balance.StringFixed(2))
	}

	e.Msg("ledger operation")

	if r.metrics == nil {
		return
	}

	r.metrics.LedgerOperations.WithLabelValues(event.Operation, outcome).Inc()
	r.metrics.LedgerDuration.WithLabelValues(event.Operation).Observe(event.Duration.Seconds())

	if outcome == OutcomeApplied {
		amount, _ := event.Amount.Float64()
		r.metrics.LedgerAmount.WithLabelValues(event.Operation).Observe(amount)
	}
}

func outcomeOf(eventType string) string {
	switch eventType {
	case usecase.EventCreditIncreased, usecase.EventChargeSold:
		return OutcomeApplied
	case usecase.EventAlreadyProcessed:
		return OutcomeAlreadyProcessed
	case usecase.EventRejected:
		return OutcomeRejected
	default:
		return OutcomeFailed
	}
}
