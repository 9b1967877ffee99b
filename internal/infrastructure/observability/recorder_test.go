package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/infrastructure/metrics"
	"github.com/iho/creditledger/internal/usecase"
)

func TestRecorder_Record(t *testing.T) {
	tests := []struct {
		name      string
		event     usecase.LedgerEvent
		outcome   string
		level     string
		hasAmount bool
	}{
		{
			name: "charge sold",
			event: usecase.LedgerEvent{
				Type:        usecase.EventChargeSold,
				Operation:   usecase.OperationSellCharge,
				SellerID:    "s1",
				PhoneNumber: "09120000000",
				Amount:      decimal.NewFromInt(20),
				Balance:     decimal.NewFromInt(80),
			},
			outcome:   OutcomeApplied,
			level:     "info",
			hasAmount: true,
		},
		{
			name: "insufficient credit",
			event: usecase.LedgerEvent{
				Type:      usecase.EventRejected,
				Operation: usecase.OperationSellCharge,
				SellerID:  "s1",
				Amount:    decimal.NewFromInt(200),
				Err:       domain.ErrInsufficientCredit,
			},
			outcome: OutcomeRejected,
			level:   "warn",
		},
		{
			name: "store timeout",
			event: usecase.LedgerEvent{
				Type:      usecase.EventFailed,
				Operation: usecase.OperationIncreaseCredit,
				SellerID:  "s1",
				Amount:    decimal.NewFromInt(1),
				Err:       errors.Join(domain.ErrStoreTimeout, context.DeadlineExceeded),
			},
			outcome: OutcomeFailed,
			level:   "error",
		},
		{
			name: "replayed",
			event: usecase.LedgerEvent{
				Type:      usecase.EventAlreadyProcessed,
				Operation: usecase.OperationIncreaseCredit,
				SellerID:  "s1",
				Key:       "INCREASE:s1:client:x",
				Amount:    decimal.NewFromInt(1),
				Balance:   decimal.NewFromInt(5),
			},
			outcome: OutcomeAlreadyProcessed,
			level:   "info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			m := metrics.New(prometheus.NewRegistry())
			r := NewRecorder(zerolog.New(&buf), m)

			tt.event.Duration = 15 * time.Millisecond
			r.Record(context.Background(), tt.event)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, tt.event.Type, entry["event"])
			assert.Equal(t, "s1", entry["seller_id"])

			assert.Equal(t, 1.0, testutil.ToFloat64(m.LedgerOperations.WithLabelValues(tt.event.Operation, tt.outcome)))

			amounts := testutil.CollectAndCount(m.LedgerAmount)
			if tt.hasAmount {
				assert.Equal(t, 1, amounts)
			} else {
				assert.Equal(t, 0, amounts)
			}
		})
	}
}

func TestRecorder_WithoutMetrics(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(zerolog.New(&buf), nil)

	r.Record(context.Background(), usecase.LedgerEvent{
		Type:      usecase.EventCreditIncreased,
		Operation: usecase.OperationIncreaseCredit,
		SellerID:  "s1",
		Amount:    decimal.NewFromInt(1),
	})

	assert.Contains(t, buf.String(), "ledger operation")
}
