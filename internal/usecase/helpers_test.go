package usecase_test

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/creditledger/internal/usecase"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type seqIDs struct{ n atomic.Int64 }

func (g *seqIDs) Generate() string { return fmt.Sprintf("id-%08d", g.n.Add(1)) }

// decimalEq matches decimals by value rather than representation.
type decimalEq struct{ want decimal.Decimal }

func dec(s string) gomock.Matcher { return decimalEq{want: decimal.RequireFromString(s)} }

func (m decimalEq) Matches(x any) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(m.want)
}

func (m decimalEq) String() string { return "is decimal " + m.want.String() }

// eventType matches a usecase.LedgerEvent by type.
type eventType string

func (m eventType) Matches(x any) bool {
	e, ok := x.(usecase.LedgerEvent)
	return ok && e.Type == string(m)
}

func (m eventType) String() string { return "is event " + string(m) }
