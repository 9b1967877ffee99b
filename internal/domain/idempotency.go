package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Key prefixes per transaction kind. Keys are unique per kind, so the prefix
// also keeps credit and charge keys apart when they are listed together.
const (
	keyPrefixIncrease = "INCREASE"
	keyPrefixCharge   = "CHARGE"
	clientKeyMarker   = "client"
)

// KeyRequest carries the inputs of idempotency key derivation.
type KeyRequest struct {
	RequestedAt time.Time
	Kind        TransactionKind
	SellerID    string
	Target      string // phone number for charges
	Amount      decimal.Decimal
	ClientKey   string // optional caller supplied key
}

// DeriveKey returns the idempotency key for a ledger mutation.
//
// Without a ClientKey the key is a deterministic function of kind, seller,
// amount, target and request timestamp. The timestamp means two submissions of
// the same logical request at different instants get different keys, so a
// naive client retry is NOT deduplicated. Callers that need strict idempotent
// retry must supply ClientKey; it is scoped by kind and seller so keys from
// different sellers never collide.
func DeriveKey(req KeyRequest) string {
	prefix := keyPrefixIncrease
	if req.Kind == KindCharge {
		prefix = keyPrefixCharge
	}

	parts := []string{prefix, req.SellerID}

	if req.ClientKey != "" {
		parts = append(parts, clientKeyMarker, req.ClientKey)
		return strings.Join(parts, ":")
	}

	if req.Kind == KindCharge {
		parts = append(parts, req.Target)
	}

	parts = append(parts,
		req.Amount.StringFixed(AmountScale),
		strconv.FormatInt(req.RequestedAt.UnixNano(), 10),
	)

	return strings.Join(parts, ":")
}
