package domain

import "errors"

var (
	// Seller errors
	ErrSellerNotFound     = errors.New("seller not found")
	ErrSellerExists       = errors.New("seller already exists for principal")
	ErrInvalidPrincipal   = errors.New("invalid principal id")
	ErrInsufficientCredit = errors.New("insufficient credit")

	// Transaction errors
	ErrInvalidAmount         = errors.New("amount must be positive with at most two decimal places")
	ErrInvalidPhoneNumber    = errors.New("invalid phone number")
	ErrInvalidIdempotencyKey = errors.New("invalid idempotency key")
	ErrInvalidTransaction    = errors.New("invalid transaction")
	ErrPhoneNumberNotFound   = errors.New("phone number not found")

	// ErrDuplicateKey is returned by the transaction log when the idempotency
	// key is already recorded. The ledger engine converts it into an
	// already-processed outcome.
	ErrDuplicateKey = errors.New("transaction key already recorded")

	// Store errors
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrStoreTimeout     = errors.New("store operation timed out")

	// ErrLedgerInconsistent is returned when a seller balance no longer matches
	// its transaction history.
	ErrLedgerInconsistent = errors.New("ledger is inconsistent: balance does not match transaction history")
)
