package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	AmountScale          = 2
	MaxAmount            = "99999999.99" // NUMERIC(10, 2)
	MinPhoneNumberLength = 4
	MaxPhoneNumberLength = 15
	MaxIdempotencyKeyLen = 128
	MaxPrincipalIDLength = 255
	DefaultListLimit     = 100
	MaxListLimit         = 1000
)

var (
	maxAmount   = decimal.RequireFromString(MaxAmount)
	phoneRegex  = regexp.MustCompile(`^[0-9]+$`)
	clientKeyRx = regexp.MustCompile(`^[A-Za-z0-9._:-]+$`)
)

// ValidateAmount validates a credit or charge amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if !amount.Equal(amount.Truncate(AmountScale)) {
		return fmt.Errorf("%w: more than %d decimal places", ErrInvalidAmount, AmountScale)
	}

	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: exceeds %s", ErrInvalidAmount, MaxAmount)
	}

	return nil
}

// NormalizePhoneNumber trims whitespace and validates the number.
func NormalizePhoneNumber(number string) (string, error) {
	number = strings.TrimSpace(number)

	if len(number) < MinPhoneNumberLength || len(number) > MaxPhoneNumberLength {
		return "", fmt.Errorf("%w: length must be between %d and %d", ErrInvalidPhoneNumber, MinPhoneNumberLength, MaxPhoneNumberLength)
	}

	if !phoneRegex.MatchString(number) {
		return "", fmt.Errorf("%w: digits only", ErrInvalidPhoneNumber)
	}

	return number, nil
}

// ValidateIdempotencyKey validates a caller supplied key. Empty is allowed and
// means the key is derived server side.
func ValidateIdempotencyKey(key string) error {
	if key == "" {
		return nil
	}

	if len(key) > MaxIdempotencyKeyLen {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidIdempotencyKey, MaxIdempotencyKeyLen)
	}

	if !clientKeyRx.MatchString(key) {
		return fmt.Errorf("%w: contains forbidden characters", ErrInvalidIdempotencyKey)
	}

	return nil
}

// ValidatePrincipalID validates the external identity owning a seller.
func ValidatePrincipalID(principalID string) error {
	principalID = strings.TrimSpace(principalID)
	if principalID == "" || len(principalID) > MaxPrincipalIDLength {
		return fmt.Errorf("%w: must be 1-%d characters", ErrInvalidPrincipal, MaxPrincipalIDLength)
	}
	return nil
}

// ClampLimit applies the default and maximum list sizes.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}

	if limit > MaxListLimit {
		return MaxListLimit
	}

	return limit
}
