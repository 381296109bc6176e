package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
	ErrTooManyDigits   = errors.New("amount has too many digits")
)

const (
	// Places and Digits mirror the NUMERIC(10, 2) columns.
	Places = 2
	Digits = 10
)

var limit = decimal.New(1, Digits-Places)

func Parse(input string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if err := Validate(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// Validate checks that an amount fits NUMERIC(10, 2).
func Validate(amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(Places)) {
		return ErrTooManyDecimals
	}
	if amount.Abs().GreaterThanOrEqual(limit) {
		return ErrTooManyDigits
	}
	return nil
}

func Format(amount decimal.Decimal) string {
	return amount.StringFixed(Places)
}

func Sum(amounts []decimal.Decimal) decimal.Decimal {
	if len(amounts) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(amounts[0], amounts[1:]...)
}
