package common

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	SOLDecimals = 9 // SOL has 9 decimals (lamports)
	SOLSymbol   = "SOL"
)

var (
	// ErrNonPositiveAmount is returned for zero or negative amounts
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	// ErrTooManyDecimals is returned when an amount is finer than one lamport
	ErrTooManyDecimals = fmt.Errorf("amount has more than %d decimal places", SOLDecimals)
	// ErrAmountOverflow is returned when an amount does not fit into uint64 lamports
	ErrAmountOverflow = errors.New("amount exceeds maximum lamports")
)

// ParseSOL parses a human SOL amount ("1", "0.5", " 2.000000001 ")
func ParseSOL(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty string")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format: %w", err)
	}
	return d, nil
}

// ToLamports converts a SOL amount to lamports without float precision loss.
// Amounts must be positive and carry at most 9 fractional digits.
func ToLamports(sol decimal.Decimal) (uint64, error) {
	if !sol.IsPositive() {
		return 0, ErrNonPositiveAmount
	}

	scaled := sol.Shift(SOLDecimals)
	if !scaled.IsInteger() {
		return 0, ErrTooManyDecimals
	}

	n := scaled.BigInt()
	if !n.IsUint64() {
		return 0, ErrAmountOverflow
	}
	return n.Uint64(), nil
}

// LamportsToSOL converts lamports to a SOL string with trailing zeros trimmed.
// Example: LamportsToSOL(2500000000) = "2.5"
func LamportsToSOL(lamports uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -SOLDecimals).String()
}

// FormatSOL renders lamports for display, e.g. "2 SOL"
func FormatSOL(lamports uint64) string {
	return LamportsToSOL(lamports) + " " + SOLSymbol
}
