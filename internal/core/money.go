// Package core holds the domain model and the pure budget/insight
// computations. Nothing in here touches storage, HTTP, or ambient state.
package core

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Amount bounds shared by transactions and budgets, in cents.
const (
	MinAmountCents int64 = 1        // 0.01
	MaxAmountCents int64 = 99999999 // 999999.99
)

var ErrInvalidAmount = errors.New("invalid amount")

// Money is an amount of US dollars held as integer cents. Sums over stored
// amounts are exact to the cent; floats only appear at the JSON boundary.
type Money struct {
	Cents int64
}

// ParseAmount converts a decimal dollar amount (as decoded from JSON) to
// cents with half-up rounding on fractions beyond two decimals. The amount
// must fall within [0.01, 999999.99] before rounding.
func ParseAmount(v float64) (Money, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Money{}, ErrInvalidAmount
	}
	if v < 0.01 || v > 999999.99 {
		return Money{}, ErrInvalidAmount
	}
	cents := int64(math.Round(v * 100))
	if cents < MinAmountCents || cents > MaxAmountCents {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents}, nil
}

// Dollars returns the dollar value as a float64 for display and JSON output.
// Use cents for arithmetic.
func (m Money) Dollars() float64 {
	return float64(m.Cents) / 100.0
}

func (m Money) Validate() error {
	if m.Cents < MinAmountCents || m.Cents > MaxAmountCents {
		return ErrInvalidAmount
	}
	return nil
}

// MarshalJSON emits the plain decimal number clients expect (75.5, not 7550).
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Dollars(), 'f', -1, 64)), nil
}

// UnmarshalJSON accepts a decimal dollar number. Out-of-range values are
// rejected by validation, not here, so raw inputs decode without loss.
func (m *Money) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("parse money: %w", err)
	}
	m.Cents = int64(math.Round(v * 100))
	return nil
}

// FormatUSD renders cents as a dollar string (e.g. "$12.34").
func FormatUSD(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := "$" + strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
	if neg {
		return "-" + s
	}
	return s
}
