package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a decimal amount with two fractional digits, matching the
// NUMERIC(10,2) columns it is stored in. It serializes as a JSON string
// ("19.99") and accepts either a string or a number on input.
type Money struct {
	decimal.Decimal
}

// NewMoney parses a decimal string such as "19.99".
func NewMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parse money %q: %w", s, err)
	}
	return Money{d}, nil
}

// MustMoney is NewMoney for constants; it panics on malformed input.
func MustMoney(s string) Money {
	m, err := NewMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Times returns m multiplied by a quantity.
func (m Money) Times(quantity int) Money {
	return Money{m.Mul(decimal.NewFromInt(int64(quantity)))}
}

// Plus returns m + o.
func (m Money) Plus(o Money) Money {
	return Money{m.Add(o.Decimal)}
}

// String formats m with exactly two fractional digits.
func (m Money) String() string {
	return m.StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Money) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	b = bytes.Trim(b, `"`)
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return fmt.Errorf("invalid money amount %s: %w", b, err)
	}
	m.Decimal = d
	return nil
}
