package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Number is a float that never fails to decode: strings are parsed, anything
// else that is not numeric (null, garbage, objects) becomes 0.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number(coerce(b))
	return nil
}

func (n Number) Float() float64 { return float64(n) }

// Int trunca hacia cero, como parseInt.
func (n Number) Int() int { return int(n) }

// NullNumber keeps the difference between an absent/null value and an explicit 0.
type NullNumber struct {
	Float float64
	Valid bool
}

func NewNullNumber(f float64) NullNumber { return NullNumber{Float: f, Valid: true} }

func (n *NullNumber) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*n = NullNumber{}
		return nil
	}
	*n = NullNumber{Float: coerce(b), Valid: true}
	return nil
}

func (n NullNumber) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float)
}

// Text accepts either a JSON string or a bare number (platform ids arrive both ways).
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		*t = Text(b)
	}
	return nil
}

func (t Text) String() string { return string(t) }

// Money is an exact amount that decodes like Number: numeric strings and
// numbers are kept exactly, anything else is zero.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money { return Money{Decimal: d} }

func (m *Money) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(bytes.TrimSpace(b)); err != nil {
		d = decimal.NewFromFloat(coerce(b))
	}
	*m = Money{Decimal: d}
	return nil
}

func coerce(b []byte) float64 {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return 0
	}
	return ToFloat(v)
}

// ToFloat coerces an arbitrary decoded JSON value to a finite float, 0 on failure.
func ToFloat(v any) float64 {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	if _, ok := v.(bool); ok {
		return 0
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
