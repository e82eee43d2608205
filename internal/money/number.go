// Package money normalizes amounts coming from the CRM backend and holds the
// VAT conversions shared by the billing computations.
package money

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultVATRate is applied whenever a contract carries no VAT rate.
const DefaultVATRate = 20.0

// Placeholder is rendered instead of an unknown amount.
const Placeholder = "—"

// ToNumber coerces a backend value into a nullable number. Numbers are
// returned unchanged, strings are parsed as decimals, and anything that is
// missing, unparsable or not finite yields nil. It never panics.
func ToNumber(v any) *float64 {
	switch n := v.(type) {
	case nil:
		return nil
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return ptr(float64(n))
	case int8:
		return ptr(float64(n))
	case int16:
		return ptr(float64(n))
	case int32:
		return ptr(float64(n))
	case int64:
		return ptr(float64(n))
	case uint:
		return ptr(float64(n))
	case uint8:
		return ptr(float64(n))
	case uint16:
		return ptr(float64(n))
	case uint32:
		return ptr(float64(n))
	case uint64:
		return ptr(float64(n))
	case *float64:
		if n == nil {
			return nil
		}
		return finite(*n)
	case json.Number:
		return parse(string(n))
	case string:
		return parse(n)
	case *string:
		if n == nil {
			return nil
		}
		return parse(*n)
	case []byte:
		return parse(string(n))
	default:
		return nil
	}
}

// OrZero returns the value, or 0 when it is unknown.
func OrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// RateOrDefault returns the VAT rate, or DefaultVATRate when unset.
func RateOrDefault(rate *float64) float64 {
	if rate == nil {
		return DefaultVATRate
	}
	return *rate
}

// ToTTC converts an amount excl. VAT into an amount incl. VAT.
func ToTTC(ht, rate float64) float64 {
	return ht * (1 + rate/100)
}

// ToHT converts an amount incl. VAT into an amount excl. VAT.
func ToHT(ttc, rate float64) float64 {
	return ttc / (1 + rate/100)
}

// Format renders an amount with two decimals, or Placeholder when unknown.
func Format(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return decimal.NewFromFloat(*v).StringFixed(2)
}

// Round2 rounds an amount to cents.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func parse(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return finite(f)
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func ptr(f float64) *float64 {
	return &f
}
