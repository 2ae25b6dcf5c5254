package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Money is a decimal amount in a concrete currency. Amounts cross the wire
// as integer minor units (paise for INR), never as floats.
type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func NewMoney(amount decimal.Decimal, code string) (Money, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return Money{}, fmt.Errorf("invalid currency %q: %w", code, err)
	}
	return Money{Amount: amount, Currency: unit}, nil
}

// MinorUnits rounds to the smallest denomination, e.g. 600.50 INR -> 60050.
func (m Money) MinorUnits() int64 {
	return m.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.Currency)
}

// ParsePrice extracts a numeric amount from a display price that may carry a
// currency glyph, e.g. "₹600" or "$12.50". Every rune except digits and the
// decimal point is dropped before parsing. Malformed leftovers parse as zero.
func ParsePrice(price string) decimal.Decimal {
	var b strings.Builder
	for _, r := range price {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}
