// Package pricing derives display prices from the gold spot price.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TroyOunceGrams is the number of grams in one troy ounce.
const TroyOunceGrams = 31.1035

// Unit is the unit the upstream feed quotes its spot price in.
type Unit string

const (
	Ounce Unit = "ounce"
	Gram  Unit = "gram"
)

func (u Unit) Validate() error {
	switch u {
	case Ounce, Gram:
		return nil
	default:
		return fmt.Errorf("unknown price unit %q (want %q or %q)", string(u), Ounce, Gram)
	}
}

// PerGram converts a spot price quoted in unit into a price per gram.
func PerGram(spot float64, unit Unit) float64 {
	if unit == Gram {
		return spot
	}
	return spot / TroyOunceGrams
}

// DisplayPrice is (popularity + 1) * weight * perGram rounded to cents.
func DisplayPrice(weight, popularity, perGram float64) decimal.Decimal {
	return decimal.NewFromFloat(popularity + 1).
		Mul(decimal.NewFromFloat(weight)).
		Mul(decimal.NewFromFloat(perGram)).
		Round(2)
}

// Format renders a price with exactly two fractional digits.
func Format(price decimal.Decimal) string {
	return price.StringFixed(2)
}
