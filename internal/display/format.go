// Package display turns decision values into the strings a view renders.
package display

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/yourusername/pick-advisor/internal/models"
)

// Placeholders shown instead of values
const (
	NotAvailable = "N/A"
	Idle         = "—"
	Loading      = "⏳"
	Error        = "Error"
)

var hundred = decimal.NewFromInt(100)

// Probability formats p as a percentage with two decimals, e.g. "53.21%".
func Probability(p *float64) string {
	if !finite(p) {
		return NotAvailable
	}
	return percent(*p) + "%"
}

// EV formats ev as a signed percentage, e.g. "+8.00%" or "-3.10%".
// Non-negative values carry an explicit plus sign.
func EV(ev *float64) string {
	if !finite(ev) {
		return NotAvailable
	}
	sign := ""
	if *ev >= 0 {
		sign = "+"
	}
	return sign + percent(*ev) + "%"
}

// ToneOf classifies ev for styling
func ToneOf(ev *float64) models.Tone {
	switch {
	case !finite(ev):
		return models.ToneNeutral
	case *ev >= 0:
		return models.TonePositive
	default:
		return models.ToneNegative
	}
}

// Placeholder returns a result showing text in every field
func Placeholder(text string) models.PickResult {
	return models.PickResult{
		Probability: text,
		EV:          text,
		Pick:        text,
		Tone:        models.ToneNeutral,
	}
}

// finite reports whether v is present and a real number; decimal cannot
// represent NaN or infinities.
func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

func percent(v float64) string {
	return decimal.NewFromFloat(v).Mul(hundred).StringFixed(2)
}
