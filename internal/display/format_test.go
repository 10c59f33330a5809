package display

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/pick-advisor/internal/models"
)

func ptr(v float64) *float64 { return &v }

func TestProbability(t *testing.T) {
	assert.Equal(t, "53.21%", Probability(ptr(0.5321)))
	assert.Equal(t, "0.00%", Probability(ptr(0)))
	assert.Equal(t, "100.00%", Probability(ptr(1)))
	assert.Equal(t, "35.00%", Probability(ptr(0.35)))
	assert.Equal(t, NotAvailable, Probability(nil))
	assert.Equal(t, NotAvailable, Probability(ptr(math.NaN())))
	assert.Equal(t, NotAvailable, Probability(ptr(math.Inf(1))))
}

func TestEV(t *testing.T) {
	tests := []struct {
		name     string
		ev       *float64
		expected string
	}{
		{"positive", ptr(0.08), "+8.00%"},
		{"negative", ptr(-0.031), "-3.10%"},
		{"zero is signed", ptr(0), "+0.00%"},
		{"large", ptr(1.5), "+150.00%"},
		{"absent", nil, NotAvailable},
		{"positive infinity", ptr(math.Inf(1)), NotAvailable},
		{"negative infinity", ptr(math.Inf(-1)), NotAvailable},
		{"nan", ptr(math.NaN()), NotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EV(tt.ev))
		})
	}
}

func TestToneOf(t *testing.T) {
	assert.Equal(t, models.ToneNeutral, ToneOf(nil))
	assert.Equal(t, models.TonePositive, ToneOf(ptr(0)))
	assert.Equal(t, models.TonePositive, ToneOf(ptr(0.2)))
	assert.Equal(t, models.ToneNegative, ToneOf(ptr(-0.0001)))
	assert.Equal(t, models.ToneNeutral, ToneOf(ptr(math.NaN())))
	assert.Equal(t, models.ToneNeutral, ToneOf(ptr(math.Inf(1))))
}

func TestPlaceholder(t *testing.T) {
	view := Placeholder(Error)
	assert.Equal(t, Error, view.Probability)
	assert.Equal(t, Error, view.EV)
	assert.Equal(t, Error, view.Pick)
	assert.Equal(t, models.ToneNeutral, view.Tone)
	assert.Nil(t, view.EVValue)
}
