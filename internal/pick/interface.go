// Package pick decides the recommendation for a market from probabilities,
// odds and league thresholds.
package pick

import (
	"github.com/yourusername/pick-advisor/internal/models"
	"github.com/yourusername/pick-advisor/internal/odds"
)

// ThresholdSource resolves the probability threshold for a market and league
type ThresholdSource interface {
	Get(market models.Market, league string) float64
}

// Decider decides a pick for one market family
type Decider interface {
	Market() models.Market
	Decide(in Input, thresholds ThresholdSource) Decision
}

// Input is everything a decider reads. It is a value owned by the caller.
type Input struct {
	League     string
	OddsText   string
	Prediction models.Prediction
}

// Decision is the raw outcome of a decider, before formatting
type Decision struct {
	Market      models.Market `json:"market"`
	Label       models.Label  `json:"label"`
	Probability *float64      `json:"probability,omitempty"`
	EV          *float64      `json:"ev,omitempty"`
	Odds        odds.Bundle   `json:"odds,omitempty"`
	Threshold   *float64      `json:"threshold,omitempty"`
}

// ForMarket returns the decider for m
func ForMarket(m models.Market) Decider {
	if m.IsThreeWay() {
		return ThreeWayMarket{}
	}
	return SimpleMarket{market: m}
}
