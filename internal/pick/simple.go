package pick

import (
	"github.com/yourusername/pick-advisor/internal/models"
	"github.com/yourusername/pick-advisor/internal/odds"
)

// SimpleMarket decides single-outcome markets (over25, btts, spread).
// With an odd it backs any non-negative EV; without one it compares the
// probability to the market threshold.
type SimpleMarket struct {
	market models.Market
}

// NewSimpleMarket creates a decider for a single-outcome market
func NewSimpleMarket(m models.Market) SimpleMarket {
	return SimpleMarket{market: m}
}

// Market returns the market key
func (s SimpleMarket) Market() models.Market {
	return s.market
}

// Decide implements Decider
func (s SimpleMarket) Decide(in Input, thresholds ThresholdSource) Decision {
	decision := Decision{Market: s.market, Label: models.LabelNone}

	probability := models.ClampPtr(in.Prediction.Probability)
	if probability == nil {
		return decision
	}
	decision.Probability = probability

	odd := odds.Ptr(in.OddsText)
	if odd != nil {
		decision.Odds = odds.Bundle{*odd}
	}

	if ev := ExpectedValue(probability, odd); ev != nil {
		decision.EV = ev
		decision.Label = backOrLay(*ev >= 0)
		return decision
	}

	threshold := thresholds.Get(s.market, in.League)
	decision.Threshold = float64Ptr(threshold)
	decision.Label = backOrLay(*probability >= threshold)
	return decision
}

func backOrLay(back bool) models.Label {
	if back {
		return models.LabelBack
	}
	return models.LabelLay
}
