package pick

import (
	"math"

	"github.com/yourusername/pick-advisor/internal/models"
	"github.com/yourusername/pick-advisor/internal/odds"
)

// ThreeWayMarket decides the 1X2 market. With exactly three odds it picks the
// outcome with the highest EV; otherwise the most likely outcome, provided it
// clears the league threshold.
type ThreeWayMarket struct{}

// Market returns the market key
func (ThreeWayMarket) Market() models.Market {
	return models.MarketMatchResult
}

// Decide implements Decider
func (t ThreeWayMarket) Decide(in Input, thresholds ThresholdSource) Decision {
	decision := Decision{Market: models.MarketMatchResult, Label: models.LabelNone}
	if in.Prediction.Outcomes == nil {
		return decision
	}

	cs := candidates(*in.Prediction.Outcomes)

	if bundle, ok := odds.Parse(in.OddsText); ok && bundle.Complete() {
		for i := range cs {
			cs[i].odd = float64Ptr(bundle[i])
			cs[i].ev = ExpectedValue(&cs[i].probability, cs[i].odd)
		}
		winner := best(cs, func(c candidate) float64 {
			if c.ev == nil {
				return math.Inf(-1)
			}
			return *c.ev
		})
		decision.Label = winner.label
		decision.Probability = float64Ptr(winner.probability)
		decision.EV = winner.ev
		decision.Odds = bundle
		return decision
	}

	winner := best(cs, func(c candidate) float64 { return c.probability })
	threshold := thresholds.Get(models.MarketMatchResult, in.League)
	decision.Probability = float64Ptr(winner.probability)
	decision.Threshold = float64Ptr(threshold)
	if winner.probability >= threshold {
		decision.Label = winner.label
	}
	return decision
}
