package models

import "math"

// OutcomeProbabilities holds the home/draw/away probabilities of a 1X2 market.
// The three values are not required to sum to one.
type OutcomeProbabilities struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// Clamped returns a copy with every probability clamped to [0,1]
func (o OutcomeProbabilities) Clamped() OutcomeProbabilities {
	return OutcomeProbabilities{
		Home: ClampProbability(o.Home),
		Draw: ClampProbability(o.Draw),
		Away: ClampProbability(o.Away),
	}
}

// Prediction is the normalised output of the prediction provider.
// Probability is set for simple markets, Outcomes for 1X2; either may be nil.
type Prediction struct {
	Probability *float64              `json:"prob,omitempty"`
	Outcomes    *OutcomeProbabilities `json:"probs,omitempty"`
}

// Empty reports whether the prediction carries no usable probability
func (p *Prediction) Empty() bool {
	return p == nil || (p.Probability == nil && p.Outcomes == nil)
}

// ClampProbability ensures probability in [0,1]. Non-finite values map to 0.
func ClampProbability(p float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// ClampPtr clamps an optional probability, keeping nil as nil
func ClampPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := ClampProbability(*p)
	return &v
}
