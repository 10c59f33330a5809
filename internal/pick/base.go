package pick

import (
	"math"

	"github.com/yourusername/pick-advisor/internal/models"
)

// ExpectedValue returns probability*odd - 1, or nil when either input is nil
// or the result is not finite. 0.08 means +8% expected return per unit staked.
func ExpectedValue(probability, odd *float64) *float64 {
	if probability == nil || odd == nil {
		return nil
	}
	ev := *probability*(*odd) - 1
	if math.IsInf(ev, 0) || math.IsNaN(ev) {
		return nil
	}
	return &ev
}

// candidate is one 1X2 outcome under consideration
type candidate struct {
	label       models.Label
	probability float64
	odd         *float64
	ev          *float64
}

func candidates(o models.OutcomeProbabilities) []candidate {
	c := o.Clamped()
	return []candidate{
		{label: models.LabelHome, probability: c.Home},
		{label: models.LabelDraw, probability: c.Draw},
		{label: models.LabelAway, probability: c.Away},
	}
}

// best scans left to right and keeps the current best on ties, so the
// earliest maximal candidate wins.
func best(cs []candidate, score func(candidate) float64) candidate {
	winner := cs[0]
	for _, c := range cs[1:] {
		if score(winner) >= score(c) {
			continue
		}
		winner = c
	}
	return winner
}

func float64Ptr(v float64) *float64 {
	return &v
}
