package predictor

import "github.com/yourusername/pick-advisor/internal/models"

// shape is the layout a provider response was sent in
type shape int

const (
	shapeSingle shape = iota // {"prob": p}
	shapeNested              // {"probs": {"home", "draw", "away"}}
	shapeFlat                // {"p1", "px" | "pX" | "draw", "p2"}
)

// drawKeys is the fallback chain for the flat draw field; the first key that is
// present and not null wins, whatever its type.
var drawKeys = []string{"px", "pX", "draw"}

// payload is a decoded response tagged with its shape
type payload struct {
	shape  shape
	fields map[string]any
}

func classify(market models.Market, body map[string]any) payload {
	if !market.IsThreeWay() {
		return payload{shape: shapeSingle, fields: body}
	}
	if nested, ok := body["probs"].(map[string]any); ok {
		return payload{shape: shapeNested, fields: nested}
	}
	return payload{shape: shapeFlat, fields: body}
}

// Normalize converts a decoded provider response into typed, clamped
// probabilities for market. Missing or non-numeric fields leave the
// corresponding probability nil; a 1X2 triple is kept only when all three
// values are numbers.
func Normalize(market models.Market, body map[string]any) models.Prediction {
	p := classify(market, body)

	switch p.shape {
	case shapeSingle:
		return models.Prediction{Probability: models.ClampPtr(number(p.fields["prob"]))}
	case shapeNested:
		return outcomes(p.fields["home"], p.fields["draw"], p.fields["away"])
	default:
		return outcomes(p.fields["p1"], firstPresent(p.fields, drawKeys...), p.fields["p2"])
	}
}

func outcomes(home, draw, away any) models.Prediction {
	h, d, a := number(home), number(draw), number(away)
	if h == nil || d == nil || a == nil {
		return models.Prediction{}
	}
	o := models.OutcomeProbabilities{Home: *h, Draw: *d, Away: *a}.Clamped()
	return models.Prediction{Outcomes: &o}
}

func firstPresent(fields map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := fields[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func number(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	}
	return nil
}
