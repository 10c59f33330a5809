package models

// Label is the recommendation shown to the user
type Label string

const (
	LabelBack Label = "Back"
	LabelLay  Label = "Lay"
	LabelHome Label = "1"
	LabelDraw Label = "X"
	LabelAway Label = "2"
	LabelNone Label = "—"
)

// Tone classifies the EV for styling
type Tone string

const (
	ToneNeutral  Tone = "neutral"
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
)

// PickResult is what the view renders after every recompute
type PickResult struct {
	Probability string `json:"probability"`
	EV          string `json:"ev"`
	Pick        string `json:"pick"`
	Tone        Tone   `json:"tone"`

	// Raw values behind the display strings, nil when absent
	ProbabilityValue *float64  `json:"probability_value,omitempty"`
	EVValue          *float64  `json:"ev_value,omitempty"`
	Odds             []float64 `json:"odds,omitempty"`
	Threshold        *float64  `json:"threshold,omitempty"`
}
