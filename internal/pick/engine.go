package pick

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pick-advisor/internal/display"
	"github.com/yourusername/pick-advisor/internal/logger"
	"github.com/yourusername/pick-advisor/internal/metrics"
	"github.com/yourusername/pick-advisor/internal/models"
)

// State is the form state a pick is computed from
type State struct {
	Market     models.Market
	League     string
	OddsText   string
	Prediction models.Prediction
}

// Engine evaluates a State into a renderable PickResult. It holds no mutable
// state, so the same State always yields the same result.
type Engine struct {
	thresholds ThresholdSource
	decisions  *logger.DecisionLogger
}

// NewEngine creates an engine. A nil log discards decision logs.
func NewEngine(thresholds ThresholdSource, log *logrus.Logger) *Engine {
	return &Engine{
		thresholds: thresholds,
		decisions:  logger.NewDecisionLogger(log),
	}
}

// Decide runs the decider of the state's market
func (e *Engine) Decide(state State) Decision {
	start := time.Now()
	decision := ForMarket(state.Market).Decide(Input{
		League:     state.League,
		OddsText:   state.OddsText,
		Prediction: state.Prediction,
	}, e.thresholds)

	metrics.RecordPick(decision.Market.String(), string(decision.Label), decision.EV, time.Since(start).Seconds())
	e.decisions.LogDecision(decision.Market.String(), state.League, string(decision.Label), decision.Probability, decision.EV, decision.Threshold, len(decision.Odds))
	return decision
}

// Evaluate decides and formats the result for a view
func (e *Engine) Evaluate(state State) models.PickResult {
	return Render(e.Decide(state))
}

// Thresholds returns the threshold source used by the engine
func (e *Engine) Thresholds() ThresholdSource {
	return e.thresholds
}

// Render formats a decision
func Render(d Decision) models.PickResult {
	return models.PickResult{
		Probability:      display.Probability(d.Probability),
		EV:               display.EV(d.EV),
		Pick:             string(d.Label),
		Tone:             display.ToneOf(d.EV),
		ProbabilityValue: d.Probability,
		EVValue:          d.EV,
		Odds:             d.Odds,
		Threshold:        d.Threshold,
	}
}
