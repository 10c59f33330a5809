package pick

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pick-advisor/internal/models"
	"github.com/yourusername/pick-advisor/internal/threshold"
)

func ptr(v float64) *float64 { return &v }

func newTestEngine() *Engine {
	return NewEngine(threshold.Default(), nil)
}

func simpleState(market models.Market, league, oddsText string, probability *float64) State {
	return State{
		Market:     market,
		League:     league,
		OddsText:   oddsText,
		Prediction: models.Prediction{Probability: probability},
	}
}

func threeWayState(league, oddsText string, outcomes *models.OutcomeProbabilities) State {
	return State{
		Market:     models.MarketMatchResult,
		League:     league,
		OddsText:   oddsText,
		Prediction: models.Prediction{Outcomes: outcomes},
	}
}

func TestExpectedValue(t *testing.T) {
	assert.Nil(t, ExpectedValue(nil, ptr(2)))
	assert.Nil(t, ExpectedValue(ptr(0.5), nil))
	assert.Nil(t, ExpectedValue(nil, nil))

	ev := ExpectedValue(ptr(0.55), ptr(2.0))
	require.NotNil(t, ev)
	assert.Equal(t, 0.55*2.0-1, *ev)

	// non-finite results have no EV
	assert.Nil(t, ExpectedValue(ptr(0.5), ptr(math.Inf(1))))
	assert.Nil(t, ExpectedValue(ptr(0), ptr(math.Inf(1))))
	assert.Nil(t, ExpectedValue(ptr(math.NaN()), ptr(2.0)))
}

func TestForMarketDispatch(t *testing.T) {
	assert.IsType(t, ThreeWayMarket{}, ForMarket(models.MarketMatchResult))
	assert.IsType(t, SimpleMarket{}, ForMarket(models.MarketOver25))
	assert.Equal(t, models.MarketBTTS, ForMarket(models.MarketBTTS).Market())
	assert.Equal(t, models.MarketMatchResult, ForMarket(models.MarketMatchResult).Market())
}

func TestSimpleMarketWithOdds(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name        string
		probability float64
		oddsText    string
		pick        string
		ev          string
		tone        models.Tone
	}{
		{"positive ev backs", 0.55, "2.00", "Back", "+10.00%", models.TonePositive},
		{"negative ev lays", 0.40, "2.00", "Lay", "-20.00%", models.ToneNegative},
		{"zero ev backs", 0.50, "2.00", "Back", "+0.00%", models.TonePositive},
		{"only the first token is read", 0.40, "3.00 abc", "Back", "+20.00%", models.TonePositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.Evaluate(simpleState(models.MarketOver25, "LaLiga", tt.oddsText, ptr(tt.probability)))
			assert.Equal(t, tt.pick, result.Pick)
			assert.Equal(t, tt.ev, result.EV)
			assert.Equal(t, tt.tone, result.Tone)
			assert.Nil(t, result.Threshold)
		})
	}
}

func TestSimpleMarketWithoutOddsUsesThreshold(t *testing.T) {
	engine := newTestEngine()

	result := engine.Evaluate(simpleState(models.MarketOver25, "LaLiga", "", ptr(0.50)))
	assert.Equal(t, "Lay", result.Pick)
	assert.Equal(t, "N/A", result.EV)
	assert.Equal(t, "50.00%", result.Probability)
	assert.Equal(t, models.ToneNeutral, result.Tone)
	require.NotNil(t, result.Threshold)
	assert.Equal(t, 0.54, *result.Threshold)

	result = engine.Evaluate(simpleState(models.MarketOver25, "LaLiga", "1.00", ptr(0.55)))
	assert.Equal(t, "Back", result.Pick)

	// threshold boundary is inclusive
	result = engine.Evaluate(simpleState(models.MarketBTTS, "Unknown", "", ptr(0.52)))
	assert.Equal(t, "Back", result.Pick)

	// spread has no default and falls back to 0.50
	result = engine.Evaluate(simpleState(models.MarketSpread, "LaLiga", "", ptr(0.49)))
	assert.Equal(t, "Lay", result.Pick)
}

func TestSimpleMarketInvalidFirstTokenUsesThreshold(t *testing.T) {
	engine := newTestEngine()

	for _, oddsText := range []string{"abc 3.00 1.50", "1.00 2.00"} {
		t.Run(oddsText, func(t *testing.T) {
			result := engine.Evaluate(simpleState(models.MarketOver25, "LaLiga", oddsText, ptr(0.40)))
			assert.Equal(t, "Lay", result.Pick)
			assert.Equal(t, "N/A", result.EV)
			assert.Nil(t, result.Odds)
			require.NotNil(t, result.Threshold)
			assert.Equal(t, 0.54, *result.Threshold)
		})
	}
}

func TestEvaluateNonFiniteOdds(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name        string
		probability float64
		oddsText    string
		pick        string
	}{
		{"overflowing odd", 0.50, "1e400", "Lay"},
		{"overflowing odd with zero probability", 0, "1e400", "Lay"},
		{"negative overflow", 0.60, "-1e400", "Back"},
		{"nan", 0.60, "NaN", "Back"},
		{"infinity", 0.50, "Inf", "Lay"},
		{"huge exponent", 0.60, "1e999999999", "Back"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result models.PickResult
			require.NotPanics(t, func() {
				result = engine.Evaluate(simpleState(models.MarketOver25, "LaLiga", tt.oddsText, ptr(tt.probability)))
			})
			assert.Equal(t, tt.pick, result.Pick)
			assert.Equal(t, "N/A", result.EV)
			assert.Equal(t, models.ToneNeutral, result.Tone)
			assert.Nil(t, result.Odds)
		})
	}
}

func TestThreeWayIgnoresNonFiniteOdds(t *testing.T) {
	engine := newTestEngine()
	outcomes := &models.OutcomeProbabilities{Home: 0.55, Draw: 0.25, Away: 0.20}

	var decision Decision
	require.NotPanics(t, func() {
		decision = engine.Decide(threeWayState("LaLiga", "2.0 3.0 1e400", outcomes))
	})
	// only two odds survive, so the probability path decides
	assert.Equal(t, models.LabelHome, decision.Label)
	assert.Nil(t, decision.EV)
	assert.Nil(t, decision.Odds)

	result := engine.Evaluate(threeWayState("LaLiga", "2.0 3.0 1e400", &models.OutcomeProbabilities{}))
	assert.Equal(t, "—", result.Pick)
	assert.Equal(t, "0.00%", result.Probability)
}

func TestSimpleMarketWithoutProbability(t *testing.T) {
	engine := newTestEngine()

	result := engine.Evaluate(simpleState(models.MarketBTTS, "LaLiga", "2.00", nil))
	assert.Equal(t, "—", result.Pick)
	assert.Equal(t, "N/A", result.EV)
	assert.Equal(t, "N/A", result.Probability)
	assert.Equal(t, models.ToneNeutral, result.Tone)
}

func TestSimpleMarketClampsProbability(t *testing.T) {
	engine := newTestEngine()

	result := engine.Evaluate(simpleState(models.MarketOver25, "", "2.00", ptr(1.2)))
	assert.Equal(t, "100.00%", result.Probability)
	assert.Equal(t, "+100.00%", result.EV)

	result = engine.Evaluate(simpleState(models.MarketOver25, "", "2.00", ptr(-0.1)))
	assert.Equal(t, "0.00%", result.Probability)
	assert.Equal(t, "-100.00%", result.EV)
	assert.Equal(t, "Lay", result.Pick)
}

func TestThreeWayWithThreeOdds(t *testing.T) {
	engine := newTestEngine()

	decision := engine.Decide(threeWayState("LaLiga", "2.50 3.20 2.80", &models.OutcomeProbabilities{Home: 0.40, Draw: 0.28, Away: 0.32}))
	assert.Equal(t, models.LabelHome, decision.Label)
	require.NotNil(t, decision.EV)
	assert.InDelta(t, 0.0, *decision.EV, 1e-9)
	assert.InDelta(t, 0.40, *decision.Probability, 1e-12)
	assert.Len(t, decision.Odds, 3)
	assert.Nil(t, decision.Threshold)

	result := Render(decision)
	assert.Equal(t, "1", result.Pick)
	assert.Equal(t, "40.00%", result.Probability)
	assert.Equal(t, models.TonePositive, result.Tone)
}

func TestThreeWayPicksHighestEV(t *testing.T) {
	engine := newTestEngine()

	result := engine.Evaluate(threeWayState("", "3.00/3.40/2.40", &models.OutcomeProbabilities{Home: 0.30, Draw: 0.32, Away: 0.38}))
	assert.Equal(t, "X", result.Pick)
	assert.Equal(t, "+8.80%", result.EV)
	assert.Equal(t, "32.00%", result.Probability)
	assert.Equal(t, models.TonePositive, result.Tone)

	result = engine.Evaluate(threeWayState("", "1.50 3.00 4.00", &models.OutcomeProbabilities{Home: 0.50, Draw: 0.20, Away: 0.15}))
	assert.Equal(t, "1", result.Pick)
	assert.Equal(t, "-25.00%", result.EV)
	assert.Equal(t, models.ToneNegative, result.Tone)
}

func TestThreeWayEVTieBreak(t *testing.T) {
	engine := newTestEngine()

	// all three EVs are exactly zero
	result := engine.Evaluate(threeWayState("", "2 4 4", &models.OutcomeProbabilities{Home: 0.5, Draw: 0.25, Away: 0.25}))
	assert.Equal(t, "1", result.Pick)

	// draw and away tie above home
	result = engine.Evaluate(threeWayState("", "2 4 4", &models.OutcomeProbabilities{Home: 0.25, Draw: 0.5, Away: 0.5}))
	assert.Equal(t, "X", result.Pick)
}

func TestThreeWayInsufficientOddsUsesProbability(t *testing.T) {
	engine := newTestEngine()

	result := engine.Evaluate(threeWayState("Premier League", "2.50", &models.OutcomeProbabilities{Home: 0.30, Draw: 0.35, Away: 0.35}))
	assert.Equal(t, "—", result.Pick)
	assert.Equal(t, "N/A", result.EV)
	assert.Equal(t, "35.00%", result.Probability)
	assert.Equal(t, models.ToneNeutral, result.Tone)
	require.NotNil(t, result.Threshold)
	assert.Equal(t, 0.51, *result.Threshold)

	decision := engine.Decide(threeWayState("Premier League", "2.50 3.00", &models.OutcomeProbabilities{Home: 0.30, Draw: 0.35, Away: 0.35}))
	assert.Nil(t, decision.Odds)
	assert.InDelta(t, 0.35, *decision.Probability, 1e-12)
}

func TestThreeWayProbabilityClearsThreshold(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		name     string
		league   string
		outcomes models.OutcomeProbabilities
		pick     string
	}{
		{"home clears la liga", "LaLiga", models.OutcomeProbabilities{Home: 0.52, Draw: 0.28, Away: 0.20}, "1"},
		{"away below liga mx", "Liga MX", models.OutcomeProbabilities{Home: 0.20, Draw: 0.28, Away: 0.52}, "—"},
		{"draw clears default", "Serie A", models.OutcomeProbabilities{Home: 0.20, Draw: 0.50, Away: 0.30}, "X"},
		{"home and away tie", "", models.OutcomeProbabilities{Home: 0.6, Draw: 0.1, Away: 0.6}, "1"},
		{"clamped above one", "", models.OutcomeProbabilities{Home: 0.2, Draw: 0.1, Away: 1.7}, "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcomes := tt.outcomes
			result := engine.Evaluate(threeWayState(tt.league, "", &outcomes))
			assert.Equal(t, tt.pick, result.Pick)
		})
	}
}

func TestThreeWayWithoutProbabilities(t *testing.T) {
	engine := newTestEngine()

	result := engine.Evaluate(threeWayState("LaLiga", "2.5 3.2 2.8", nil))
	assert.Equal(t, "N/A", result.Probability)
	assert.Equal(t, "N/A", result.EV)
	assert.Equal(t, "—", result.Pick)
	assert.Equal(t, models.ToneNeutral, result.Tone)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	engine := newTestEngine()
	states := []State{
		threeWayState("LaLiga", "2.50 3.20 2.80", &models.OutcomeProbabilities{Home: 0.40, Draw: 0.28, Away: 0.32}),
		simpleState(models.MarketOver25, "LaLiga", "", ptr(0.5)),
	}

	for _, state := range states {
		assert.Equal(t, engine.Evaluate(state), engine.Evaluate(state))
	}
}
