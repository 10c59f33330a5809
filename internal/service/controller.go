// Package service holds the session controller that owns the pick form state.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pick-advisor/internal/display"
	"github.com/yourusername/pick-advisor/internal/logger"
	"github.com/yourusername/pick-advisor/internal/metrics"
	"github.com/yourusername/pick-advisor/internal/models"
	"github.com/yourusername/pick-advisor/internal/odds"
	"github.com/yourusername/pick-advisor/internal/pick"
	"github.com/yourusername/pick-advisor/internal/predictor"
)

// ErrStaleResponse is returned by Submit when a newer submission or a reset
// superseded it. The response was discarded and the state is unchanged.
var ErrStaleResponse = errors.New("stale prediction response discarded")

// Controller owns the state of one pick form. Events mutate the state under a
// lock; provider round-trips happen outside it.
type Controller struct {
	id       string
	engine   *pick.Engine
	provider predictor.Provider
	log      *logrus.Entry
	stale    *logger.ProviderLogger

	mu       sync.Mutex
	state    pick.State
	teams    []string
	sequence uint64
	cancel   context.CancelFunc
}

// NewController creates a controller for one session. provider may be nil, in
// which case team lists stay empty and Submit fails.
func NewController(engine *pick.Engine, provider predictor.Provider, log *logrus.Logger) *Controller {
	id := uuid.NewString()
	return &Controller{
		id:       id,
		engine:   engine,
		provider: provider,
		log:      logger.Component(log, "session").WithField("session_id", id),
		stale:    logger.NewProviderLogger(log),
		state:    pick.State{Market: models.MarketMatchResult},
	}
}

// ID returns the session identifier
func (c *Controller) ID() string {
	return c.id
}

// State returns a copy of the current form state
func (c *Controller) State() pick.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View recomputes the current view without changing state
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recomputeLocked()
}

// SetOdds replaces the odds text and recomputes
func (c *Controller) SetOdds(text string) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.OddsText = text
	return c.recomputeLocked()
}

// SetMarket switches the market and recomputes
func (c *Controller) SetMarket(raw string) (View, error) {
	market, err := models.ParseMarket(raw)
	if err != nil {
		return c.View(), err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Market = market
	return c.recomputeLocked(), nil
}

// SetLeague switches the league, recomputes, and refreshes the team list.
// A failing provider leaves the team list empty.
func (c *Controller) SetLeague(ctx context.Context, league string) View {
	league = strings.TrimSpace(league)

	c.mu.Lock()
	c.state.League = league
	c.teams = nil
	c.mu.Unlock()

	teams := c.fetchTeams(ctx, league)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.League == league {
		c.teams = teams
	}
	return c.recomputeLocked()
}

// Submit fetches a fresh prediction for home vs away. loading, if not nil, is
// called with the loading view before the provider is contacted. A prior
// in-flight submission is cancelled; if this one is superseded in turn its
// response is dropped and ErrStaleResponse returned.
func (c *Controller) Submit(ctx context.Context, home, away string, loading func(View)) (View, error) {
	home, away = strings.TrimSpace(home), strings.TrimSpace(away)

	c.mu.Lock()
	if err := validateMatch(c.state.League, home, away); err != nil {
		view := c.recomputeLocked()
		c.mu.Unlock()
		return view, err
	}

	if c.cancel != nil {
		c.cancel()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	c.sequence++
	seq := c.sequence
	c.cancel = cancel

	req := predictor.Request{
		League: c.state.League,
		Home:   home,
		Away:   away,
		Market: c.state.Market,
		Odds:   odds.Ptr(c.state.OddsText),
	}
	pending := c.viewLocked(display.Placeholder(display.Loading))
	c.mu.Unlock()

	if loading != nil {
		loading(pending)
	}

	prediction, err := c.predict(reqCtx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.sequence {
		cancel()
		metrics.RecordStaleResponse()
		c.stale.LogStaleResponse(c.id, seq, c.sequence)
		return c.recomputeLocked(), ErrStaleResponse
	}
	c.cancel = nil
	cancel()

	c.state.Prediction = models.Prediction{}
	if err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{
			"market": req.Market,
			"league": req.League,
		}).Warn("Prediction failed")
		view := c.viewLocked(display.Placeholder(display.Error))
		view.Status = StatusError
		view.Error = err.Error()
		return view, err
	}

	c.state.Prediction = *prediction
	return c.recomputeLocked(), nil
}

// Reset clears odds and probabilities and shows the idle view. Any in-flight
// submission is superseded.
func (c *Controller) Reset() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.supersedeLocked()
	c.state.OddsText = ""
	c.state.Prediction = models.Prediction{}
	view := c.viewLocked(display.Placeholder(display.Idle))
	view.Status = StatusIdle
	return view
}

// Close cancels any in-flight submission
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.supersedeLocked()
}

func (c *Controller) supersedeLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.sequence++
}

func (c *Controller) predict(ctx context.Context, req predictor.Request) (*models.Prediction, error) {
	if c.provider == nil {
		return nil, fmt.Errorf("%w: no provider configured", predictor.ErrProviderUnavailable)
	}
	return c.provider.Predict(ctx, req)
}

func (c *Controller) fetchTeams(ctx context.Context, league string) []string {
	if c.provider == nil || league == "" {
		return []string{}
	}
	resp, err := c.provider.Markets(ctx, league)
	if err != nil {
		c.log.WithError(err).WithField("league", league).Warn("Failed to load teams")
		return []string{}
	}
	if resp.Teams == nil {
		return []string{}
	}
	return resp.Teams
}

// recomputeLocked evaluates the current state. Every event recomputes; the
// placeholders of submit and reset are only returned by those events.
func (c *Controller) recomputeLocked() View {
	return c.viewLocked(c.engine.Evaluate(c.state))
}

func (c *Controller) viewLocked(result models.PickResult) View {
	teams := c.teams
	if teams == nil {
		teams = []string{}
	}
	status := StatusReady
	if c.cancel != nil {
		status = StatusLoading
	}
	return View{
		Status:   status,
		Result:   result,
		Market:   c.state.Market,
		League:   c.state.League,
		Odds:     c.state.OddsText,
		Teams:    append([]string(nil), teams...),
		Sequence: c.sequence,
	}
}

func validateMatch(league, home, away string) error {
	switch {
	case league == "":
		return models.ErrLeagueRequired
	case home == "" || away == "":
		return models.ErrTeamsRequired
	case strings.EqualFold(home, away):
		return models.ErrSameTeams
	}
	return nil
}
