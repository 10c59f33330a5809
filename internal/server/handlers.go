package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/pick-advisor/internal/display"
	"github.com/yourusername/pick-advisor/internal/models"
	"github.com/yourusername/pick-advisor/internal/odds"
	"github.com/yourusername/pick-advisor/internal/pick"
	"github.com/yourusername/pick-advisor/internal/predictor"
)

const (
	maxBodyBytes = 1 << 16
	teamsTimeout = 5 * time.Second
)

// EvaluateRequest is a stateless evaluation of a market
type EvaluateRequest struct {
	Market string                       `json:"market" validate:"required"`
	League string                       `json:"league"`
	Odds   string                       `json:"odds"`
	Prob   *float64                     `json:"prob"`
	Probs  *models.OutcomeProbabilities `json:"probs"`
}

// PredictRequest asks the provider and evaluates its answer
type PredictRequest struct {
	Market string `json:"market" validate:"required"`
	League string `json:"league" validate:"required"`
	Home   string `json:"home" validate:"required"`
	Away   string `json:"away" validate:"required,nefield=Home"`
	Odds   string `json:"odds"`
}

// EvaluateResponse carries the rendered result
type EvaluateResponse struct {
	Market     models.Market      `json:"market"`
	League     string             `json:"league"`
	Result     models.PickResult  `json:"result"`
	Prediction *models.Prediction `json:"prediction,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// MarketsResponse describes the form options for a league
type MarketsResponse struct {
	League     string             `json:"league"`
	Markets    []string           `json:"markets"`
	Thresholds map[string]float64 `json:"thresholds"`
	Teams      []string           `json:"teams"`
}

// ThresholdsResponse is the full threshold table
type ThresholdsResponse struct {
	Defaults map[string]float64            `json:"defaults"`
	Leagues  map[string]map[string]float64 `json:"leagues"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

func (s *Server) handleMarkets(w http.ResponseWriter, r *http.Request) {
	league := strings.TrimSpace(r.URL.Query().Get("league"))

	resp := MarketsResponse{
		League:     league,
		Markets:    s.marketStrings(),
		Thresholds: s.thresholds.Resolve(league),
		Teams:      s.teams(r.Context(), league),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleThresholds(w http.ResponseWriter, r *http.Request) {
	resp := ThresholdsResponse{
		Defaults: s.thresholds.Resolve(""),
		Leagues:  make(map[string]map[string]float64),
	}
	for _, league := range s.thresholds.Leagues() {
		resp.Leagues[league] = s.thresholds.Resolve(league)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	market, err := s.parseMarket(req.Market)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	prediction := models.Prediction{Probability: req.Prob}
	if req.Probs != nil {
		o := req.Probs.Clamped()
		prediction.Outcomes = &o
	}

	result := s.engine.Evaluate(pick.State{
		Market:     market,
		League:     req.League,
		OddsText:   req.Odds,
		Prediction: prediction,
	})
	writeJSON(w, http.StatusOK, EvaluateResponse{Market: market, League: req.League, Result: result})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	market, err := s.parseMarket(req.Market)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp := EvaluateResponse{Market: market, League: req.League}
	if s.provider == nil {
		resp.Result = display.Placeholder(display.Error)
		resp.Error = predictor.ErrProviderUnavailable.Error()
		writeJSON(w, http.StatusBadGateway, resp)
		return
	}

	prediction, err := s.provider.Predict(r.Context(), predictor.Request{
		League: req.League,
		Home:   req.Home,
		Away:   req.Away,
		Market: market,
		Odds:   odds.Ptr(req.Odds),
	})
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, predictor.ErrInvalidRequest) {
			status = http.StatusBadRequest
		}
		s.logger.WithError(err).WithField("market", market).Warn("Prediction request failed")
		resp.Result = display.Placeholder(display.Error)
		resp.Error = err.Error()
		writeJSON(w, status, resp)
		return
	}

	resp.Prediction = prediction
	resp.Result = s.engine.Evaluate(pick.State{
		Market:     market,
		League:     req.League,
		OddsText:   req.Odds,
		Prediction: *prediction,
	})
	writeJSON(w, http.StatusOK, resp)
}

// decode reads a JSON body and validates it
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := s.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("field '%s' failed validation: %s", verrs[0].Field(), verrs[0].Tag())
		}
		return err
	}
	return nil
}

// parseMarket accepts only markets enabled in configuration
func (s *Server) parseMarket(raw string) (models.Market, error) {
	market, err := models.ParseMarket(raw)
	if err != nil {
		return "", err
	}
	if !s.enabled[market] {
		return "", fmt.Errorf("%w: %q is disabled", models.ErrUnknownMarket, raw)
	}
	return market, nil
}

func (s *Server) marketStrings() []string {
	out := make([]string, len(s.markets))
	for i, m := range s.markets {
		out[i] = m.String()
	}
	return out
}

// teams lists the provider's teams for league; failures yield an empty list
func (s *Server) teams(ctx context.Context, league string) []string {
	if s.provider == nil || league == "" {
		return []string{}
	}

	ctx, cancel := context.WithTimeout(ctx, teamsTimeout)
	defer cancel()

	resp, err := s.provider.Markets(ctx, league)
	if err != nil || resp.Teams == nil {
		if err != nil {
			s.logger.WithError(err).WithField("league", league).Warn("Failed to load teams")
		}
		return []string{}
	}
	return resp.Teams
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
