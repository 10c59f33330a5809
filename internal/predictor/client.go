package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pick-advisor/internal/config"
	"github.com/yourusername/pick-advisor/internal/httpclient"
	"github.com/yourusername/pick-advisor/internal/logger"
	"github.com/yourusername/pick-advisor/internal/metrics"
	"github.com/yourusername/pick-advisor/internal/models"
)

const (
	endpointPredict = "predict"
	endpointMarkets = "markets"
	endpointHealth  = "health"

	// requestIDHeader carries the per-request correlation ID to the provider
	requestIDHeader = "X-Request-ID"

	// homeSelection is the only selection the provider is asked about
	homeSelection = "home"

	maxErrorBody = 512
)

// Client talks to the prediction provider over HTTP JSON
type Client struct {
	http     *httpclient.Client
	baseURL  string
	apiKey   string
	sport    string
	validate *validator.Validate
	logger   *logger.ProviderLogger
}

// NewClient creates a provider client from configuration
func NewClient(cfg *config.ProviderConfig, log *logrus.Logger) *Client {
	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.Timeout()
	httpCfg.MaxRetries = cfg.RetryAttempts
	httpCfg.RateLimit = cfg.RateLimit
	httpCfg.CircuitBreakerMax = cfg.CircuitBreakerMax
	httpCfg.CooldownPeriod = cfg.Cooldown()

	return NewClientWithTransport(httpclient.New(httpCfg, log), cfg.URL, cfg.APIKey, cfg.Sport, log)
}

// NewClientWithTransport creates a provider client on top of an existing HTTP client
func NewClientWithTransport(transport *httpclient.Client, baseURL, apiKey, sport string, log *logrus.Logger) *Client {
	if sport == "" {
		sport = DefaultSport
	}
	return &Client{
		http:     transport,
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		sport:    sport,
		validate: validator.New(),
		logger:   logger.NewProviderLogger(log),
	}
}

// Predict asks the provider for the probabilities of req and normalises the answer
func (c *Client) Predict(ctx context.Context, req Request) (*models.Prediction, error) {
	start := time.Now()
	requestID := uuid.NewString()

	if req.Sport == "" {
		req.Sport = c.sport
	}
	if req.Selection == "" {
		req.Selection = homeSelection
	}
	if !req.Market.Valid() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, models.ErrUnknownMarket)
	}
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/predict", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.decorate(httpReq, requestID)

	var body map[string]any
	if err := c.doJSON(ctx, endpointPredict, httpReq, &body, start); err != nil {
		c.logger.LogPredictionFailure(requestID, req.Market.String(), req.League, err)
		return nil, err
	}

	prediction := Normalize(req.Market, body)
	c.logger.LogPredictionRequest(requestID, req.Market.String(), req.League, req.Home, req.Away, false, msSince(start))
	return &prediction, nil
}

// Markets returns the teams and markets the provider knows for league
func (c *Client) Markets(ctx context.Context, league string) (*MarketsResponse, error) {
	start := time.Now()

	endpoint := c.baseURL + "/api/markets?" + url.Values{"league": {league}}.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.decorate(httpReq, uuid.NewString())

	var resp MarketsResponse
	if err := c.doJSON(ctx, endpointMarkets, httpReq, &resp, start); err != nil {
		return nil, err
	}
	if resp.League == "" {
		resp.League = league
	}
	return &resp, nil
}

// HealthCheck checks provider health
func (c *Client) HealthCheck(ctx context.Context) error {
	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(ctx, httpReq)
	if err != nil {
		metrics.RecordProviderRequest(endpointHealth, "network", time.Since(start).Seconds())
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	metrics.RecordProviderRequest(endpointHealth, statusLabel(resp.StatusCode), time.Since(start).Seconds())
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	}
	return nil
}

// Close releases idle connections
func (c *Client) Close() error {
	return c.http.Close()
}

func (c *Client) decorate(req *http.Request, requestID string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// doJSON executes req and decodes a 2xx JSON body into out
func (c *Client) doJSON(ctx context.Context, endpoint string, req *http.Request, out any, start time.Time) error {
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		metrics.RecordProviderRequest(endpoint, "network", time.Since(start).Seconds())
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	metrics.RecordProviderRequest(endpoint, statusLabel(resp.StatusCode), time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if resp.StatusCode >= 500 {
			return fmt.Errorf("%w: status %d: %s", ErrProviderUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return fmt.Errorf("%w: status %d: %s", ErrRequestRejected, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

func statusLabel(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
