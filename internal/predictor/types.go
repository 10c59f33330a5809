package predictor

import (
	"context"

	"github.com/yourusername/pick-advisor/internal/models"
)

// DefaultSport is sent when a request does not name one
const DefaultSport = "futbol"

// Provider is the prediction provider as seen by the rest of the application
type Provider interface {
	Predict(ctx context.Context, req Request) (*models.Prediction, error)
	Markets(ctx context.Context, league string) (*MarketsResponse, error)
	HealthCheck(ctx context.Context) error
}

// Request is the body of a prediction request
type Request struct {
	Sport     string        `json:"sport"`
	League    string        `json:"league" validate:"required"`
	Home      string        `json:"home" validate:"required"`
	Away      string        `json:"away" validate:"required,nefield=Home"`
	Market    models.Market `json:"market" validate:"required"`
	Selection string        `json:"selection,omitempty"`
	Odds      *float64      `json:"odds"`
}

// MarketsResponse lists the teams and markets the provider knows for a league
type MarketsResponse struct {
	League  string   `json:"league"`
	Teams   []string `json:"teams"`
	Markets []string `json:"markets"`
}
