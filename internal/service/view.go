package service

import "github.com/yourusername/pick-advisor/internal/models"

// Status describes which phase a view belongs to
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// View is what a session renders after an event
type View struct {
	Status   Status            `json:"status"`
	Result   models.PickResult `json:"result"`
	Market   models.Market     `json:"market"`
	League   string            `json:"league"`
	Odds     string            `json:"odds"`
	Teams    []string          `json:"teams"`
	Sequence uint64            `json:"sequence"`
	Error    string            `json:"error,omitempty"`
}
