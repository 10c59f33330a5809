// Package logger provides prediction provider logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// ProviderLogger provides dedicated logging for prediction provider calls.
type ProviderLogger struct {
	*logrus.Entry
}

// NewProviderLogger creates a new provider logger. A nil base discards output.
func NewProviderLogger(baseLogger *logrus.Logger) *ProviderLogger {
	return &ProviderLogger{
		Entry: orDiscard(baseLogger).WithField("component", "predictor"),
	}
}

// LogPredictionRequest logs a completed prediction request.
func (pl *ProviderLogger) LogPredictionRequest(requestID, market, league, home, away string, cacheHit bool, latencyMs float64) {
	pl.WithFields(logrus.Fields{
		"request_id": requestID,
		"market":     market,
		"league":     league,
		"home":       home,
		"away":       away,
		"cache_hit":  cacheHit,
		"latency_ms": latencyMs,
	}).Info("Prediction request completed")
}

// LogPredictionFailure logs a failed prediction request.
func (pl *ProviderLogger) LogPredictionFailure(requestID, market, league string, err error) {
	pl.WithFields(logrus.Fields{
		"request_id": requestID,
		"market":     market,
		"league":     league,
	}).WithError(err).Error("Prediction request failed")
}

// LogStaleResponse logs a response discarded because a newer request exists.
func (pl *ProviderLogger) LogStaleResponse(sessionID string, sequence, latest uint64) {
	pl.WithFields(logrus.Fields{
		"session_id": sessionID,
		"sequence":   sequence,
		"latest":     latest,
	}).Debug("Discarded stale prediction response")
}
