// Package logger provides pick decision logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// DecisionLogger provides dedicated logging for pick decisions.
type DecisionLogger struct {
	*logrus.Entry
}

// NewDecisionLogger creates a new decision logger. A nil base discards output.
func NewDecisionLogger(baseLogger *logrus.Logger) *DecisionLogger {
	return &DecisionLogger{
		Entry: orDiscard(baseLogger).WithField("component", "pick"),
	}
}

// LogDecision logs one evaluated pick at debug level.
func (dl *DecisionLogger) LogDecision(market, league, label string, probability, ev, threshold *float64, oddsCount int) {
	fields := logrus.Fields{
		"market":     market,
		"league":     league,
		"pick":       label,
		"odds_count": oddsCount,
	}
	if probability != nil {
		fields["probability"] = *probability
	}
	if ev != nil {
		fields["ev"] = *ev
	}
	if threshold != nil {
		fields["threshold"] = *threshold
	}
	dl.WithFields(fields).Debug("Pick decided")
}
