package models

import (
	"fmt"
	"strings"
)

// Market identifies a betting market offered by the calculator
type Market string

const (
	MarketMatchResult Market = "1x2"
	MarketOver25      Market = "over25"
	MarketBTTS        Market = "btts"
	MarketSpread      Market = "spread"
)

// Markets lists every supported market in display order
var Markets = []Market{MarketMatchResult, MarketOver25, MarketBTTS, MarketSpread}

// ParseMarket converts a raw market key into a Market
func ParseMarket(raw string) (Market, error) {
	m := Market(strings.ToLower(strings.TrimSpace(raw)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMarket, raw)
	}
	return m, nil
}

// Valid reports whether the market is one of the supported keys
func (m Market) Valid() bool {
	for _, known := range Markets {
		if m == known {
			return true
		}
	}
	return false
}

// IsThreeWay reports whether the market is decided over home/draw/away outcomes
func (m Market) IsThreeWay() bool {
	return m == MarketMatchResult
}

// String returns the market key
func (m Market) String() string {
	return string(m)
}

// MarketStrings returns the supported market keys
func MarketStrings() []string {
	out := make([]string, len(Markets))
	for i, m := range Markets {
		out[i] = string(m)
	}
	return out
}
