// Package threshold holds the per-market and per-league probability thresholds
// used when a pick has to be decided without odds.
package threshold

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/pick-advisor/internal/models"
)

// GlobalFallback applies to markets without a registered default.
const GlobalFallback = 0.50

//go:embed thresholds.yaml
var embedded []byte

var (
	defaultTable *Table
	defaultOnce  sync.Once
)

// Table is immutable once built; lookups are safe for concurrent use.
type Table struct {
	defaults map[models.Market]float64
	leagues  map[string]map[models.Market]float64
}

type document struct {
	Defaults map[string]any            `yaml:"defaults"`
	Leagues  map[string]map[string]any `yaml:"leagues"`
}

// Default returns the table compiled into the binary.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Parse(embedded)
		if err != nil {
			panic(fmt.Sprintf("embedded threshold table is invalid: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}

// Load reads a threshold table from a YAML file. An empty path yields the
// embedded table.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read threshold file: %w", err)
	}
	return Parse(data)
}

// Parse builds a table from YAML. Entries that are not numbers are skipped and
// behave as if they were not configured.
func Parse(data []byte) (*Table, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse threshold table: %w", err)
	}

	t := &Table{
		defaults: numericEntries(doc.Defaults),
		leagues:  make(map[string]map[models.Market]float64, len(doc.Leagues)),
	}
	for league, entries := range doc.Leagues {
		t.leagues[league] = numericEntries(entries)
	}
	return t, nil
}

// Get returns the threshold for market in league: the league override when it
// defines the exact market key, else the market default, else GlobalFallback.
func (t *Table) Get(market models.Market, league string) float64 {
	if overrides, ok := t.leagues[league]; ok {
		if v, ok := overrides[market]; ok {
			return v
		}
	}
	if v, ok := t.defaults[market]; ok {
		return v
	}
	return GlobalFallback
}

// Leagues returns the leagues with overrides, sorted.
func (t *Table) Leagues() []string {
	leagues := make([]string, 0, len(t.leagues))
	for league := range t.leagues {
		leagues = append(leagues, league)
	}
	sort.Strings(leagues)
	return leagues
}

// Resolve returns the effective threshold of every supported market for league.
func (t *Table) Resolve(league string) map[string]float64 {
	out := make(map[string]float64, len(models.Markets))
	for _, m := range models.Markets {
		out[m.String()] = t.Get(m, league)
	}
	return out
}

func numericEntries(raw map[string]any) map[models.Market]float64 {
	out := make(map[models.Market]float64, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case float64:
			out[models.Market(key)] = v
		case int:
			out[models.Market(key)] = float64(v)
		}
	}
	return out
}
