package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/yourusername/pick-advisor/internal/models"
)

type report struct {
	Market     models.Market      `json:"market"`
	League     string             `json:"league,omitempty"`
	Prediction *models.Prediction `json:"prediction,omitempty"`
	Result     models.PickResult  `json:"result"`
}

func (o *options) printResult(out io.Writer, market models.Market, league string, prediction *models.Prediction, result models.PickResult) error {
	if o.jsonOutput {
		return writeJSON(out, report{Market: market, League: league, Prediction: prediction, Result: result})
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Market:\t%s\n", market)
	if league != "" {
		fmt.Fprintf(w, "League:\t%s\n", league)
	}
	fmt.Fprintf(w, "Probability:\t%s\n", result.Probability)
	fmt.Fprintf(w, "EV:\t%s\n", result.EV)
	fmt.Fprintf(w, "Pick:\t%s\n", result.Pick)
	return w.Flush()
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func marketList() string {
	return strings.Join(models.MarketStrings(), ", ")
}
