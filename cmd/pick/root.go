package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/pick-advisor/internal/config"
	"github.com/yourusername/pick-advisor/internal/display"
	"github.com/yourusername/pick-advisor/internal/logger"
	"github.com/yourusername/pick-advisor/internal/models"
	"github.com/yourusername/pick-advisor/internal/odds"
	"github.com/yourusername/pick-advisor/internal/pick"
	"github.com/yourusername/pick-advisor/internal/predictor"
	"github.com/yourusername/pick-advisor/internal/threshold"
)

type options struct {
	configFile     string
	thresholdsFile string
	jsonOutput     bool
	verbose        bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "pick",
		Short:         "Expected value and pick recommendations for betting markets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "config/config.yaml", "Path to configuration file")
	root.PersistentFlags().StringVar(&opts.thresholdsFile, "thresholds-file", "", "Threshold table overriding the built-in one")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Print JSON instead of a table")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log decisions at debug level")

	root.AddCommand(newEvaluateCmd(opts), newPredictCmd(opts), newThresholdsCmd(opts))
	return root
}

func (o *options) logger() *logrus.Logger {
	if !o.verbose {
		return logger.Discard()
	}
	return logger.NewLoggerForEnvironment("debug", "development")
}

func (o *options) table() (*threshold.Table, error) {
	return threshold.Load(o.thresholdsFile)
}

func newEvaluateCmd(opts *options) *cobra.Command {
	var (
		market, league, oddsText string
		prob, home, draw, away   float64
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate a market from known probabilities",
		Example: `  pick evaluate --market over25 --league LaLiga --prob 0.55 --odds 2.00
  pick evaluate --market 1x2 --home-prob 0.30 --draw-prob 0.32 --away-prob 0.38 --odds "3.00/3.40/2.40"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := models.ParseMarket(market)
			if err != nil {
				return err
			}
			table, err := opts.table()
			if err != nil {
				return err
			}

			var prediction models.Prediction
			flags := cmd.Flags()
			if flags.Changed("prob") {
				prediction.Probability = &prob
			}
			if flags.Changed("home-prob") || flags.Changed("draw-prob") || flags.Changed("away-prob") {
				if !(flags.Changed("home-prob") && flags.Changed("draw-prob") && flags.Changed("away-prob")) {
					return fmt.Errorf("--home-prob, --draw-prob and --away-prob must be given together")
				}
				o := models.OutcomeProbabilities{Home: home, Draw: draw, Away: away}.Clamped()
				prediction.Outcomes = &o
			}

			engine := pick.NewEngine(table, opts.logger())
			result := engine.Evaluate(pick.State{Market: m, League: league, OddsText: oddsText, Prediction: prediction})
			return opts.printResult(cmd.OutOrStdout(), m, league, nil, result)
		},
	}

	cmd.Flags().StringVarP(&market, "market", "m", "", "Market: "+marketList())
	cmd.Flags().StringVarP(&league, "league", "l", "", "League name")
	cmd.Flags().StringVarP(&oddsText, "odds", "o", "", "Decimal odds, up to three for 1x2")
	cmd.Flags().Float64Var(&prob, "prob", 0, "Probability for single-outcome markets")
	cmd.Flags().Float64Var(&home, "home-prob", 0, "Home win probability (1x2)")
	cmd.Flags().Float64Var(&draw, "draw-prob", 0, "Draw probability (1x2)")
	cmd.Flags().Float64Var(&away, "away-prob", 0, "Away win probability (1x2)")
	_ = cmd.MarkFlagRequired("market")
	return cmd
}

func newPredictCmd(opts *options) *cobra.Command {
	var (
		market, league, home, away, oddsText, providerURL string
		timeout                                           time.Duration
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Fetch probabilities from the prediction provider and evaluate them",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := models.ParseMarket(market)
			if err != nil {
				return err
			}

			cfg, err := config.LoadWithDefaults(opts.configFile)
			if err != nil {
				return err
			}
			if providerURL != "" {
				cfg.Provider.URL = providerURL
			}
			if opts.thresholdsFile == "" {
				opts.thresholdsFile = cfg.Thresholds.File
			}
			table, err := opts.table()
			if err != nil {
				return err
			}

			log := opts.logger()
			client := predictor.NewClient(&cfg.Provider, log)
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			engine := pick.NewEngine(table, log)
			prediction, err := client.Predict(ctx, predictor.Request{
				League: league,
				Home:   home,
				Away:   away,
				Market: m,
				Odds:   odds.Ptr(oddsText),
			})
			if err != nil {
				_ = opts.printResult(cmd.OutOrStdout(), m, league, nil, display.Placeholder(display.Error))
				return err
			}

			result := engine.Evaluate(pick.State{Market: m, League: league, OddsText: oddsText, Prediction: *prediction})
			return opts.printResult(cmd.OutOrStdout(), m, league, prediction, result)
		},
	}

	cmd.Flags().StringVarP(&market, "market", "m", "", "Market: "+marketList())
	cmd.Flags().StringVarP(&league, "league", "l", "", "League name")
	cmd.Flags().StringVar(&home, "home", "", "Home team")
	cmd.Flags().StringVar(&away, "away", "", "Away team")
	cmd.Flags().StringVarP(&oddsText, "odds", "o", "", "Decimal odds, up to three for 1x2")
	cmd.Flags().StringVar(&providerURL, "provider-url", "", "Override the provider URL from configuration")
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "Overall request timeout")
	for _, name := range []string{"market", "league", "home", "away"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newThresholdsCmd(opts *options) *cobra.Command {
	var league string

	cmd := &cobra.Command{
		Use:   "thresholds",
		Short: "Show probability thresholds per market",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := opts.table()
			if err != nil {
				return err
			}

			rows := map[string]map[string]float64{}
			if cmd.Flags().Changed("league") {
				rows[league] = table.Resolve(league)
			} else {
				rows["(default)"] = table.Resolve("")
				for _, l := range table.Leagues() {
					rows[l] = table.Resolve(l)
				}
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(out, rows)
			}

			names := make([]string, 0, len(rows))
			for name := range rows {
				names = append(names, name)
			}
			sort.Strings(names)

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprint(w, "LEAGUE")
			for _, m := range models.Markets {
				fmt.Fprintf(w, "\t%s", m)
			}
			fmt.Fprintln(w)
			for _, name := range names {
				fmt.Fprint(w, name)
				for _, m := range models.Markets {
					fmt.Fprintf(w, "\t%.2f", rows[name][m.String()])
				}
				fmt.Fprintln(w)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&league, "league", "l", "", "Only show this league")
	return cmd
}
