// Package main provides the entry point for the pick advisor API server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/pick-advisor/internal/config"
	"github.com/yourusername/pick-advisor/internal/health"
	"github.com/yourusername/pick-advisor/internal/logger"
	"github.com/yourusername/pick-advisor/internal/metrics"
	"github.com/yourusername/pick-advisor/internal/models"
	"github.com/yourusername/pick-advisor/internal/pick"
	"github.com/yourusername/pick-advisor/internal/predictor"
	"github.com/yourusername/pick-advisor/internal/scheduler"
	"github.com/yourusername/pick-advisor/internal/server"
	"github.com/yourusername/pick-advisor/internal/threshold"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:          "pickd",
	Short:        "Pick advisor API server",
	Long:         `Serves pick evaluations over HTTP and WebSocket sessions, backed by the prediction provider.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/config.yaml", "Path to configuration file")
}

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return nil, fmt.Errorf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			return nil, fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := config.ValidateEnvironment(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	cfg, err := loadConfig(parent)
	if err != nil {
		return err
	}

	appLog := logger.NewLoggerForEnvironment(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
		"commit":      GitCommit,
	}).Info("Pick advisor starting")

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	table, err := threshold.Load(cfg.Thresholds.File)
	if err != nil {
		return fmt.Errorf("failed to load thresholds: %w", err)
	}

	markets := make([]models.Market, 0, len(cfg.Markets))
	for _, raw := range cfg.Markets {
		m, err := models.ParseMarket(raw)
		if err != nil {
			return err
		}
		markets = append(markets, m)
	}

	provider := predictor.New(&cfg.Provider, appLog)
	engine := pick.NewEngine(table, appLog)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Port:        cfg.Server.HealthPort,
		Logger:      appLog,
		Provider:    provider,
	})
	healthServer.Start(ctx)

	jobs := scheduler.NewScheduler(appLog)
	if err := jobs.ScheduleProviderProbe(cfg.Scheduler.ProviderProbe, provider, healthServer.SetReady); err != nil {
		return err
	}
	jobs.Probe(ctx, provider, healthServer.SetReady)
	if err := jobs.Start(); err != nil {
		return err
	}
	defer jobs.Stop()

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	api := server.New(server.Config{
		Addr:           cfg.ServerAddress(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Markets:        markets,
		MetricsPath:    metricsPath,
		Engine:         engine,
		Thresholds:     table,
		Provider:       provider,
		Logger:         appLog,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- api.Start()
	}()

	select {
	case <-ctx.Done():
		appLog.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("api server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := api.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("API server shutdown failed")
	}
	_ = healthServer.Shutdown()

	appLog.Info("Pick advisor stopped")
	return nil
}
