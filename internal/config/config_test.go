package config

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

const (
	validConfigPath       = "testdata/valid_config.yaml"
	expansionConfigPath   = "testdata/expansion_config.yaml"
	invalidConfigPath     = "testdata/invalid_config.yaml"
	nonexistentConfigPath = "testdata/nonexistent_config.yaml"
	expectedNoErrorMsg    = "expected no error, got %v"
	pickAdvisorName       = "pick-advisor"
	testAppName           = "test-app"
)

func loadValid(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	return cfg
}

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg := loadValid(t)

	if cfg.App.Name != pickAdvisorName {
		t.Errorf("expected app name '%s', got '%s'", pickAdvisorName, cfg.App.Name)
	}
	if !cfg.IsDevelopment() {
		t.Errorf("expected development environment, got '%s'", cfg.App.Environment)
	}
	if cfg.Provider.URL != "http://localhost:8000" {
		t.Errorf("unexpected provider url '%s'", cfg.Provider.URL)
	}
	if cfg.Provider.Timeout().Seconds() != 10 {
		t.Errorf("expected 10s timeout, got %s", cfg.Provider.Timeout())
	}
	if len(cfg.Markets) != 4 {
		t.Errorf("expected 4 markets, got %d", len(cfg.Markets))
	}
	if cfg.ServerAddress() != ":8080" {
		t.Errorf("expected server address ':8080', got '%s'", cfg.ServerAddress())
	}
	if err := Validate(cfg); err != nil {
		t.Errorf(expectedNoErrorMsg, err)
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	if _, err := Load(nonexistentConfigPath); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("PICK_ADVISOR_APP_NAME", testAppName)
	t.Setenv("PICK_ADVISOR_PROVIDER_TIMEOUT_SECONDS", "3")

	cfg := loadValid(t)

	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
	if cfg.Provider.TimeoutSeconds != 3 {
		t.Errorf("expected timeout override 3, got %d", cfg.Provider.TimeoutSeconds)
	}
}

// TestLoadConfigExpandsPlaceholders tests ${VAR} expansion in the YAML file
func TestLoadConfigExpandsPlaceholders(t *testing.T) {
	t.Setenv("TEST_PROVIDER_KEY", "expanded_secret_value")

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.Provider.APIKey != "expanded_secret_value" {
		t.Errorf("expected expanded api key, got '%s'", cfg.Provider.APIKey)
	}
	if cfg.Provider.CacheEnabled {
		t.Error("expected cache to be disabled")
	}
	if err := Validate(cfg); err != nil {
		t.Errorf(expectedNoErrorMsg, err)
	}
}

// TestLoadWithDefaultsMissingFile falls back to defaults when no file exists
func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Environment != "development" {
		t.Errorf("expected default environment, got '%s'", cfg.App.Environment)
	}
	if cfg.Provider.Sport != "futbol" {
		t.Errorf("expected default sport 'futbol', got '%s'", cfg.Provider.Sport)
	}
	if cfg.Scheduler.ProviderProbe != "@every 30s" {
		t.Errorf("unexpected default probe schedule '%s'", cfg.Scheduler.ProviderProbe)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

// TestValidateInvalidConfig reports every broken field
func TestValidateInvalidConfig(t *testing.T) {
	cfg, err := Load(invalidConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}

	for _, field := range []string{"Environment", "LogLevel", "URL", "TimeoutSeconds", "Markets"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("expected validation error to mention '%s', got: %v", field, err)
		}
	}
}

// TestValidateCrossField tests rules spanning several fields
func TestValidateCrossField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad cron", func(c *Config) { c.Scheduler.ProviderProbe = "every now and then" }},
		{"same ports", func(c *Config) { c.Server.HealthPort = c.Server.Port }},
		{"metrics path", func(c *Config) { c.Metrics.Path = "metrics" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadValid(t)
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

// TestValidateEnvironmentProduction tests production-only requirements
func TestValidateEnvironmentProduction(t *testing.T) {
	cfg := loadValid(t)
	cfg.App.Environment = "production"

	if err := ValidateEnvironment(cfg); err == nil {
		t.Error("expected localhost provider to be rejected in production")
	}

	cfg.Provider.URL = "https://predictions.internal"
	cfg.Server.AllowedOrigins = []string{"https://picks.internal"}
	cfg.Provider.APIKey = "YOUR_API_KEY"
	if err := ValidateEnvironment(cfg); err == nil {
		t.Error("expected placeholder api key to be rejected in production")
	}

	cfg.Provider.APIKey = "k-8f2a91"
	if err := ValidateEnvironment(cfg); err != nil {
		t.Errorf(expectedNoErrorMsg, err)
	}
}

// TestReloadFromEnv replaces the config from PICK_ADVISOR_CONFIG_PATH
func TestReloadFromEnv(t *testing.T) {
	cfg := loadValid(t)
	t.Setenv("TEST_PROVIDER_KEY", "reloaded")
	t.Setenv("PICK_ADVISOR_CONFIG_PATH", expansionConfigPath)

	if err := ReloadFromEnv(cfg); err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected reloaded port 9090, got %d", cfg.Server.Port)
	}
}

type fakeSecrets struct {
	out *secretsmanager.GetSecretValueOutput
	err error
}

func (f fakeSecrets) GetSecretValue(context.Context, *secretsmanager.GetSecretValueInput, ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	return f.out, f.err
}

// TestSecretsOverlay tests applying Secrets Manager values onto the config
func TestSecretsOverlay(t *testing.T) {
	cfg := loadValid(t)
	client := fakeSecrets{out: &secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"provider_api_key":"from-aws"}`),
	}}

	secrets, err := fetchSecrets(context.Background(), client, "pick-advisor/provider")
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	overlaySecretsOnConfig(cfg, secrets)

	if cfg.Provider.APIKey != "from-aws" {
		t.Errorf("expected api key from secret, got '%s'", cfg.Provider.APIKey)
	}
	if cfg.Provider.URL != "http://localhost:8000" {
		t.Errorf("empty secret fields must not override, got '%s'", cfg.Provider.URL)
	}
}

// TestSecretsErrors tests failing and empty secrets
func TestSecretsErrors(t *testing.T) {
	_, err := fetchSecrets(context.Background(), fakeSecrets{err: errors.New("denied")}, "x")
	if err == nil {
		t.Error("expected error from failing client")
	}

	_, err = fetchSecrets(context.Background(), fakeSecrets{out: &secretsmanager.GetSecretValueOutput{}}, "x")
	if !errors.Is(err, errNoSecretData) {
		t.Errorf("expected errNoSecretData, got %v", err)
	}

	_, err = parseSecretData(&secretsmanager.GetSecretValueOutput{SecretBinary: []byte("{not json")})
	if err == nil {
		t.Error("expected parse error for malformed binary secret")
	}
}
