package predictor

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pick-advisor/internal/config"
	"github.com/yourusername/pick-advisor/internal/logger"
	"github.com/yourusername/pick-advisor/internal/models"
)

// CachedClient wraps a Provider with prediction caching.
// Only Predict is cached; team lists and health always go to the provider.
type CachedClient struct {
	provider Provider
	cache    *PredictionCache
	logger   *logger.ProviderLogger
}

// NewCachedClient wraps provider with a TTL cache
func NewCachedClient(provider Provider, ttl time.Duration, maxSize int, log *logrus.Logger) *CachedClient {
	return &CachedClient{
		provider: provider,
		cache:    NewPredictionCache(ttl, maxSize),
		logger:   logger.NewProviderLogger(log),
	}
}

// New builds the provider configured by cfg, cached when enabled
func New(cfg *config.ProviderConfig, log *logrus.Logger) Provider {
	client := NewClient(cfg, log)
	if !cfg.CacheEnabled {
		return client
	}
	return NewCachedClient(client, cfg.CacheTTL(), cfg.CacheMaxSize, log)
}

// Predict retrieves a prediction with caching
func (c *CachedClient) Predict(ctx context.Context, req Request) (*models.Prediction, error) {
	start := time.Now()
	key := keyFor(req)

	if cached, ok := c.cache.Get(key); ok {
		c.logger.LogPredictionRequest("", req.Market.String(), req.League, req.Home, req.Away, true, msSince(start))
		return cached, nil
	}

	prediction, err := c.provider.Predict(ctx, req)
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, prediction)
	return prediction, nil
}

// Markets is not cached
func (c *CachedClient) Markets(ctx context.Context, league string) (*MarketsResponse, error) {
	return c.provider.Markets(ctx, league)
}

// HealthCheck is not cached
func (c *CachedClient) HealthCheck(ctx context.Context) error {
	return c.provider.HealthCheck(ctx)
}

// Cache exposes the underlying cache
func (c *CachedClient) Cache() *PredictionCache {
	return c.cache
}
