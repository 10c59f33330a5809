package predictor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pick-advisor/internal/models"
)

func TestCacheKeyString(t *testing.T) {
	key := CacheKey{Market: models.MarketOver25, League: "LaLiga", Home: "Sevilla", Away: "Betis", Odds: float64Ptr(1.85)}
	assert.Equal(t, "over25|LaLiga|Sevilla|Betis|1.8500", key.String())

	key.Odds = nil
	assert.Equal(t, "over25|LaLiga|Sevilla|Betis|none", key.String())
}

func TestPredictionCacheMissThenHit(t *testing.T) {
	cache := NewPredictionCache(time.Hour, 10)
	defer cache.Clear()

	key := CacheKey{Market: models.MarketBTTS, League: "Liga MX", Home: "América", Away: "Chivas"}

	_, ok := cache.Get(key)
	assert.False(t, ok)

	cache.Set(key, &models.Prediction{Probability: float64Ptr(0.58)})

	got, ok := cache.Get(key)
	require.True(t, ok)
	assert.InDelta(t, 0.58, *got.Probability, 1e-9)

	hits, misses, ratio := cache.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 0.5, ratio, 1e-9)
}

func TestPredictionCacheOddsPartOfKey(t *testing.T) {
	cache := NewPredictionCache(time.Hour, 10)

	base := CacheKey{Market: models.MarketOver25, League: "LaLiga", Home: "A", Away: "B", Odds: float64Ptr(1.9)}
	cache.Set(base, &models.Prediction{Probability: float64Ptr(0.5)})

	other := base
	other.Odds = float64Ptr(2.1)
	_, ok := cache.Get(other)
	assert.False(t, ok)
}

func TestPredictionCacheMaxSize(t *testing.T) {
	cache := NewPredictionCache(time.Hour, 1)

	cache.Set(CacheKey{Market: models.MarketBTTS, Home: "A", Away: "B"}, &models.Prediction{})
	cache.Set(CacheKey{Market: models.MarketBTTS, Home: "C", Away: "D"}, &models.Prediction{})

	assert.Equal(t, 1, cache.ItemCount())
}

func TestPredictionCacheExpiry(t *testing.T) {
	cache := NewPredictionCache(20*time.Millisecond, 10)
	key := CacheKey{Market: models.MarketBTTS, Home: "A", Away: "B"}

	cache.Set(key, &models.Prediction{Probability: float64Ptr(0.5)})
	time.Sleep(40 * time.Millisecond)

	_, ok := cache.Get(key)
	assert.False(t, ok)
}

func TestPredictionCacheClear(t *testing.T) {
	cache := NewPredictionCache(time.Hour, 10)
	key := CacheKey{Market: models.MarketBTTS, Home: "A", Away: "B"}
	cache.Set(key, &models.Prediction{})
	cache.Get(key)

	cache.Clear()

	assert.Equal(t, 0, cache.ItemCount())
	hits, misses, _ := cache.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}
