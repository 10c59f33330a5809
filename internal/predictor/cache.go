package predictor

import (
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/pick-advisor/internal/metrics"
	"github.com/yourusername/pick-advisor/internal/models"
)

// CacheKey identifies one provider prediction
type CacheKey struct {
	Market models.Market
	League string
	Home   string
	Away   string
	Odds   *float64
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	odds := "none"
	if k.Odds != nil {
		odds = fmt.Sprintf("%.4f", *k.Odds)
	}
	return fmt.Sprintf("%s|%s|%s|%s|%s", k.Market, k.League, k.Home, k.Away, odds)
}

// keyFor builds the cache key of a request
func keyFor(req Request) CacheKey {
	return CacheKey{Market: req.Market, League: req.League, Home: req.Home, Away: req.Away, Odds: req.Odds}
}

// PredictionCache provides in-memory caching for provider predictions
type PredictionCache struct {
	cache   *cache.Cache
	ttl     time.Duration
	maxSize int

	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewPredictionCache creates a new prediction cache
func NewPredictionCache(ttl time.Duration, maxSize int) *PredictionCache {
	return &PredictionCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached prediction. The returned value is a copy.
func (pc *PredictionCache) Get(key CacheKey) (*models.Prediction, bool) {
	item, found := pc.cache.Get(key.String())
	pred, ok := item.(models.Prediction)
	hit := found && ok

	pc.mu.Lock()
	if hit {
		pc.hitCount++
	} else {
		pc.missCount++
	}
	pc.mu.Unlock()
	metrics.RecordCacheLookup(hit)

	if !hit {
		return nil, false
	}
	return &pred, true
}

// Set stores a prediction in cache. When the cache is full, expired entries are
// evicted first and the entry is dropped if there is still no room.
func (pc *PredictionCache) Set(key CacheKey, prediction *models.Prediction) {
	if prediction == nil {
		return
	}
	if pc.maxSize > 0 && pc.cache.ItemCount() >= pc.maxSize {
		pc.cache.DeleteExpired()
		if pc.cache.ItemCount() >= pc.maxSize {
			return
		}
	}
	pc.cache.Set(key.String(), *prediction, pc.ttl)
}

// Clear flushes the entire cache
func (pc *PredictionCache) Clear() {
	pc.cache.Flush()

	pc.mu.Lock()
	pc.hitCount = 0
	pc.missCount = 0
	pc.mu.Unlock()
}

// Stats returns cache statistics
func (pc *PredictionCache) Stats() (hits, misses uint64, ratio float64) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	hits = pc.hitCount
	misses = pc.missCount
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (pc *PredictionCache) ItemCount() int {
	return pc.cache.ItemCount()
}
