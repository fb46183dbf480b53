package features

import (
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/keiba-features/internal/metrics"
	"github.com/yourusername/keiba-features/internal/models"
)

// rollupKey identifies one cached population rollup.
type rollupKey struct {
	Generator string
	Operation string
	SinceYear int
	MinRaces  int
	Segment   string
}

// String returns string representation of cache key
func (k rollupKey) String() string {
	return fmt.Sprintf("%s:%s:%d:%d:%s", k.Generator, k.Operation, k.SinceYear, k.MinRaces, k.Segment)
}

// RollupCache provides in-memory TTL caching for population rollups and
// ranked populations, which otherwise re-scan the full segment population
// on every resolve.
type RollupCache struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewRollupCache creates a new rollup cache
func NewRollupCache(ttl time.Duration) *RollupCache {
	return &RollupCache{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// GetStats retrieves a cached rollup, nil on miss.
func (rc *RollupCache) GetStats(key rollupKey) []models.AggregateStat {
	if rc == nil {
		return nil
	}
	if value, found := rc.cache.Get(key.String()); found {
		if stats, ok := value.([]models.AggregateStat); ok {
			metrics.RecordCacheHit()
			return stats
		}
	}
	metrics.RecordCacheMiss()
	return nil
}

// SetStats stores a rollup.
func (rc *RollupCache) SetStats(key rollupKey, stats []models.AggregateStat) {
	if rc == nil {
		return
	}
	rc.cache.Set(key.String(), stats, rc.ttl)
}

// GetRanked retrieves a cached ranked population, nil on miss.
func (rc *RollupCache) GetRanked(key rollupKey) []models.RankedStat {
	if rc == nil {
		return nil
	}
	if value, found := rc.cache.Get(key.String()); found {
		if ranked, ok := value.([]models.RankedStat); ok {
			metrics.RecordCacheHit()
			return ranked
		}
	}
	metrics.RecordCacheMiss()
	return nil
}

// SetRanked stores a ranked population.
func (rc *RollupCache) SetRanked(key rollupKey, ranked []models.RankedStat) {
	if rc == nil {
		return
	}
	rc.cache.Set(key.String(), ranked, rc.ttl)
}

// Flush drops every cached rollup.
func (rc *RollupCache) Flush() {
	if rc == nil {
		return
	}
	rc.cache.Flush()
}
