package database

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bigladder/erin/internal/results"
)

// OccurrenceCache memoizes a scenario occurrence's computed stats keyed by
// a hash of (model, scenario, occurrence index, seed). Since occurrences
// are independent and could be parallelized by the driver, a re-run or a
// parallel batch worker can skip recomputation on a cache hit.
type OccurrenceCache interface {
	Get(key string) (stats results.ScenarioOccurrenceStats, ok bool, err error)
	Put(key string, stats results.ScenarioOccurrenceStats, ttl time.Duration) error
}

// OccurrenceCacheKey derives a stable cache key from the inputs that
// determine an occurrence's outcome.
func OccurrenceCacheKey(modelTag, scenarioTag string, occurrenceIndex int, seed int64) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d|%d", modelTag, scenarioTag, occurrenceIndex, seed)))
	return hex.EncodeToString(h[:])
}

type redisOccurrenceCache struct {
	client *RedisClient
}

// NewRedisOccurrenceCache backs an OccurrenceCache with client.
func NewRedisOccurrenceCache(client *RedisClient) OccurrenceCache {
	return &redisOccurrenceCache{client: client}
}

func (c *redisOccurrenceCache) Get(key string) (results.ScenarioOccurrenceStats, bool, error) {
	raw, ok, err := c.client.Get(key)
	if err != nil || !ok {
		return results.ScenarioOccurrenceStats{}, false, err
	}
	var stats results.ScenarioOccurrenceStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return results.ScenarioOccurrenceStats{}, false, err
	}
	return stats, true, nil
}

func (c *redisOccurrenceCache) Put(key string, stats results.ScenarioOccurrenceStats, ttl time.Duration) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(key, raw, ttl)
}

// noopOccurrenceCache is used when no Redis address is configured: every
// Get misses, every Put succeeds silently, and the scenario driver
// recomputes every occurrence.
type noopOccurrenceCache struct{}

// NewNoopOccurrenceCache returns the always-miss cache used when Redis is
// not configured (config.Config.RedisConfigured() is false).
func NewNoopOccurrenceCache() OccurrenceCache {
	return noopOccurrenceCache{}
}

func (noopOccurrenceCache) Get(string) (results.ScenarioOccurrenceStats, bool, error) {
	return results.ScenarioOccurrenceStats{}, false, nil
}

func (noopOccurrenceCache) Put(string, results.ScenarioOccurrenceStats, time.Duration) error {
	return nil
}
