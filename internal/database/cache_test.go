package database

import (
	"testing"
	"time"

	"github.com/bigladder/erin/internal/results"
)

func TestOccurrenceCacheKeyIsDeterministic(t *testing.T) {
	a := OccurrenceCacheKey("model-a", "scenario-1", 3, 42)
	b := OccurrenceCacheKey("model-a", "scenario-1", 3, 42)
	if a != b {
		t.Fatalf("OccurrenceCacheKey not deterministic: %q != %q", a, b)
	}
}

func TestOccurrenceCacheKeyDistinguishesInputs(t *testing.T) {
	base := OccurrenceCacheKey("model-a", "scenario-1", 3, 42)
	variants := []string{
		OccurrenceCacheKey("model-b", "scenario-1", 3, 42),
		OccurrenceCacheKey("model-a", "scenario-2", 3, 42),
		OccurrenceCacheKey("model-a", "scenario-1", 4, 42),
		OccurrenceCacheKey("model-a", "scenario-1", 3, 43),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collided with base key", i)
		}
	}
}

func TestNoopOccurrenceCacheAlwaysMisses(t *testing.T) {
	c := NewNoopOccurrenceCache()
	key := OccurrenceCacheKey("m", "s", 0, 1)

	if _, ok, err := c.Get(key); ok || err != nil {
		t.Fatalf("Get on empty noop cache = (_, %v, %v), want (_, false, nil)", ok, err)
	}

	stats := results.ScenarioOccurrenceStats{DurationS: 10, UptimeS: 10}
	if err := c.Put(key, stats, time.Minute); err != nil {
		t.Fatalf("Put on noop cache returned error: %v", err)
	}

	if _, ok, err := c.Get(key); ok || err != nil {
		t.Fatalf("Get after Put on noop cache = (_, %v, %v), want (_, false, nil) — noop must never remember", ok, err)
	}
}
