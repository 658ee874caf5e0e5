package scenario

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigladder/erin/internal/distribution"
	"github.com/bigladder/erin/internal/results"
)

type fakeOccurrenceCache struct {
	stats map[string]results.ScenarioOccurrenceStats
	gets  int
	puts  int
}

func newFakeOccurrenceCache() *fakeOccurrenceCache {
	return &fakeOccurrenceCache{stats: make(map[string]results.ScenarioOccurrenceStats)}
}

func (c *fakeOccurrenceCache) Get(key string) (results.ScenarioOccurrenceStats, bool, error) {
	c.gets++
	s, ok := c.stats[key]
	return s, ok, nil
}

func (c *fakeOccurrenceCache) Put(key string, stats results.ScenarioOccurrenceStats, ttl time.Duration) error {
	c.puts++
	c.stats[key] = stats
	return nil
}

func TestRunScenarioCachedMissesThenHitsWithoutSnapshotsOnHit(t *testing.T) {
	m, _, _ := buildSourceLoadModel()
	ds := distribution.NewSystem(1)
	require.NoError(t, ds.Add(distribution.Distribution{Tag: "occ", Type: distribution.Fixed, Value: 1000}))
	sc := Scenario{Tag: "s1", DurationS: 10, OccurrenceDistTag: "occ", MaxOccurrences: 2}

	cache := newFakeOccurrenceCache()
	keyFn := func(i int) string { return fmt.Sprintf("key-%d", i) }

	first, err := RunScenarioCached(ds, m, sc, nil, nil, nil, 100000, cache, keyFn, time.Hour)
	require.NoError(t, err)
	require.Len(t, first, 2)
	for _, occ := range first {
		assert.NotEmpty(t, occ.Snapshots, "a cache-miss occurrence should carry its full snapshot trace")
	}
	assert.Equal(t, 2, cache.puts)

	second, err := RunScenarioCached(ds, m, sc, nil, nil, nil, 100000, cache, keyFn, time.Hour)
	require.NoError(t, err)
	require.Len(t, second, 2)
	for i, occ := range second {
		assert.Nil(t, occ.Snapshots, "a cache-hit occurrence should not carry a snapshot trace")
		assert.Equal(t, first[i].Stats, occ.Stats)
	}
	assert.Equal(t, 2, cache.puts, "a fully cached second run should not write back to the cache")
}

func TestRunScenarioCachedWithNilCacheBehavesLikeRunScenario(t *testing.T) {
	m, _, _ := buildSourceLoadModel()
	ds := distribution.NewSystem(1)
	require.NoError(t, ds.Add(distribution.Distribution{Tag: "occ", Type: distribution.Fixed, Value: 1000}))
	sc := Scenario{Tag: "s1", DurationS: 10, OccurrenceDistTag: "occ", MaxOccurrences: 1}

	occurrences, err := RunScenarioCached(ds, m, sc, nil, nil, nil, 100000, nil, func(int) string { return "" }, time.Hour)
	require.NoError(t, err)
	require.Len(t, occurrences, 1)
	assert.NotEmpty(t, occurrences[0].Snapshots)
}
