package trend

import (
	"tad/internal/models"
	"tad/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultPolicy() structures.DetectorConfig {
	return structures.DetectorConfig{
		RelativeThresholdPct: 50,
		WindowHours:          4,
		AbsoluteThreshold:    100000,
	}
}

func snapshotAt(id string, views int64, at time.Time) models.MetricSnapshot {
	return models.MetricSnapshot{
		EntityID:    id,
		Title:       "video " + id,
		ViewCount:   views,
		CollectedAt: at,
	}
}

func lookupTable(priors ...models.MetricSnapshot) LookupPrior {
	byID := make(map[string]*models.MetricSnapshot, len(priors))
	for i := range priors {
		byID[priors[i].EntityID] = &priors[i]
	}
	return func(entityID string) *models.MetricSnapshot {
		return byID[entityID]
	}
}

func TestDetect_RelativeGrowthInsideWindow(t *testing.T) {
	now := time.Now()
	prior := snapshotAt("v1", 1000, now.Add(-2*time.Hour))
	current := snapshotAt("v1", 1600, now)

	alerts := Detect([]models.MetricSnapshot{current}, lookupTable(prior), defaultPolicy())

	require.Len(t, alerts, 1)
	a := alerts[0]
	assert.Equal(t, "v1", a.EntityID)
	assert.True(t, a.RelativeDefined)
	assert.InDelta(t, 60.0, a.RelativeGrowthPct, 0.001)
	assert.InDelta(t, 2.0, a.ElapsedHours, 0.001)
	assert.Equal(t, int64(600), a.AbsoluteDelta)
}

func TestDetect_RelativeGrowthOutsideWindow(t *testing.T) {
	now := time.Now()
	prior := snapshotAt("v1", 1000, now.Add(-6*time.Hour))
	current := snapshotAt("v1", 1600, now)

	alerts := Detect([]models.MetricSnapshot{current}, lookupTable(prior), defaultPolicy())
	assert.Empty(t, alerts)
}

func TestDetect_AbsoluteFallbackWithZeroPrior(t *testing.T) {
	now := time.Now()
	prior := snapshotAt("v1", 0, now.Add(-1*time.Hour))
	current := snapshotAt("v1", 150000, now)

	alerts := Detect([]models.MetricSnapshot{current}, lookupTable(prior), defaultPolicy())

	require.Len(t, alerts, 1)
	a := alerts[0]
	assert.False(t, a.RelativeDefined)
	assert.Zero(t, a.RelativeGrowthPct)
	assert.Equal(t, int64(150000), a.AbsoluteDelta)
}

func TestDetect_AbsoluteOverridesStaleWindow(t *testing.T) {
	// Outside the relative window, but the raw delta is big enough on its own.
	now := time.Now()
	prior := snapshotAt("v1", 1000000, now.Add(-12*time.Hour))
	current := snapshotAt("v1", 1200000, now)

	alerts := Detect([]models.MetricSnapshot{current}, lookupTable(prior), defaultPolicy())

	require.Len(t, alerts, 1)
	assert.Equal(t, int64(200000), alerts[0].AbsoluteDelta)
}

func TestDetect_NoBaselineSkipped(t *testing.T) {
	current := snapshotAt("brand-new", 500000, time.Now())

	alerts := Detect([]models.MetricSnapshot{current}, lookupTable(), defaultPolicy())
	assert.Empty(t, alerts)
}

func TestDetect_NonPositiveElapsedSkipped(t *testing.T) {
	now := time.Now()

	// Prior collected after the current sample: clock anomaly in the data.
	prior := snapshotAt("v1", 1000, now.Add(time.Hour))
	current := snapshotAt("v1", 900000, now)

	alerts := Detect([]models.MetricSnapshot{current}, lookupTable(prior), defaultPolicy())
	assert.Empty(t, alerts)

	// Identical timestamps are skipped too.
	prior = snapshotAt("v2", 1000, now)
	current = snapshotAt("v2", 900000, now)

	alerts = Detect([]models.MetricSnapshot{current}, lookupTable(prior), defaultPolicy())
	assert.Empty(t, alerts)
}

func TestDetect_BelowBothThresholds(t *testing.T) {
	now := time.Now()
	prior := snapshotAt("v1", 1000, now.Add(-2*time.Hour))
	current := snapshotAt("v1", 1400, now)

	alerts := Detect([]models.MetricSnapshot{current}, lookupTable(prior), defaultPolicy())
	assert.Empty(t, alerts)
}

func TestDetect_ThresholdsAreStrict(t *testing.T) {
	now := time.Now()

	// Exactly 50% growth does not cross the "> threshold" line.
	prior := snapshotAt("v1", 1000, now.Add(-2*time.Hour))
	current := snapshotAt("v1", 1500, now)
	alerts := Detect([]models.MetricSnapshot{current}, lookupTable(prior), defaultPolicy())
	assert.Empty(t, alerts)

	// Exactly the absolute threshold does not either.
	prior = snapshotAt("v2", 1000000, now.Add(-12*time.Hour))
	current = snapshotAt("v2", 1100000, now)
	alerts = Detect([]models.MetricSnapshot{current}, lookupTable(prior), defaultPolicy())
	assert.Empty(t, alerts)
}

func TestDetect_MixedBatch(t *testing.T) {
	now := time.Now()
	priors := []models.MetricSnapshot{
		snapshotAt("hot", 1000, now.Add(-1*time.Hour)),
		snapshotAt("flat", 5000, now.Add(-1*time.Hour)),
		snapshotAt("viral", 200000, now.Add(-8*time.Hour)),
	}
	current := []models.MetricSnapshot{
		snapshotAt("hot", 2000, now),
		snapshotAt("flat", 5100, now),
		snapshotAt("viral", 400000, now),
		snapshotAt("new", 999999, now),
	}

	alerts := Detect(current, lookupTable(priors...), defaultPolicy())

	require.Len(t, alerts, 2)
	ids := []string{alerts[0].EntityID, alerts[1].EntityID}
	assert.Contains(t, ids, "hot")
	assert.Contains(t, ids, "viral")
}
