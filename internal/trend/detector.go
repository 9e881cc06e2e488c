package trend

import (
	"tad/internal/models"
	"tad/internal/structures"
)

// LookupPrior returns the most recently persisted snapshot for an entity,
// or nil when the entity has never been seen.
type LookupPrior func(entityID string) *models.MetricSnapshot

// Detect compares each current snapshot against its stored baseline and
// returns the entities trending right now.
//
// Per entity:
//   - no prior snapshot: new this run, skipped (no baseline is not an error)
//   - elapsed time <= 0: clock anomaly in the data, skipped
//   - prior view count 0: relative growth undefined, only the absolute
//     threshold applies
//
// The alert rule is an OR: relative growth above the threshold inside the
// window, or absolute view delta above the absolute threshold.
func Detect(current []models.MetricSnapshot, lookup LookupPrior, policy structures.DetectorConfig) []models.TrendingAlert {
	var alerts []models.TrendingAlert

	for i := range current {
		cur := &current[i]
		prior := lookup(cur.EntityID)
		if prior == nil {
			continue
		}

		elapsed := cur.CollectedAt.Sub(prior.CollectedAt).Hours()
		if elapsed <= 0 {
			continue
		}

		delta := cur.ViewCount - prior.ViewCount

		var relPct float64
		relDefined := prior.ViewCount > 0
		if relDefined {
			relPct = float64(delta) / float64(prior.ViewCount) * 100
		}

		relHit := relDefined && relPct > policy.RelativeThresholdPct && elapsed <= policy.WindowHours
		absHit := delta > policy.AbsoluteThreshold
		if !relHit && !absHit {
			continue
		}

		alerts = append(alerts, models.TrendingAlert{
			EntityID:          cur.EntityID,
			Previous:          *prior,
			Current:           *cur,
			ElapsedHours:      elapsed,
			AbsoluteDelta:     delta,
			RelativeGrowthPct: relPct,
			RelativeDefined:   relDefined,
		})
	}

	return alerts
}
