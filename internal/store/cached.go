package store

import (
	"context"
	"tad/internal/models"
	"tad/internal/providers"
	"tad/internal/structures"

	json "github.com/goccy/go-json"
)

const snapshotKeyPrefix = "snap:"

// CachedStore keeps the latest snapshot per entity in freecache so growth
// detection does not hit Postgres once per entity on every monitoring run.
// Upserts write through, so a baseline read right after a run is fresh.
type CachedStore struct {
	inner SnapshotStoreInterface
	cache providers.CacheProviderInterface
}

func NewCachedStore(inner SnapshotStoreInterface, cache providers.CacheProviderInterface) *CachedStore {
	return &CachedStore{inner: inner, cache: cache}
}

// NewSnapshotStore assembles the store stack: Postgres, wrapped with the
// read cache when caching is enabled.
func NewSnapshotStore(conf *structures.Config, logger providers.Logger, compressor CompressorInterface, cache providers.CacheProviderInterface) (SnapshotStoreInterface, error) {
	pg, err := NewPostgresStore(conf, logger, compressor)
	if err != nil {
		return nil, err
	}
	if !conf.Cache.Enabled {
		return pg, nil
	}
	return NewCachedStore(pg, cache), nil
}

func (cs *CachedStore) Latest(ctx context.Context, entityID string) (*models.MetricSnapshot, error) {
	if data, ok := cs.cache.Get(snapshotKeyPrefix + entityID); ok {
		var snap models.MetricSnapshot
		if err := json.Unmarshal(data, &snap); err == nil {
			return &snap, nil
		}
	}

	snap, err := cs.inner.Latest(ctx, entityID)
	if err != nil || snap == nil {
		return snap, err
	}
	cs.put(snap)
	return snap, nil
}

func (cs *CachedStore) UpsertSnapshots(ctx context.Context, batch []models.MetricSnapshot) error {
	if err := cs.inner.UpsertSnapshots(ctx, batch); err != nil {
		return err
	}
	cs.putBatch(batch)
	return nil
}

func (cs *CachedStore) UpsertAggregateReport(ctx context.Context, report *models.AggregateReport) error {
	return cs.inner.UpsertAggregateReport(ctx, report)
}

func (cs *CachedStore) UpsertAll(ctx context.Context, batch []models.MetricSnapshot, report *models.AggregateReport) error {
	if err := cs.inner.UpsertAll(ctx, batch, report); err != nil {
		return err
	}
	cs.putBatch(batch)
	return nil
}

func (cs *CachedStore) Ping(ctx context.Context) error {
	return cs.inner.Ping(ctx)
}

func (cs *CachedStore) Close() error {
	return cs.inner.Close()
}

func (cs *CachedStore) putBatch(batch []models.MetricSnapshot) {
	for i := range batch {
		cs.put(&batch[i])
	}
}

// put mirrors the store's collected_at guard: an out-of-order batch must
// not regress a cached baseline the database kept.
func (cs *CachedStore) put(snap *models.MetricSnapshot) {
	key := snapshotKeyPrefix + snap.EntityID
	if existing, ok := cs.cache.Get(key); ok {
		var cached models.MetricSnapshot
		if err := json.Unmarshal(existing, &cached); err == nil && cached.CollectedAt.After(snap.CollectedAt) {
			return
		}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	cs.cache.Set(key, data)
}
