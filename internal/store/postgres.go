package store

import (
	"context"
	"database/sql"
	"fmt"
	"tad/internal/models"
	"tad/internal/providers"
	"tad/internal/structures"
	"time"

	_ "github.com/lib/pq"
)

// SnapshotStoreInterface is the durable side of the pipeline: latest-known
// snapshot per entity plus one aggregate report row per calendar date.
// Both upserts are all-or-nothing across their whole input; UpsertAll
// composes them into a single transaction for full-mode runs.
type SnapshotStoreInterface interface {
	Latest(ctx context.Context, entityID string) (*models.MetricSnapshot, error)
	UpsertSnapshots(ctx context.Context, batch []models.MetricSnapshot) error
	UpsertAggregateReport(ctx context.Context, report *models.AggregateReport) error
	UpsertAll(ctx context.Context, batch []models.MetricSnapshot, report *models.AggregateReport) error
	Ping(ctx context.Context) error
	Close() error
}

const upsertSnapshotSQL = `
	INSERT INTO metric_snapshots
		(entity_id, title, channel, category, url, view_count, like_count, comment_count, collected_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (entity_id) DO UPDATE SET
		title = EXCLUDED.title,
		channel = EXCLUDED.channel,
		category = EXCLUDED.category,
		url = EXCLUDED.url,
		view_count = EXCLUDED.view_count,
		like_count = EXCLUDED.like_count,
		comment_count = EXCLUDED.comment_count,
		collected_at = EXCLUDED.collected_at
	WHERE EXCLUDED.collected_at >= metric_snapshots.collected_at`

const upsertReportSQL = `
	INSERT INTO aggregate_reports
		(report_date, total_entities, average_metric, trending_count, payload)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (report_date) DO UPDATE SET
		total_entities = EXCLUDED.total_entities,
		average_metric = EXCLUDED.average_metric,
		trending_count = EXCLUDED.trending_count,
		payload = EXCLUDED.payload`

const latestSnapshotSQL = `
	SELECT entity_id, title, channel, category, url, view_count, like_count, comment_count, collected_at
	FROM metric_snapshots
	WHERE entity_id = $1`

type PostgresStore struct {
	db           *sql.DB
	compressor   CompressorInterface
	logger       providers.Logger
	queryTimeout time.Duration
}

func NewPostgresStore(conf *structures.Config, logger providers.Logger, compressor CompressorInterface) (*PostgresStore, error) {
	db, err := sql.Open("postgres", conf.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(conf.Database.MaxOpenConns)
	db.SetMaxIdleConns(conf.Database.MaxIdleConns)
	db.SetConnMaxLifetime(conf.Database.ConnMaxLifetime)

	logger.Infof(providers.TypeApp, "Database pool configured: open=%d idle=%d lifetime=%s",
		conf.Database.MaxOpenConns, conf.Database.MaxIdleConns, conf.Database.ConnMaxLifetime)

	return &PostgresStore{
		db:           db,
		compressor:   compressor,
		logger:       logger,
		queryTimeout: conf.Database.QueryTimeout,
	}, nil
}

// NewPostgresStoreWithDB wires an existing connection, used by tests.
func NewPostgresStoreWithDB(db *sql.DB, logger providers.Logger, compressor CompressorInterface, queryTimeout time.Duration) *PostgresStore {
	return &PostgresStore{
		db:           db,
		compressor:   compressor,
		logger:       logger,
		queryTimeout: queryTimeout,
	}
}

func (ps *PostgresStore) Latest(ctx context.Context, entityID string) (*models.MetricSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, ps.queryTimeout)
	defer cancel()

	var snap models.MetricSnapshot
	err := ps.db.QueryRowContext(ctx, latestSnapshotSQL, entityID).Scan(
		&snap.EntityID, &snap.Title, &snap.Channel, &snap.Category, &snap.URL,
		&snap.ViewCount, &snap.LikeCount, &snap.CommentCount, &snap.CollectedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot for %s: %w", entityID, err)
	}
	return &snap, nil
}

func (ps *PostgresStore) UpsertSnapshots(ctx context.Context, batch []models.MetricSnapshot) error {
	return ps.withTx(ctx, func(tx *sql.Tx) error {
		return upsertSnapshotsTx(ctx, tx, batch)
	})
}

func (ps *PostgresStore) UpsertAggregateReport(ctx context.Context, report *models.AggregateReport) error {
	return ps.withTx(ctx, func(tx *sql.Tx) error {
		return ps.upsertReportTx(ctx, tx, report)
	})
}

// UpsertAll commits the snapshot batch and the aggregate report in one
// transaction, so a full run either persists everything or nothing.
func (ps *PostgresStore) UpsertAll(ctx context.Context, batch []models.MetricSnapshot, report *models.AggregateReport) error {
	return ps.withTx(ctx, func(tx *sql.Tx) error {
		if err := upsertSnapshotsTx(ctx, tx, batch); err != nil {
			return err
		}
		return ps.upsertReportTx(ctx, tx, report)
	})
}

func (ps *PostgresStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, ps.queryTimeout)
	defer cancel()
	return ps.db.PingContext(ctx)
}

func (ps *PostgresStore) Close() error {
	ps.compressor.Close()
	return ps.db.Close()
}

func (ps *PostgresStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, ps.queryTimeout)
	defer cancel()

	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			ps.logger.Errorf(providers.TypeApp, "Rollback failed: %s", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func upsertSnapshotsTx(ctx context.Context, tx *sql.Tx, batch []models.MetricSnapshot) error {
	stmt, err := tx.PrepareContext(ctx, upsertSnapshotSQL)
	if err != nil {
		return fmt.Errorf("prepare snapshot upsert: %w", err)
	}
	defer stmt.Close()

	for i := range batch {
		s := &batch[i]
		_, err = stmt.ExecContext(ctx,
			s.EntityID, s.Title, s.Channel, s.Category, s.URL,
			s.ViewCount, s.LikeCount, s.CommentCount, s.CollectedAt,
		)
		if err != nil {
			return fmt.Errorf("upsert snapshot %s: %w", s.EntityID, err)
		}
	}
	return nil
}

func (ps *PostgresStore) upsertReportTx(ctx context.Context, tx *sql.Tx, report *models.AggregateReport) error {
	payload, err := ps.compressor.Compress(report.Payload)
	if err != nil {
		return fmt.Errorf("compress report payload: %w", err)
	}

	_, err = tx.ExecContext(ctx, upsertReportSQL,
		report.ReportDate.Format("2006-01-02"),
		report.TotalEntities, report.AverageMetric, report.TrendingCount, payload,
	)
	if err != nil {
		return fmt.Errorf("upsert aggregate report for %s: %w", report.ReportDate.Format("2006-01-02"), err)
	}
	return nil
}
