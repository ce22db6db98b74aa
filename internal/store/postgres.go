package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/salesdash/internal/model"
)

// Pool abstracts pgxpool.Pool so tests can substitute pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS activity_records (
	id              TEXT PRIMARY KEY,
	prospector_name TEXT NOT NULL DEFAULT '',
	closer_name     TEXT NOT NULL DEFAULT '',
	scheduled_at    TIMESTAMPTZ,
	realized_at     TIMESTAMPTZ,
	no_show         BOOLEAN NOT NULL DEFAULT false,
	qualified       TEXT NOT NULL DEFAULT 'unknown',
	deal_status     TEXT NOT NULL DEFAULT 'open',
	contract_value  DOUBLE PRECISION NOT NULL DEFAULT 0,
	signed          BOOLEAN NOT NULL DEFAULT false,
	paid            BOOLEAN NOT NULL DEFAULT false,
	origin          TEXT NOT NULL DEFAULT 'inbound',
	source          TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_records_scheduled_at ON activity_records(scheduled_at);
CREATE INDEX IF NOT EXISTS idx_records_source ON activity_records(source);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const insertRecordSQL = `
	INSERT INTO activity_records
	(id, prospector_name, closer_name, scheduled_at, realized_at, no_show,
	 qualified, deal_status, contract_value, signed, paid, origin, source)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (id) DO UPDATE SET
		prospector_name = EXCLUDED.prospector_name,
		closer_name     = EXCLUDED.closer_name,
		scheduled_at    = EXCLUDED.scheduled_at,
		realized_at     = EXCLUDED.realized_at,
		no_show         = EXCLUDED.no_show,
		qualified       = EXCLUDED.qualified,
		deal_status     = EXCLUDED.deal_status,
		contract_value  = EXCLUDED.contract_value,
		signed          = EXCLUDED.signed,
		paid            = EXCLUDED.paid,
		origin          = EXCLUDED.origin,
		source          = EXCLUDED.source`

// SaveRecords upserts records in one round trip via pgx.Batch.
func (s *PostgresStore) SaveRecords(ctx context.Context, records []model.ActivityRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, r := range records {
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		batch.Queue(insertRecordSQL,
			r.ID, r.ProspectorName, r.CloserName,
			nullTime(r.ScheduledAt), nullTime(r.RealizedAt), r.NoShow,
			string(r.Qualified), string(r.DealStatus), r.ContractValue,
			r.Signed, r.Paid, string(r.Origin), r.Source,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range records {
		if _, err := results.Exec(); err != nil {
			return eris.Wrap(err, "postgres: insert record")
		}
	}
	return nil
}

func (s *PostgresStore) ListRecords(ctx context.Context, filter RecordFilter) ([]model.ActivityRecord, error) {
	query, args := buildListQuery(filter, "$")

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list records")
	}
	defer rows.Close()

	var out []model.ActivityRecord
	for rows.Next() {
		var r model.ActivityRecord
		var scheduled, realized *time.Time
		var qualified, status, origin string
		err := rows.Scan(&r.ID, &r.ProspectorName, &r.CloserName,
			&scheduled, &realized, &r.NoShow,
			&qualified, &status, &r.ContractValue,
			&r.Signed, &r.Paid, &origin, &r.Source)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan record")
		}
		r.ScheduledAt = scheduled
		r.RealizedAt = realized
		r.Qualified = model.Qualified(qualified)
		r.DealStatus = model.DealStatus(status)
		r.Origin = model.Origin(origin)
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate records")
}

func (s *PostgresStore) DeleteSource(ctx context.Context, source string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM activity_records WHERE source = $1`, source)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete source")
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) CountRecords(ctx context.Context) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM activity_records`).Scan(&n)
	return n, eris.Wrap(err, "postgres: count records")
}
