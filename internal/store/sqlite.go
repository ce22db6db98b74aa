package store

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/salesdash/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS activity_records (
	id              TEXT PRIMARY KEY,
	prospector_name TEXT NOT NULL DEFAULT '',
	closer_name     TEXT NOT NULL DEFAULT '',
	scheduled_at    DATETIME,
	realized_at     DATETIME,
	no_show         INTEGER NOT NULL DEFAULT 0,
	qualified       TEXT NOT NULL DEFAULT 'unknown',
	deal_status     TEXT NOT NULL DEFAULT 'open',
	contract_value  REAL NOT NULL DEFAULT 0,
	signed          INTEGER NOT NULL DEFAULT 0,
	paid            INTEGER NOT NULL DEFAULT 0,
	origin          TEXT NOT NULL DEFAULT 'inbound',
	source          TEXT NOT NULL DEFAULT '',
	created_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_records_scheduled_at ON activity_records(scheduled_at);
CREATE INDEX IF NOT EXISTS idx_records_source ON activity_records(source);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRecords(ctx context.Context, records []model.ActivityRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO activity_records
		(id, prospector_name, closer_name, scheduled_at, realized_at, no_show,
		 qualified, deal_status, contract_value, signed, paid, origin, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	for _, r := range records {
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		_, err := stmt.ExecContext(ctx,
			r.ID, r.ProspectorName, r.CloserName,
			nullTime(r.ScheduledAt), nullTime(r.RealizedAt), r.NoShow,
			string(r.Qualified), string(r.DealStatus), r.ContractValue,
			r.Signed, r.Paid, string(r.Origin), r.Source,
		)
		if err != nil {
			return eris.Wrap(err, "sqlite: insert record")
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

func (s *SQLiteStore) ListRecords(ctx context.Context, filter RecordFilter) ([]model.ActivityRecord, error) {
	query, args := buildListQuery(filter, "?")

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list records")
	}
	defer rows.Close()

	var out []model.ActivityRecord
	for rows.Next() {
		var r model.ActivityRecord
		var scheduled, realized sql.NullTime
		var qualified, status, origin string
		err := rows.Scan(&r.ID, &r.ProspectorName, &r.CloserName,
			&scheduled, &realized, &r.NoShow,
			&qualified, &status, &r.ContractValue,
			&r.Signed, &r.Paid, &origin, &r.Source)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan record")
		}
		r.ScheduledAt = timePtr(scheduled)
		r.RealizedAt = timePtr(realized)
		r.Qualified = model.Qualified(qualified)
		r.DealStatus = model.DealStatus(status)
		r.Origin = model.Origin(origin)
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate records")
}

func (s *SQLiteStore) DeleteSource(ctx context.Context, source string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM activity_records WHERE source = ?`, source)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete source")
	}
	n, err := res.RowsAffected()
	return n, eris.Wrap(err, "sqlite: rows affected")
}

func (s *SQLiteStore) CountRecords(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activity_records`).Scan(&n)
	return n, eris.Wrap(err, "sqlite: count records")
}

// buildListQuery assembles the shared list statement. placeholder is "?"
// for sqlite and "$" for postgres (positional $1, $2, ...).
func buildListQuery(filter RecordFilter, placeholder string) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, prospector_name, closer_name, scheduled_at, realized_at, no_show,
		qualified, deal_status, contract_value, signed, paid, origin, source
		FROM activity_records`)

	var conds []string
	var args []any
	next := func() string {
		if placeholder == "?" {
			return "?"
		}
		return "$" + strconv.Itoa(len(args))
	}

	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, "(scheduled_at IS NULL OR scheduled_at >= "+next()+")")
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, "(scheduled_at IS NULL OR scheduled_at <= "+next()+")")
	}
	if filter.Source != "" {
		args = append(args, filter.Source)
		conds = append(conds, "source = "+next())
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	sb.WriteString(" ORDER BY scheduled_at, id")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		sb.WriteString(" LIMIT " + next())
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		sb.WriteString(" OFFSET " + next())
	}

	return sb.String(), args
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
