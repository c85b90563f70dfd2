package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/factsync/internal/model"
	"github.com/sells-group/factsync/internal/statement"
)

// SQLiteStore keeps canonical tables in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// Batch workers share one writer.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS canonical_rows (
	ticker     TEXT NOT NULL,
	variable   TEXT NOT NULL,
	period_end TEXT NOT NULL,
	value      REAL NOT NULL DEFAULT 0,
	row_order  INTEGER NOT NULL,
	PRIMARY KEY (ticker, variable, period_end)
);

CREATE TABLE IF NOT EXISTS sync_log (
	id            TEXT PRIMARY KEY,
	ticker        TEXT NOT NULL,
	cik           TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL,
	source        TEXT NOT NULL DEFAULT '',
	periods_added INTEGER NOT NULL DEFAULT 0,
	error         TEXT NOT NULL DEFAULT '',
	recorded_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_sync_log_ticker ON sync_log(ticker, recorded_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context, ticker string) (*statement.Table, error) {
	ticker = model.NormalizeTicker(ticker)
	rows, err := s.db.QueryContext(ctx,
		`SELECT variable, period_end, value, row_order FROM canonical_rows WHERE ticker = ? ORDER BY row_order, period_end`,
		ticker,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: load %s", ticker)
	}
	defer rows.Close() //nolint:errcheck

	var cells []cell
	for rows.Next() {
		var (
			c      cell
			period string
		)
		if err := rows.Scan(&c.Variable, &period, &c.Value, &c.Order); err != nil {
			return nil, eris.Wrapf(err, "sqlite: scan %s", ticker)
		}
		p, ok := model.ParseDate(period)
		if !ok {
			return nil, eris.Errorf("sqlite: bad period %q for %s", period, ticker)
		}
		c.Period = p
		cells = append(cells, c)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(err, "sqlite: load %s", ticker)
	}
	if len(cells) == 0 {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: %s", ticker)
	}
	return tableOf(cells), nil
}

func (s *SQLiteStore) Save(ctx context.Context, ticker string, t *statement.Table) error {
	ticker = model.NormalizeTicker(ticker)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM canonical_rows WHERE ticker = ?`, ticker); err != nil {
		return eris.Wrapf(err, "sqlite: delete %s", ticker)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO canonical_rows (ticker, variable, period_end, value, row_order) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close() //nolint:errcheck

	for _, c := range cellsOf(t) {
		if _, err := stmt.ExecContext(ctx, ticker, c.Variable, c.Period.Format(statement.DateLayout), c.Value, c.Order); err != nil {
			return eris.Wrapf(err, "sqlite: insert %s %s", ticker, c.Variable)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

func (s *SQLiteStore) RecordSync(ctx context.Context, e SyncEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sync_log (id, ticker, cik, status, source, periods_added, error, recorded_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, model.NormalizeTicker(e.Ticker), e.CIK, e.Status, e.Source, e.PeriodsAdded, e.Error, e.RecordedAt,
	)
	return eris.Wrapf(err, "sqlite: record sync %s", e.Ticker)
}

func (s *SQLiteStore) History(ctx context.Context, ticker string, limit int) ([]SyncEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ticker, cik, status, source, periods_added, error, recorded_at FROM sync_log WHERE ticker = ? ORDER BY recorded_at DESC, rowid DESC LIMIT ?`,
		model.NormalizeTicker(ticker), limit,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: history %s", ticker)
	}
	defer rows.Close() //nolint:errcheck

	var out []SyncEntry
	for rows.Next() {
		var e SyncEntry
		if err := rows.Scan(&e.ID, &e.Ticker, &e.CIK, &e.Status, &e.Source, &e.PeriodsAdded, &e.Error, &e.RecordedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan sync entry")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: history rows")
}
