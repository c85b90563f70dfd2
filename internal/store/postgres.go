package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/factsync/internal/db"
	"github.com/sells-group/factsync/internal/model"
	"github.com/sells-group/factsync/internal/statement"
)

// PostgresStore keeps canonical tables as one row per cell.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

var rowColumns = []string{"ticker", "variable", "period_end", "value", "row_order"}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 1
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
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS canonical_rows (
	ticker     TEXT NOT NULL,
	variable   TEXT NOT NULL,
	period_end DATE NOT NULL,
	value      DOUBLE PRECISION NOT NULL DEFAULT 0,
	row_order  INTEGER NOT NULL,
	PRIMARY KEY (ticker, variable, period_end)
);

CREATE INDEX IF NOT EXISTS idx_canonical_rows_ticker ON canonical_rows(ticker);

CREATE TABLE IF NOT EXISTS sync_log (
	id            TEXT PRIMARY KEY,
	ticker        TEXT NOT NULL,
	cik           TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL,
	source        TEXT NOT NULL DEFAULT '',
	periods_added INTEGER NOT NULL DEFAULT 0,
	error         TEXT NOT NULL DEFAULT '',
	recorded_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_sync_log_ticker ON sync_log(ticker, recorded_at DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, ticker string) (*statement.Table, error) {
	ticker = model.NormalizeTicker(ticker)
	rows, err := s.pool.Query(ctx,
		`SELECT variable, period_end, value, row_order FROM canonical_rows WHERE ticker = $1 ORDER BY row_order, period_end`,
		ticker,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: load %s", ticker)
	}
	defer rows.Close()

	var cells []cell
	for rows.Next() {
		var c cell
		if err := rows.Scan(&c.Variable, &c.Period, &c.Value, &c.Order); err != nil {
			return nil, eris.Wrapf(err, "postgres: scan %s", ticker)
		}
		cells = append(cells, c)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(err, "postgres: load %s", ticker)
	}
	if len(cells) == 0 {
		return nil, eris.Wrapf(ErrNotFound, "postgres: %s", ticker)
	}
	return tableOf(cells), nil
}

func (s *PostgresStore) Save(ctx context.Context, ticker string, t *statement.Table) error {
	ticker = model.NormalizeTicker(ticker)
	cells := cellsOf(t)
	rows := make([][]any, len(cells))
	for i, c := range cells {
		rows[i] = []any{ticker, c.Variable, c.Period, c.Value, c.Order}
	}

	_, err := db.ReplaceRows(ctx, s.pool, db.ReplaceConfig{
		Table:    "canonical_rows",
		KeyCol:   "ticker",
		KeyValue: ticker,
		Columns:  rowColumns,
	}, rows)
	return eris.Wrapf(err, "postgres: save %s", ticker)
}

func (s *PostgresStore) RecordSync(ctx context.Context, e SyncEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sync_log (id, ticker, cik, status, source, periods_added, error, recorded_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, model.NormalizeTicker(e.Ticker), e.CIK, e.Status, e.Source, e.PeriodsAdded, e.Error, e.RecordedAt,
	)
	return eris.Wrapf(err, "postgres: record sync %s", e.Ticker)
}

func (s *PostgresStore) History(ctx context.Context, ticker string, limit int) ([]SyncEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, ticker, cik, status, source, periods_added, error, recorded_at FROM sync_log WHERE ticker = $1 ORDER BY recorded_at DESC LIMIT $2`,
		model.NormalizeTicker(ticker), limit,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: history %s", ticker)
	}
	defer rows.Close()

	var out []SyncEntry
	for rows.Next() {
		var e SyncEntry
		if err := rows.Scan(&e.ID, &e.Ticker, &e.CIK, &e.Status, &e.Source, &e.PeriodsAdded, &e.Error, &e.RecordedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan sync entry")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "postgres: history rows")
}
