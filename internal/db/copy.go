package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// ReplaceConfig names the rows ReplaceRows swaps out.
type ReplaceConfig struct {
	Table    string   // target table
	KeyCol   string   // column selecting the rows to replace
	KeyValue any      // value of KeyCol for the replaced set
	Columns  []string // columns being copied in
}

// ReplaceRows deletes every row matching the key and copies the new rows in,
// inside one transaction. Readers see either the old set or the new one.
func ReplaceRows(ctx context.Context, pool Pool, cfg ReplaceConfig, rows [][]any) (int64, error) {
	if len(cfg.Columns) == 0 {
		return 0, eris.New("db: replace: no columns specified")
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "db: replace: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	del := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		pgx.Identifier{cfg.Table}.Sanitize(),
		pgx.Identifier{cfg.KeyCol}.Sanitize(),
	)
	if _, err := tx.Exec(ctx, del, cfg.KeyValue); err != nil {
		return 0, eris.Wrapf(err, "db: replace: delete from %s", cfg.Table)
	}

	var n int64
	if len(rows) > 0 {
		n, err = tx.CopyFrom(ctx, pgx.Identifier{cfg.Table}, cfg.Columns, pgx.CopyFromRows(rows))
		if err != nil {
			return 0, eris.Wrapf(err, "db: replace: COPY INTO %s", cfg.Table)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "db: replace: commit tx")
	}
	return n, nil
}
