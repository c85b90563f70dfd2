package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replaceCfg() ReplaceConfig {
	return ReplaceConfig{
		Table:    "canonical_rows",
		KeyCol:   "ticker",
		KeyValue: "AAPL",
		Columns:  []string{"ticker", "variable"},
	}
}

func TestReplaceRows_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "canonical_rows" WHERE "ticker" = \$1`).
		WithArgs("AAPL").
		WillReturnResult(pgxmock.NewResult("DELETE", 4))
	mock.ExpectCopyFrom(pgx.Identifier{"canonical_rows"}, []string{"ticker", "variable"}).WillReturnResult(2)
	mock.ExpectCommit()

	n, err := ReplaceRows(context.Background(), mock, replaceCfg(), [][]any{{"AAPL", "Revenue"}, {"AAPL", "Cash"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceRows_EmptyOnlyDeletes(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM`).WithArgs("AAPL").WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectCommit()

	n, err := ReplaceRows(context.Background(), mock, replaceCfg(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceRows_CopyFailureRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM`).WithArgs("AAPL").WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectCopyFrom(pgx.Identifier{"canonical_rows"}, []string{"ticker", "variable"}).WillReturnError(fmt.Errorf("disk full"))
	mock.ExpectRollback()

	_, err = ReplaceRows(context.Background(), mock, replaceCfg(), [][]any{{"AAPL", "Revenue"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db: replace: COPY INTO canonical_rows")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceRows_NoColumns(t *testing.T) {
	_, err := ReplaceRows(context.Background(), nil, ReplaceConfig{Table: "canonical_rows"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns")
}
