// Package store persists canonical tables, one per ticker.
package store

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/factsync/internal/model"
	"github.com/sells-group/factsync/internal/statement"
)

// ErrNotFound is returned by Load when nothing is stored for the ticker.
var ErrNotFound = eris.New("store: table not found")

// TableStore loads and saves canonical tables keyed by ticker.
type TableStore interface {
	// Load returns the stored table or an error wrapping ErrNotFound.
	Load(ctx context.Context, ticker string) (*statement.Table, error)
	// Save replaces the stored table for ticker.
	Save(ctx context.Context, ticker string, t *statement.Table) error
	Close() error
}

// SyncEntry is one per-company synchronization outcome.
type SyncEntry struct {
	ID           string
	Ticker       string
	CIK          string
	Status       string
	Source       string
	PeriodsAdded int
	Error        string
	RecordedAt   time.Time
}

// SyncLog is implemented by stores that keep a synchronization history.
type SyncLog interface {
	RecordSync(ctx context.Context, e SyncEntry) error
	History(ctx context.Context, ticker string, limit int) ([]SyncEntry, error)
}

// Migrator is implemented by stores that need schema setup.
type Migrator interface {
	Migrate(ctx context.Context) error
}

// Key is the object name for ticker's table under prefix. Object names use
// the lower-case ticker, matching tables already written under that layout.
func Key(prefix, ticker string) string {
	return prefix + strings.ToLower(model.NormalizeTicker(ticker)) + ".csv"
}

// EntryFromResult converts a pipeline result to a sync log entry.
func EntryFromResult(r model.Result) SyncEntry {
	return SyncEntry{
		Ticker:       r.Ticker,
		CIK:          r.CIK,
		Status:       string(r.Status),
		Source:       string(r.Source),
		PeriodsAdded: r.PeriodsAdded,
		Error:        r.Error,
	}
}

// cell is one table value in row-major storage form.
type cell struct {
	Variable string
	Period   time.Time
	Value    float64
	Order    int
}

func cellsOf(t *statement.Table) []cell {
	var out []cell
	for i, row := range t.Rows() {
		for _, p := range t.Periods() {
			out = append(out, cell{Variable: row, Period: p, Value: t.Get(row, p), Order: i})
		}
	}
	return out
}

// tableOf rebuilds a table from cells. Row order follows Order.
func tableOf(cells []cell) *statement.Table {
	order := map[string]int{}
	var periods []time.Time
	for _, c := range cells {
		if o, ok := order[c.Variable]; !ok || c.Order < o {
			order[c.Variable] = c.Order
		}
		periods = append(periods, c.Period)
	}
	rows := make([]string, 0, len(order))
	for r := range order {
		rows = append(rows, r)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if order[rows[i]] != order[rows[j]] {
			return order[rows[i]] < order[rows[j]]
		}
		return rows[i] < rows[j]
	})

	t := statement.New(rows, periods)
	for _, c := range cells {
		t.Set(c.Variable, c.Period, c.Value)
	}
	return t
}
