// Package statement holds the canonical financial table: one row per
// canonical variable, one column per reporting period end.
package statement

import (
	"sort"
	"time"

	"github.com/sells-group/factsync/internal/model"
)

// Table is a rows by periods grid of values. Periods are kept sorted
// ascending and unique; missing cells read as zero.
type Table struct {
	rows     []string
	rowIndex map[string]int
	periods  []time.Time
	cells    map[time.Time][]float64
}

// New creates an empty table with the given row order and periods.
func New(rows []string, periods []time.Time) *Table {
	t := &Table{
		rows:     append([]string(nil), rows...),
		rowIndex: make(map[string]int, len(rows)),
		cells:    make(map[time.Time][]float64, len(periods)),
	}
	for i, r := range t.rows {
		t.rowIndex[r] = i
	}
	for _, p := range periods {
		t.AddPeriod(p)
	}
	return t
}

// Rows returns the row labels in order.
func (t *Table) Rows() []string { return append([]string(nil), t.rows...) }

// Periods returns the period ends in ascending order.
func (t *Table) Periods() []time.Time { return append([]time.Time(nil), t.periods...) }

// Len returns the number of period columns.
func (t *Table) Len() int { return len(t.periods) }

// HasPeriod reports whether the table has a column for p.
func (t *Table) HasPeriod(p time.Time) bool {
	_, ok := t.cells[model.Date(p)]
	return ok
}

// AddPeriod adds an all-zero column for p if it is missing.
func (t *Table) AddPeriod(p time.Time) {
	p = model.Date(p)
	if _, ok := t.cells[p]; ok {
		return
	}
	t.cells[p] = make([]float64, len(t.rows))
	i := sort.Search(len(t.periods), func(i int) bool { return !t.periods[i].Before(p) })
	t.periods = append(t.periods, time.Time{})
	copy(t.periods[i+1:], t.periods[i:])
	t.periods[i] = p
}

// Set stores v at (row, p), adding the column if needed. Unknown rows are ignored
// and reported as false.
func (t *Table) Set(row string, p time.Time, v float64) bool {
	i, ok := t.rowIndex[row]
	if !ok {
		return false
	}
	t.AddPeriod(p)
	t.cells[model.Date(p)][i] = v
	return true
}

// Get returns the value at (row, p), zero when absent.
func (t *Table) Get(row string, p time.Time) float64 {
	i, ok := t.rowIndex[row]
	if !ok {
		return 0
	}
	col, ok := t.cells[model.Date(p)]
	if !ok {
		return 0
	}
	return col[i]
}

// Column returns a copy of the values for p keyed by row label.
func (t *Table) Column(p time.Time) map[string]float64 {
	col, ok := t.cells[model.Date(p)]
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(t.rows))
	for i, r := range t.rows {
		out[r] = col[i]
	}
	return out
}

// MaxPeriod returns the latest period end, or false for an empty table.
func (t *Table) MaxPeriod() (time.Time, bool) {
	if t == nil || len(t.periods) == 0 {
		return time.Time{}, false
	}
	return t.periods[len(t.periods)-1], true
}

// CarryForward returns a copy of t extended with every column of prev whose
// period t lacks. Columns move whole; t's own columns are never touched.
// Rows of prev that t does not know are dropped.
func (t *Table) CarryForward(prev *Table) *Table {
	out := New(t.rows, t.periods)
	for _, p := range t.periods {
		copy(out.cells[p], t.cells[p])
	}
	if prev == nil {
		return out
	}
	for _, p := range prev.periods {
		if out.HasPeriod(p) {
			continue
		}
		out.AddPeriod(p)
		for i, r := range prev.rows {
			out.Set(r, p, prev.cells[p][i])
		}
	}
	return out
}

// NewPeriods returns the periods of t absent from prev.
func (t *Table) NewPeriods(prev *Table) []time.Time {
	var out []time.Time
	for _, p := range t.periods {
		if prev == nil || !prev.HasPeriod(p) {
			out = append(out, p)
		}
	}
	return out
}

// Equal reports whether both tables have the same rows, periods and values.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.rows) != len(o.rows) || len(t.periods) != len(o.periods) {
		return false
	}
	for i := range t.rows {
		if t.rows[i] != o.rows[i] {
			return false
		}
	}
	for i, p := range t.periods {
		if !p.Equal(o.periods[i]) {
			return false
		}
		a, b := t.cells[p], o.cells[p]
		for j := range a {
			if a[j] != b[j] {
				return false
			}
		}
	}
	return true
}
