package statement

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rotisserie/eris"

	"github.com/sells-group/factsync/internal/model"
)

// VariableHeader labels the first column of a persisted table.
const VariableHeader = "Accounting Variable"

// DateLayout formats period column headers.
const DateLayout = "2006-01-02"

var (
	// ErrEmpty means the persisted table has no content.
	ErrEmpty = eris.New("statement: empty table")
	// ErrCorrupt means the persisted table could not be interpreted.
	ErrCorrupt = eris.New("statement: corrupt table")
)

// Encode writes t as CSV: a header of VariableHeader followed by the period
// ends, then one line per row.
func Encode(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(t.periods)+1)
	header = append(header, VariableHeader)
	for _, p := range t.periods {
		header = append(header, p.Format(DateLayout))
	}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "statement: write header")
	}

	for i, r := range t.rows {
		line := make([]string, 0, len(t.periods)+1)
		line = append(line, r)
		for _, p := range t.periods {
			line = append(line, strconv.FormatFloat(t.cells[p][i], 'f', -1, 64))
		}
		if err := cw.Write(line); err != nil {
			return eris.Wrapf(err, "statement: write row %s", r)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "statement: flush")
	}
	return nil
}

// Decode reads a table written by Encode. Row order follows the file; the
// period columns are sorted.
func Decode(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "statement: read table")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}

	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return nil, eris.Wrapf(ErrCorrupt, "read header: %v", err)
	}
	if strings.TrimPrefix(header[0], "\ufeff") != VariableHeader {
		return nil, eris.Wrapf(ErrCorrupt, "first column is %q", header[0])
	}
	periods := make([]time.Time, 0, len(header)-1)
	for _, h := range header[1:] {
		p, ok := model.ParseDate(strings.TrimSpace(h))
		if !ok {
			return nil, eris.Wrapf(ErrCorrupt, "column %q is not a date", h)
		}
		periods = append(periods, p)
	}

	records, err := gocsv.CSVToMaps(bytes.NewReader(data))
	if err != nil {
		return nil, eris.Wrapf(ErrCorrupt, "parse rows: %v", err)
	}
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	rows := make([]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rec[header[0]])
	}

	t := New(rows, periods)
	for _, rec := range records {
		row := rec[header[0]]
		for i, h := range header[1:] {
			raw := strings.TrimSpace(rec[h])
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, eris.Wrapf(ErrCorrupt, "row %s column %s: %q", row, h, raw)
			}
			t.Set(row, periods[i], v)
		}
	}
	return t, nil
}
