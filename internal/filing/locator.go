// Package filing selects the filings to process for a company and resolves
// the address of each filing's instance document.
package filing

import (
	"context"
	"sort"
	"time"

	"github.com/jmhodges/clock"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/factsync/internal/edgar"
	"github.com/sells-group/factsync/internal/model"
)

// DefaultLookback is the filing horizon when none is configured.
const DefaultLookback = 5 * 365 * 24 * time.Hour

// DefaultMaxFilings is the fixed-count policy's page size.
const DefaultMaxFilings = 10

// Locator lists the filings to process for a company, in source order.
// An empty result is not an error.
type Locator interface {
	Locate(ctx context.Context, company model.Company) ([]model.Filing, error)
}

// Lookback converts a year count to a horizon, falling back to DefaultLookback.
func Lookback(years int) time.Duration {
	if years <= 0 {
		return DefaultLookback
	}
	return time.Duration(years) * 365 * 24 * time.Hour
}

// WindowedLocator reads the submissions feed and keeps the trailing window
// anchored on the two most recent annual reports.
type WindowedLocator struct {
	client   *edgar.Client
	clk      clock.Clock
	lookback time.Duration
}

// NewWindowedLocator creates a WindowedLocator.
func NewWindowedLocator(client *edgar.Client, clk clock.Clock, lookback time.Duration) *WindowedLocator {
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	return &WindowedLocator{client: client, clk: clk, lookback: lookback}
}

func (l *WindowedLocator) Locate(ctx context.Context, company model.Company) ([]model.Filing, error) {
	all, err := l.client.Submissions(ctx, company.CIK)
	if err != nil {
		return nil, eris.Wrapf(err, "filing: locate %s", company.Ticker)
	}

	horizon := l.clk.Now().Add(-l.lookback)
	var recent []model.Filing
	for _, f := range all {
		if f.FormType != model.FormAnnual && f.FormType != model.FormInterim {
			continue
		}
		if f.FilingDate.Before(model.Date(horizon)) {
			continue
		}
		recent = append(recent, f)
	}

	window, complete := TrailingWindow(recent)
	if !complete {
		zap.L().Warn("filing: no complete trailing window",
			zap.String("ticker", company.Ticker),
			zap.Int("filings", len(window)),
		)
	}
	return window, nil
}

// TrailingWindow walks filings in source order (newest first) and keeps
// everything before the second annual report, then every annual report from
// there on. With fewer than two annual reports it returns all filings and false.
func TrailingWindow(filings []model.Filing) ([]model.Filing, bool) {
	annuals := 0
	for i, f := range filings {
		if f.FormType != model.FormAnnual {
			continue
		}
		annuals++
		if annuals < 2 {
			continue
		}
		out := append([]model.Filing(nil), filings[:i]...)
		for _, older := range filings[i:] {
			if older.FormType == model.FormAnnual {
				out = append(out, older)
			}
		}
		return out, true
	}
	return filings, false
}

// FixedCountLocator queries full-text search for the most recent annual
// reports. Only the first result page is read; companies with more annual
// filings in the horizon than fit on one page are truncated.
type FixedCountLocator struct {
	client   *edgar.Client
	clk      clock.Clock
	lookback time.Duration
	rows     int
}

// NewFixedCountLocator creates a FixedCountLocator returning at most rows filings.
func NewFixedCountLocator(client *edgar.Client, clk clock.Clock, lookback time.Duration, rows int) *FixedCountLocator {
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	if rows <= 0 {
		rows = DefaultMaxFilings
	}
	return &FixedCountLocator{client: client, clk: clk, lookback: lookback, rows: rows}
}

func (l *FixedCountLocator) Locate(ctx context.Context, company model.Company) ([]model.Filing, error) {
	now := l.clk.Now()
	hits, err := l.client.SearchFilings(ctx, edgar.SearchQuery{
		CIK:        company.CIK,
		EntityName: company.Name,
		Forms:      []string{model.FormAnnual},
		Start:      now.Add(-l.lookback),
		End:        now,
		Rows:       l.rows,
	})
	if err != nil {
		return nil, eris.Wrapf(err, "filing: search %s", company.Ticker)
	}

	var out []model.Filing
	for _, f := range hits {
		if f.IsAnnual() {
			out = append(out, f)
		}
	}
	return out, nil
}

// SortByPeriodEnd returns filings ordered by report date ascending. Filings
// sharing a report date keep their relative order.
func SortByPeriodEnd(filings []model.Filing) []model.Filing {
	out := append([]model.Filing(nil), filings...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReportDate.Before(out[j].ReportDate)
	})
	return out
}

// ReportDates returns the distinct non-zero report dates of filings.
func ReportDates(filings []model.Filing) map[time.Time]bool {
	out := make(map[time.Time]bool, len(filings))
	for _, f := range filings {
		if !f.ReportDate.IsZero() {
			out[model.Date(f.ReportDate)] = true
		}
	}
	return out
}

// MaxPeriodEnd returns the latest report date, or false when none is known.
func MaxPeriodEnd(filings []model.Filing) (time.Time, bool) {
	var max time.Time
	for _, f := range filings {
		if f.ReportDate.After(max) {
			max = f.ReportDate
		}
	}
	return model.Date(max), !max.IsZero()
}
