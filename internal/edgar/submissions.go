package edgar

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/factsync/internal/fetcher"
	"github.com/sells-group/factsync/internal/model"
)

type submissionJSON struct {
	CIK     string        `json:"cik"`
	Name    string        `json:"name"`
	Tickers []string      `json:"tickers"`
	Filings recentFilings `json:"filings"`
}

type recentFilings struct {
	Recent filingList `json:"recent"`
}

// filingList holds the submissions feed's parallel arrays, newest first.
type filingList struct {
	AccessionNumber []string `json:"accessionNumber"`
	FilingDate      []string `json:"filingDate"`
	ReportDate      []string `json:"reportDate"`
	Form            []string `json:"form"`
	PrimaryDoc      []string `json:"primaryDocument"`
}

// Submissions returns the company's recent filings in feed order (newest
// first). Entries with an unparsable filing date are dropped; a missing
// report date is left zero for the caller to judge.
func (c *Client) Submissions(ctx context.Context, cik string) ([]model.Filing, error) {
	sub, err := fetcher.FetchJSON[submissionJSON](ctx, c.f, c.ep.SubmissionsURL(cik))
	if err != nil {
		return nil, eris.Wrapf(err, "edgar: submissions for CIK %s", cik)
	}

	recent := sub.Filings.Recent
	filings := make([]model.Filing, 0, len(recent.AccessionNumber))
	for i, acc := range recent.AccessionNumber {
		filed, ok := model.ParseDate(safeIndex(recent.FilingDate, i))
		if !ok || acc == "" {
			zap.L().Debug("edgar: skipping submission row",
				zap.String("cik", cik),
				zap.String("accession", acc),
			)
			continue
		}
		reported, _ := model.ParseDate(safeIndex(recent.ReportDate, i))
		filings = append(filings, model.Filing{
			FormType:        safeIndex(recent.Form, i),
			FilingDate:      filed,
			ReportDate:      reported,
			AccessionNumber: acc,
			CIK:             model.TrimCIK(cik),
			DocumentHint:    safeIndex(recent.PrimaryDoc, i),
		})
	}
	return filings, nil
}
