package edgar

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/factsync/internal/fetcher"
	"github.com/sells-group/factsync/internal/model"
)

// SearchQuery is a full-text search request for one company's filings.
type SearchQuery struct {
	CIK        string
	EntityName string
	Forms      []string
	Start      time.Time
	End        time.Time
	// Rows is the page size. Only the first page is ever requested.
	Rows int
}

// eftsSearchResult is the response from the EDGAR full-text search API.
type eftsSearchResult struct {
	Hits struct {
		Hits []struct {
			ID     string `json:"_id"`
			Source struct {
				CIKs         []string `json:"ciks"`
				Form         string   `json:"form"`
				FileDate     string   `json:"file_date"`
				Accession    string   `json:"adsh"`
				PeriodEnding string   `json:"period_ending"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// query encodes q as search-index parameters.
func (q SearchQuery) query() url.Values {
	v := url.Values{}
	v.Set("ciks", model.PadCIK(q.CIK))
	if q.EntityName != "" {
		v.Set("entityName", q.EntityName)
	}
	if len(q.Forms) > 0 {
		v.Set("forms", strings.Join(q.Forms, ","))
	}
	v.Set("dateRange", "custom")
	v.Set("startdt", q.Start.Format("2006-01-02"))
	v.Set("enddt", q.End.Format("2006-01-02"))
	v.Set("from", "0")
	v.Set("size", strconv.Itoa(q.Rows))
	return v
}

// SearchFilings runs one full-text search and returns the hits in result
// order. The hit id has the form "<accession>:<filename>"; the filename
// becomes the filing's document hint.
func (c *Client) SearchFilings(ctx context.Context, q SearchQuery) ([]model.Filing, error) {
	searchURL := c.ep.SearchURL() + "?" + q.query().Encode()

	res, err := fetcher.FetchJSON[eftsSearchResult](ctx, c.f, searchURL)
	if err != nil {
		return nil, eris.Wrapf(err, "edgar: search filings for CIK %s", q.CIK)
	}

	var filings []model.Filing
	for _, hit := range res.Hits.Hits {
		src := hit.Source
		filed, ok := model.ParseDate(src.FileDate)
		if !ok {
			continue
		}
		reported, _ := model.ParseDate(src.PeriodEnding)

		accession, hint := src.Accession, ""
		if id, file, found := strings.Cut(hit.ID, ":"); found {
			hint = file
			if accession == "" {
				accession = id
			}
		}
		if accession == "" {
			continue
		}

		filings = append(filings, model.Filing{
			FormType:        src.Form,
			FilingDate:      filed,
			ReportDate:      reported,
			AccessionNumber: accession,
			CIK:             model.TrimCIK(q.CIK),
			DocumentHint:    hint,
		})
	}
	return filings, nil
}
