package edgar

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/factsync/internal/xbrl"
)

// CompanyFacts downloads and decodes the bulk XBRL facts of one company.
// A company without an XBRL history answers 404, surfaced as fetcher.ErrNotFound.
func (c *Client) CompanyFacts(ctx context.Context, cik string) (*xbrl.CompanyFacts, error) {
	body, err := c.f.Download(ctx, c.ep.CompanyFactsURL(cik))
	if err != nil {
		return nil, eris.Wrapf(err, "edgar: company facts for CIK %s", cik)
	}
	defer body.Close() //nolint:errcheck

	facts, err := xbrl.ParseCompanyFacts(body)
	if err != nil {
		return nil, eris.Wrapf(err, "edgar: company facts for CIK %s", cik)
	}
	return facts, nil
}
