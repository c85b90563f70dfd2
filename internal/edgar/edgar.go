// Package edgar talks to the SEC EDGAR endpoints: the ticker directory, the
// submissions feed, full-text search, the filing archive and the bulk
// company facts API.
package edgar

import (
	"fmt"
	"strings"

	"github.com/sells-group/factsync/internal/fetcher"
	"github.com/sells-group/factsync/internal/model"
)

// Default base URLs.
const (
	DefaultWWWBaseURL    = "https://www.sec.gov"
	DefaultDataBaseURL   = "https://data.sec.gov"
	DefaultSearchBaseURL = "https://efts.sec.gov"
)

// Endpoints holds the base URLs of the three SEC hosts. Tests point them at
// httptest servers.
type Endpoints struct {
	WWW    string
	Data   string
	Search string
}

// DefaultEndpoints returns the production SEC hosts.
func DefaultEndpoints() Endpoints {
	return Endpoints{WWW: DefaultWWWBaseURL, Data: DefaultDataBaseURL, Search: DefaultSearchBaseURL}
}

// TickersURL is the ticker to CIK directory.
func (e Endpoints) TickersURL() string {
	return strings.TrimRight(e.WWW, "/") + "/files/company_tickers.json"
}

// ExchangeTickersURL is the directory variant that carries listing exchanges.
func (e Endpoints) ExchangeTickersURL() string {
	return strings.TrimRight(e.WWW, "/") + "/files/company_tickers_exchange.json"
}

// SubmissionsURL is the filing history of one company.
func (e Endpoints) SubmissionsURL(cik string) string {
	return fmt.Sprintf("%s/submissions/CIK%s.json", strings.TrimRight(e.Data, "/"), model.PadCIK(cik))
}

// CompanyFactsURL is the bulk XBRL facts document of one company.
func (e Endpoints) CompanyFactsURL(cik string) string {
	return fmt.Sprintf("%s/api/xbrl/companyfacts/CIK%s.json", strings.TrimRight(e.Data, "/"), model.PadCIK(cik))
}

// SearchURL is the full-text search index.
func (e Endpoints) SearchURL() string {
	return strings.TrimRight(e.Search, "/") + "/LATEST/search-index"
}

// ArchiveURL addresses one file inside a filing's archive folder. cik is used
// as given so callers can probe both the trimmed and padded forms.
func (e Endpoints) ArchiveURL(cik, accession, file string) string {
	return fmt.Sprintf("%s/Archives/edgar/data/%s/%s/%s",
		strings.TrimRight(e.WWW, "/"), cik, strings.ReplaceAll(accession, "-", ""), file)
}

// Client reads filing metadata and company facts for one company session.
type Client struct {
	f  fetcher.Fetcher
	ep Endpoints
}

// NewClient creates a Client on top of f.
func NewClient(f fetcher.Fetcher, ep Endpoints) *Client {
	return &Client{f: f, ep: ep}
}

// safeIndex returns the string at index i, or empty string if out of bounds.
func safeIndex(s []string, i int) string {
	if i < len(s) {
		return s[i]
	}
	return ""
}
