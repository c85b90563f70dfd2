package edgar

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/factsync/internal/fetcher"
	"github.com/sells-group/factsync/internal/model"
)

// tickerEntry is one value of company_tickers.json, keyed by row number.
type tickerEntry struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// exchangeListing is company_tickers_exchange.json: a column header plus rows.
type exchangeListing struct {
	Fields []string `json:"fields"`
	Data   [][]any  `json:"data"`
}

// Directory resolves tickers to CIKs. It is loaded once and shared by every
// company in a batch. A failed load is retried on the next lookup.
type Directory struct {
	f  fetcher.Fetcher
	ep Endpoints

	mu       sync.Mutex
	byTicker map[string]model.Company
}

// NewDirectory creates a lazily loaded ticker directory.
func NewDirectory(f fetcher.Fetcher, ep Endpoints) *Directory {
	return &Directory{f: f, ep: ep}
}

// Lookup returns the company registered under ticker.
func (d *Directory) Lookup(ctx context.Context, ticker string) (model.Company, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.byTicker == nil {
		byTicker, err := d.load(ctx)
		if err != nil {
			return model.Company{}, err
		}
		d.byTicker = byTicker
	}

	c, ok := d.byTicker[model.NormalizeTicker(ticker)]
	if !ok {
		return model.Company{}, eris.Wrapf(model.ErrIdentifierNotFound, "edgar: ticker %q", ticker)
	}
	return c, nil
}

func (d *Directory) load(ctx context.Context) (map[string]model.Company, error) {
	entries, err := fetcher.FetchJSON[map[string]tickerEntry](ctx, d.f, d.ep.TickersURL())
	if err != nil {
		return nil, eris.Wrap(err, "edgar: load ticker directory")
	}

	byTicker := make(map[string]model.Company, len(*entries))
	for _, e := range *entries {
		key := model.NormalizeTicker(e.Ticker)
		if key == "" {
			continue
		}
		// The directory lists a company once per share class; the first
		// occurrence of a ticker wins.
		if _, dup := byTicker[key]; dup {
			continue
		}
		byTicker[key] = model.Company{
			Ticker: key,
			CIK:    strconv.FormatInt(e.CIK, 10),
			Name:   e.Title,
		}
	}

	zap.L().Debug("edgar: ticker directory loaded", zap.Int("tickers", len(byTicker)))
	return byTicker, nil
}

// ListExchangeTickers returns every ticker in the exchange listing, optionally
// restricted to the given exchanges (for example "NYSE", "Nasdaq").
func ListExchangeTickers(ctx context.Context, f fetcher.Fetcher, ep Endpoints, exchanges ...string) ([]model.Company, error) {
	listing, err := fetcher.FetchJSON[exchangeListing](ctx, f, ep.ExchangeTickersURL())
	if err != nil {
		return nil, eris.Wrap(err, "edgar: load exchange listing")
	}

	col := map[string]int{}
	for i, name := range listing.Fields {
		col[name] = i
	}
	for _, want := range []string{"cik", "ticker"} {
		if _, ok := col[want]; !ok {
			return nil, eris.Errorf("edgar: exchange listing has no %q column", want)
		}
	}

	allowed := map[string]bool{}
	for _, e := range exchanges {
		allowed[e] = true
	}

	seen := map[string]bool{}
	var out []model.Company
	for _, row := range listing.Data {
		c := model.Company{
			CIK:    cellString(row, col["cik"]),
			Ticker: model.NormalizeTicker(cellString(row, col["ticker"])),
		}
		if i, ok := col["name"]; ok {
			c.Name = cellString(row, i)
		}
		if c.Ticker == "" || seen[c.Ticker] {
			continue
		}
		if len(allowed) > 0 {
			i, ok := col["exchange"]
			if !ok || !allowed[cellString(row, i)] {
				continue
			}
		}
		seen[c.Ticker] = true
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out, nil
}

func cellString(row []any, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	switch v := row[i].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
