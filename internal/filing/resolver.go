package filing

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/factsync/internal/edgar"
	"github.com/sells-group/factsync/internal/fetcher"
	"github.com/sells-group/factsync/internal/model"
)

// Resolver finds the instance document of a filing by probing candidate
// archive addresses.
type Resolver struct {
	f  fetcher.Fetcher
	ep edgar.Endpoints
}

// NewResolver creates a Resolver probing through f.
func NewResolver(f fetcher.Fetcher, ep edgar.Endpoints) *Resolver {
	return &Resolver{f: f, ep: ep}
}

// Candidates lists the addresses to probe, in order and without duplicates.
// Filename conventions vary faster than CIK formatting, so each filename is
// tried with the trimmed and then the padded CIK.
func (r *Resolver) Candidates(f model.Filing, ticker string) []string {
	var files []string
	if f.DocumentHint != "" {
		files = append(files, f.DocumentHint)
	}
	if !f.ReportDate.IsZero() {
		base := strings.ToLower(model.NormalizeTicker(ticker)) + "-" + f.ReportDate.Format("20060102")
		files = append(files, base+".htm", base+"_htm.xml", base+".xml")
	}

	ciks := []string{model.TrimCIK(f.CIK), model.PadCIK(f.CIK)}

	seen := map[string]bool{}
	var out []string
	for _, file := range files {
		for _, cik := range ciks {
			u := r.ep.ArchiveURL(cik, f.AccessionNumber, file)
			if !seen[u] {
				seen[u] = true
				out = append(out, u)
			}
		}
	}
	return out
}

// Resolve returns the first candidate that exists. Probe errors count as a
// miss; the filing is unresolved when nothing answers.
func (r *Resolver) Resolve(ctx context.Context, f model.Filing, ticker string) (string, bool) {
	log := zap.L().With(zap.String("ticker", ticker), zap.String("accession", f.AccessionNumber))
	for _, u := range r.Candidates(f, ticker) {
		if ctx.Err() != nil {
			return "", false
		}
		ok, err := r.f.Exists(ctx, u)
		if err != nil {
			log.Debug("filing: probe failed", zap.String("url", u), zap.Error(err))
			continue
		}
		if ok {
			return u, true
		}
	}
	log.Info("filing: instance document unresolved")
	return "", false
}
