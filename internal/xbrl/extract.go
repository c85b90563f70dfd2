package xbrl

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/factsync/internal/fetcher"
	"github.com/sells-group/factsync/internal/model"
)

// DefaultMinFacts is the fewest tagged facts a complete annual or quarterly
// instance carries. Smaller documents are treated as broken.
const DefaultMinFacts = 1000

// Extraction is the outcome of reading one instance document.
type Extraction struct {
	Format Format
	// RawCount counts every tagged fact before filtering.
	RawCount int
	// Facts is empty when the document is not sufficient.
	Facts      []model.RawFact
	Sufficient bool
}

// Extractor downloads, parses and filters instance documents.
type Extractor struct {
	f        fetcher.Fetcher
	catalog  *Catalog
	minFacts int
}

// NewExtractor creates an Extractor. A minFacts below 1 selects DefaultMinFacts.
func NewExtractor(f fetcher.Fetcher, catalog *Catalog, minFacts int) *Extractor {
	if minFacts < 1 {
		minFacts = DefaultMinFacts
	}
	if catalog == nil {
		catalog = NewCatalog()
	}
	return &Extractor{f: f, catalog: catalog, minFacts: minFacts}
}

// Extract fetches url and evaluates the instance found there.
func (e *Extractor) Extract(ctx context.Context, url string) (Extraction, error) {
	body, err := e.f.Download(ctx, url)
	if err != nil {
		return Extraction{}, eris.Wrapf(err, "xbrl: fetch %s", url)
	}
	defer body.Close() //nolint:errcheck

	doc, err := Parse(body)
	if err != nil {
		return Extraction{}, eris.Wrapf(err, "xbrl: parse %s", url)
	}

	ex, err := e.Evaluate(doc)
	if err != nil {
		return Extraction{}, eris.Wrapf(err, "xbrl: evaluate %s", url)
	}
	if !ex.Sufficient {
		zap.L().Info("xbrl: instance below fact threshold",
			zap.String("url", url),
			zap.Int("raw_facts", ex.RawCount),
			zap.Int("min_facts", e.minFacts),
		)
	}
	return ex, nil
}

// Evaluate checks the document's taxonomies and fact count and returns its
// usable facts. A document below the threshold yields no facts at all.
func (e *Extractor) Evaluate(doc *Document) (Extraction, error) {
	if err := e.catalog.Check(doc.Namespaces); err != nil {
		return Extraction{}, err
	}

	ex := Extraction{Format: doc.Format, RawCount: len(doc.Facts)}
	if ex.RawCount < e.minFacts {
		return ex, nil
	}
	ex.Sufficient = true
	ex.Facts = doc.RawFacts()
	return ex, nil
}
