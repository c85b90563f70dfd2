package xbrl

import (
	"io"
	"sort"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
)

// oimDocument is the xBRL-JSON (OIM) report layout.
type oimDocument struct {
	DocumentInfo struct {
		DocumentType string            `json:"documentType"`
		Namespaces   map[string]string `json:"namespaces"`
		Taxonomy     []string          `json:"taxonomy"`
	} `json:"documentInfo"`
	Facts map[string]oimFact `json:"facts"`
}

type oimFact struct {
	Value      any               `json:"value"`
	Dimensions map[string]string `json:"dimensions"`
}

// oimIgnoredDims are core dimensions that never make a numeric fact a breakdown.
var oimIgnoredDims = map[string]bool{"language": true, "noteId": true}

// ParseJSON parses an xBRL-JSON report.
func ParseJSON(r io.Reader) (*Document, error) {
	var raw oimDocument
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, eris.Wrap(err, "xbrl: parse xBRL-JSON")
	}

	doc := &Document{Format: FormatJSON}
	for _, ns := range raw.DocumentInfo.Namespaces {
		doc.Namespaces = append(doc.Namespaces, ns)
	}
	sort.Strings(doc.Namespaces)

	ids := make([]string, 0, len(raw.Facts))
	for id := range raw.Facts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		f := raw.Facts[id]
		dims := make(map[string]string, len(f.Dimensions))
		for k, v := range f.Dimensions {
			if oimIgnoredDims[k] {
				continue
			}
			dims[k] = v
		}
		tf := TaggedFact{Dimensions: dims}
		if v, ok := oimValue(f.Value); ok {
			tf.Value = &v
		}
		doc.Facts = append(doc.Facts, tf)
	}
	return doc, nil
}

func oimValue(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case string:
		d, err := decimal.NewFromString(n)
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case int64:
		return decimal.NewFromInt(n), true
	default:
		return decimal.Decimal{}, false
	}
}
