// Package xbrl parses XBRL instance documents (inline XBRL, XML instances and
// xBRL-JSON) and the EDGAR company facts JSON into flat numeric facts.
package xbrl

import (
	"io"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"

	"github.com/sells-group/factsync/internal/model"
)

// CompanyFacts represents the EDGAR company facts JSON structure.
type CompanyFacts struct {
	CIK        int               `json:"cik"`
	EntityName string            `json:"entityName"`
	Facts      map[string]FactNS `json:"facts"`
}

// FactNS groups facts by namespace (e.g., "us-gaap", "dei").
type FactNS map[string]Fact

// Fact is a single XBRL concept with its units and values.
type Fact struct {
	Label       string                 `json:"label"`
	Description string                 `json:"description"`
	Units       map[string][]FactValue `json:"units"`
}

// FactValue is a single data point for a fact.
type FactValue struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end"`
	Val   any    `json:"val"`
	Accn  string `json:"accn"`
	FY    int    `json:"fy"`
	FP    string `json:"fp"`
	Form  string `json:"form"`
	Filed string `json:"filed"`
	Frame string `json:"frame,omitempty"`
}

// companyFactsNamespaces are searched in order.
var companyFactsNamespaces = []string{"us-gaap", "dei"}

// ParseCompanyFacts parses EDGAR Company Facts JSON from a reader.
func ParseCompanyFacts(r io.Reader) (*CompanyFacts, error) {
	var facts CompanyFacts
	if err := json.NewDecoder(r).Decode(&facts); err != nil {
		return nil, eris.Wrap(err, "xbrl: parse company facts")
	}
	return &facts, nil
}

// FlattenCompanyFacts returns the numeric values of the target concepts whose
// end date falls on or after since. A zero since keeps everything.
func FlattenCompanyFacts(facts *CompanyFacts, targets []string, since time.Time) []model.RawFact {
	if facts == nil || len(facts.Facts) == 0 {
		return nil
	}

	targetSet := make(map[string]bool, len(targets))
	for _, t := range targets {
		targetSet[t] = true
	}

	var result []model.RawFact
	for _, ns := range companyFactsNamespaces {
		nsMap, ok := facts.Facts[ns]
		if !ok {
			continue
		}

		for factName, fact := range nsMap {
			if !targetSet[factName] {
				continue
			}

			units := make([]string, 0, len(fact.Units))
			for u := range fact.Units {
				units = append(units, u)
			}
			sort.Strings(units)

			for _, unit := range units {
				for _, v := range fact.Units[unit] {
					end, ok := model.ParseDate(v.End)
					if !ok || end.Before(since) {
						continue
					}
					val, ok := numericValue(v.Val)
					if !ok {
						continue
					}
					filed, _ := model.ParseDate(v.Filed)
					result = append(result, model.RawFact{
						Concept:   factName,
						Value:     val,
						PeriodEnd: end,
						Filed:     filed,
					})
				}
			}
		}
	}

	return result
}

func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
