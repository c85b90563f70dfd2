package xbrl

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sells-group/factsync/internal/model"
)

// Format is the serialization of an instance document.
type Format string

const (
	FormatInline Format = "inline"
	FormatXML    Format = "xml"
	FormatJSON   Format = "json"
)

// Structural dimensions. A fact carrying exactly these describes the
// consolidated entity; anything more is a breakdown along some axis.
const (
	DimConcept = "concept"
	DimEntity  = "entity"
	DimPeriod  = "period"
	DimUnit    = "unit"
)

var structuralDims = [...]string{DimConcept, DimEntity, DimPeriod, DimUnit}

// TaggedFact is one fact as tagged in an instance, before any filtering.
type TaggedFact struct {
	// Value is nil for nil facts and for values that are not numbers.
	Value *decimal.Decimal
	// Dimensions maps the structural dimensions and any segment axes to
	// their values. Periods are "YYYY-MM-DD" instants or "start/end" ranges.
	Dimensions map[string]string
}

// Concept returns the local name of the fact's concept.
func (f TaggedFact) Concept() string {
	return LocalName(f.Dimensions[DimConcept])
}

// Document is a parsed instance.
type Document struct {
	Format     Format
	Namespaces []string
	Facts      []TaggedFact
}

// RawFacts returns the numeric, undimensioned facts with a resolvable period.
func (d *Document) RawFacts() []model.RawFact {
	var out []model.RawFact
	for _, f := range d.Facts {
		if f.Value == nil || !structuralOnly(f.Dimensions) {
			continue
		}
		concept := f.Concept()
		if concept == "" {
			continue
		}
		end, ok := PeriodEnd(f.Dimensions[DimPeriod])
		if !ok {
			continue
		}
		out = append(out, model.RawFact{
			Concept:   concept,
			Value:     f.Value.InexactFloat64(),
			PeriodEnd: end,
		})
	}
	return out
}

func structuralOnly(dims map[string]string) bool {
	if len(dims) != len(structuralDims) {
		return false
	}
	for _, k := range structuralDims {
		if dims[k] == "" {
			return false
		}
	}
	return true
}

// LocalName strips a namespace prefix: us-gaap:Revenues becomes Revenues.
func LocalName(qname string) string {
	if i := strings.LastIndexByte(qname, ':'); i >= 0 {
		return qname[i+1:]
	}
	return qname
}

// PeriodEnd returns the instant or the end date of a duration. xBRL-JSON
// writes period boundaries as midnight datetimes that open the following
// day, so those are moved back one day to the calendar date they close.
func PeriodEnd(period string) (time.Time, bool) {
	if period == "" {
		return time.Time{}, false
	}
	if _, end, found := strings.Cut(period, "/"); found {
		period = end
	}
	period = strings.TrimSpace(period)
	t, ok := model.ParseDate(period)
	if !ok {
		return time.Time{}, false
	}
	if len(period) > 10 && strings.HasPrefix(period[10:], "T00:00:00") {
		t = t.AddDate(0, 0, -1)
	}
	return t, true
}

func durationPeriod(start, end string) string {
	if start == "" {
		return end
	}
	return start + "/" + end
}
