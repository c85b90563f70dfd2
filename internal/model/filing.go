package model

import "time"

// Form types handled by the locator.
const (
	FormAnnual        = "10-K"
	FormAnnualAmended = "10-K/A"
	FormInterim       = "10-Q"
)

// Filing is one regulatory filing located for a company.
type Filing struct {
	FormType        string    `json:"form_type"`
	FilingDate      time.Time `json:"filing_date"`
	ReportDate      time.Time `json:"report_date"`
	AccessionNumber string    `json:"accession_number"`
	CIK             string    `json:"cik"`
	// DocumentHint is the instance filename suggested by the source, if any.
	DocumentHint string `json:"document_hint,omitempty"`
}

// IsAnnual reports whether the filing is an annual report or its amendment.
func (f Filing) IsAnnual() bool {
	return f.FormType == FormAnnual || f.FormType == FormAnnualAmended
}

// RawFact is a single numeric value tagged in an instance document or
// returned by the bulk facts API, reduced to the fields the normalizer needs.
type RawFact struct {
	Concept   string    `json:"concept"`
	Value     float64   `json:"value"`
	PeriodEnd time.Time `json:"period_end"`
	// Filed is the filing date of the source, zero when unknown. It only
	// breaks ties between facts with the same period end.
	Filed time.Time `json:"filed,omitempty"`
}

// Date truncates t to a UTC calendar date.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date, also accepting a trailing time part.
func ParseDate(s string) (time.Time, bool) {
	if len(s) < 10 {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s[:10])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
