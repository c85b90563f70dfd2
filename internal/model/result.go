package model

// Status is the per-company outcome of a sync run.
type Status string

const (
	StatusFirstTime Status = "reprocessed_first_time"
	StatusUpdated   Status = "reprocessed_updated"
	StatusSkipped   Status = "skipped_current"
)

// ErrorStatus returns the error:<kind> status for err.
func ErrorStatus(err error) Status {
	return Status("error:" + ErrorKind(err))
}

// IsError reports whether s records a failed company.
func (s Status) IsError() bool {
	return len(s) > 6 && s[:6] == "error:"
}

// Source names where the facts behind a table came from.
type Source string

const (
	SourceInstance     Source = "instance"
	SourceCompanyFacts Source = "companyfacts"
	SourceNone         Source = "none"
)

// Result summarizes one company's sync.
type Result struct {
	Ticker       string `json:"ticker"`
	CIK          string `json:"cik,omitempty"`
	Status       Status `json:"status"`
	PeriodsAdded int    `json:"periods_added"`
	Periods      int    `json:"periods"`
	Source       Source `json:"source,omitempty"`
	Error        string `json:"error,omitempty"`
}
