package model

import "strings"

// Company identifies a filer by its exchange ticker and SEC Central Index Key.
type Company struct {
	Ticker string `json:"ticker"`
	CIK    string `json:"cik"`
	Name   string `json:"name,omitempty"`
}

// NormalizeTicker upper-cases a ticker and maps share-class dots to the
// dashes used by the SEC ticker directory (BRK.B becomes BRK-B).
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(ticker), ".", "-"))
}

// TrimCIK strips leading zeros from a CIK. A CIK of all zeros becomes "0".
func TrimCIK(cik string) string {
	trimmed := strings.TrimLeft(strings.TrimSpace(cik), "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

// PadCIK returns the 10-digit zero-padded form of a CIK used by data.sec.gov.
func PadCIK(cik string) string {
	trimmed := TrimCIK(cik)
	if len(trimmed) >= 10 {
		return trimmed
	}
	return strings.Repeat("0", 10-len(trimmed)) + trimmed
}
