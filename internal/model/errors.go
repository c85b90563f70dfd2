package model

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
)

// Sentinel errors shared across packages. Wrap them with eris and test with errors.Is.
var (
	// ErrIdentifierNotFound means the ticker has no entry in the SEC ticker directory.
	ErrIdentifierNotFound = eris.New("identifier not found")
	// ErrUnsupportedSchema means an instance references a standard taxonomy
	// family missing from the catalog. It aborts the whole batch.
	ErrUnsupportedSchema = eris.New("unsupported schema reference")
	// ErrNoData means processing produced a table with no period columns.
	ErrNoData = eris.New("no data")
)

// Error kinds reported in error:<kind> statuses.
const (
	KindIdentifierNotFound = "identifier_not_found"
	KindUnsupportedSchema  = "unsupported_schema"
	KindNoData             = "no_data"
	KindCanceled           = "canceled"
	KindUpstream           = "upstream"
)

// ErrorKind classifies err for status reporting.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrIdentifierNotFound):
		return KindIdentifierNotFound
	case errors.Is(err, ErrUnsupportedSchema):
		return KindUnsupportedSchema
	case errors.Is(err, ErrNoData):
		return KindNoData
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindUpstream
	}
}

// IsBatchFatal reports whether err must stop every remaining company.
func IsBatchFatal(err error) bool {
	return errors.Is(err, ErrUnsupportedSchema)
}
