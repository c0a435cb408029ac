package loader

import (
	"fmt"

	"customer-analytics/internal/dataset"
)

// DataUnavailableError reports a dataset that could not be fetched or whose
// content is malformed.
type DataUnavailableError struct {
	Dataset  dataset.Name
	Location string
	Err      error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("dataset %s unavailable at %s: %v", e.Dataset, e.Location, e.Err)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}

// MissingColumnsError is wrapped by DataUnavailableError when a source lacks
// required columns.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns %v", e.Columns)
}
