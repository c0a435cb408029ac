package dataset

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// MalformedTimestampError reports an order timestamp that could not be parsed.
// The order is kept with the field set to missing.
type MalformedTimestampError struct {
	OrderID string
	Column  string
	Value   string
	Err     error
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("order %s: malformed %s %q: %v", e.OrderID, e.Column, e.Value, e.Err)
}

func (e *MalformedTimestampError) Unwrap() error {
	return e.Err
}

// ParseTimestamp parses a timestamp into a zone-less UTC wall-clock time.
// Missing values yield nil without error. Values carrying an offset are
// converted to UTC first.
func ParseTimestamp(value string) (*time.Time, error) {
	if IsMissing(value) {
		return nil, nil
	}
	t, err := dateparse.ParseIn(cell(value), time.UTC)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}
