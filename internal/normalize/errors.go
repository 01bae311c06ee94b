package normalize

import "fmt"

// ValidationError reports the first structural violation found in an
// upstream payload. Schema mismatches always surface as errors; a malformed
// value is never coerced into a default, since a silent zero would corrupt
// macroeconomic figures.
type ValidationError struct {
	SeriesID string
	Field    string
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.SeriesID == "" {
		return fmt.Sprintf("normalize: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("normalize: series %s: %s: %s", e.SeriesID, e.Field, e.Reason)
}

func invalid(seriesID, field, format string, args ...any) *ValidationError {
	return &ValidationError{
		SeriesID: seriesID,
		Field:    field,
		Reason:   fmt.Sprintf(format, args...),
	}
}
