package series

import "fmt"

// InvalidArgumentError reports a caller-fixable argument problem, surfaced
// before any network call is made and never retried.
type InvalidArgumentError struct {
	Argument string
	Value    string
	Reason   string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("series: invalid %s %q: %s", e.Argument, e.Value, e.Reason)
}
