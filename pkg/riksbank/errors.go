package riksbank

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// UpstreamError reports a failed request against a Riksbank API. StatusCode
// is the last HTTP status seen (0 for pure network failures), Attempts is
// the number of requests actually issued, and Exhausted marks that the full
// retry budget was spent; callers must not retry an exhausted error again.
type UpstreamError struct {
	URL        string
	StatusCode int
	Attempts   int
	Exhausted  bool
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("riksbank: upstream failure (status %d, %d attempts)", e.StatusCode, e.Attempts)
	if e.Exhausted {
		msg += " after exhausting retries"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// parseRetryAfter interprets a Retry-After header as a wait floor. Both the
// delta-seconds and HTTP-date forms are accepted; unparseable values are
// ignored.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(header); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
