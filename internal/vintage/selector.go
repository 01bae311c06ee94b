// Package vintage selects and merges forecast vintages. A caller-supplied
// selector decides whether a series query returns the full revision history,
// a what-was-known-at-the-time prefix, or a single best-known merged series.
package vintage

import "fmt"

// Mode enumerates the reconciliation strategies.
type Mode int

const (
	// ModeUnspecified returns every vintage: the full revision history.
	ModeUnspecified Mode = iota

	// ModePinned returns the vintages up to and including one policy round,
	// hiding everything published later.
	ModePinned

	// ModeLatest folds all vintages into one synthetic vintage holding the
	// most recently revised value per date.
	ModeLatest
)

// Selector drives Reconcile. The zero value is ModeUnspecified.
type Selector struct {
	Mode  Mode
	Round string // set only for ModePinned
}

// Unspecified selects the full vintage history.
func Unspecified() Selector {
	return Selector{Mode: ModeUnspecified}
}

// Pinned selects vintages up to and including the given round label.
func Pinned(label string) Selector {
	return Selector{Mode: ModePinned, Round: label}
}

// Latest selects the single merged best-known series.
func Latest() Selector {
	return Selector{Mode: ModeLatest}
}

// NotFoundError reports a pinned policy round absent from the vintage set.
type NotFoundError struct {
	Round string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("vintage: policy round %q not found", e.Round)
}
