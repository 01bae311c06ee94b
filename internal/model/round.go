package model

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// roundPattern matches a policy-round label: four-digit year, colon, and the
// publication iteration within the year (the Riksbank has never published
// more than a single digit's worth of rounds in one year).
var roundPattern = regexp.MustCompile(`^\d{4}:[1-9]$`)

// PolicyRound identifies one monetary-policy publication event, e.g. the
// Monetary Policy Report released as round "2024:3".
type PolicyRound struct {
	ID        string `json:"id"`
	Year      int    `json:"year"`
	Iteration int    `json:"iteration"`
}

// ValidRoundLabel reports whether label has the YYYY:N form.
func ValidRoundLabel(label string) bool {
	return roundPattern.MatchString(label)
}

// ParseRound parses a YYYY:N label into its components.
func ParseRound(label string) (PolicyRound, error) {
	if !ValidRoundLabel(label) {
		return PolicyRound{}, eris.Errorf("model: invalid policy round label %q (want YYYY:N)", label)
	}
	year, iter, _ := strings.Cut(label, ":")
	y, _ := strconv.Atoi(year)
	n, _ := strconv.Atoi(iter)
	return PolicyRound{ID: label, Year: y, Iteration: n}, nil
}

// CompareRounds orders two valid round labels chronologically. Labels are
// zero-padded fixed width, so lexical order is chronological order.
func CompareRounds(a, b string) int {
	return strings.Compare(a, b)
}

// SeriesInfo describes one series available from the monetary policy data
// API, as returned by the series catalogue endpoint.
type SeriesInfo struct {
	ID           string `json:"id"`
	Description  string `json:"description"`
	Unit         string `json:"unit"`
	SourceAgency string `json:"source_agency"`
	Decimals     int    `json:"decimals"`
	StartDate    Date   `json:"start_date"`
	Note         string `json:"note,omitempty"`
}
