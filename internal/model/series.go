package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Observation is a single dated value within a vintage. Forecast is true
// for rows dated after the vintage's forecast cutoff; such rows are the
// bank's projection rather than a measured outcome. Realized, when set,
// carries the outcome later published for a forecast row (see
// vintage.MergeRealized).
type Observation struct {
	Date     Date             `json:"date"`
	Value    decimal.Decimal  `json:"value"`
	Forecast bool             `json:"forecast"`
	Realized *decimal.Decimal `json:"realized,omitempty"`
}

// Vintage is one policy round's complete output for a series: revision
// metadata plus the chronological observation sequence. Vintages are
// immutable once normalized.
type Vintage struct {
	RevisionTime   time.Time     `json:"revision_time"`
	CutoffDate     Date          `json:"forecast_cutoff_date"`
	PolicyRound    string        `json:"policy_round"`
	PolicyRoundEnd time.Time     `json:"policy_round_end"`
	Observations   []Observation `json:"observations"`
}

// SeriesResponse is the unit returned to callers: every vintage known for
// one series, sorted ascending by policy round with no duplicate labels.
type SeriesResponse struct {
	SeriesID string    `json:"series_id"`
	Vintages []Vintage `json:"vintages"`
}
