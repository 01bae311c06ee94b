// Package normalize turns raw Riksbank API payloads into validated domain
// records. Every structural rule is enforced here so that downstream code
// can rely on sorted, de-duplicated, fully-typed data.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aerugo/swemo-mcp/internal/model"
)

// Wire shapes of the monetary policy data API. Metadata fields are pointers
// so that a missing field is distinguishable from a zero value.
type forecastPayload struct {
	Data []forecastSeries `json:"data"`
}

type forecastSeries struct {
	ExternalID string       `json:"external_id"`
	Vintages   []rawVintage `json:"vintages"`
}

type rawVintage struct {
	Metadata     *rawMetadata     `json:"metadata"`
	Observations []rawObservation `json:"observations"`
}

type rawMetadata struct {
	RevisionDtm        *string `json:"revision_dtm"`
	ForecastCutoffDate *string `json:"forecast_cutoff_date"`
	PolicyRound        *string `json:"policy_round"`
	PolicyRoundCode    *string `json:"policy_round_code"`
	PolicyRoundEndDtm  *string `json:"policy_round_end_dtm"`
}

type rawObservation struct {
	Dt *string `json:"dt"`
	// Raw so that a string-typed value can be told apart from a number and
	// rejected; json.Number would silently accept "2.0".
	Value *json.RawMessage `json:"value"`
}

// Series parses a raw forecast payload into a validated SeriesResponse.
// It fails with *ValidationError on the first violation: a missing or
// wrong-typed metadata field, an unparseable date or value, a duplicate
// policy-round label, or duplicate observation dates with differing values.
// Vintages and observations are re-sorted; upstream order is not trusted.
func Series(raw []byte, seriesID string) (*model.SeriesResponse, error) {
	var payload forecastPayload
	if err := strictDecode(raw, &payload); err != nil {
		return nil, invalid(seriesID, "payload", "malformed JSON: %v", err)
	}

	resp := &model.SeriesResponse{SeriesID: seriesID}
	if len(payload.Data) == 0 {
		return resp, nil
	}

	entry := payload.Data[0]
	if entry.ExternalID != "" {
		resp.SeriesID = entry.ExternalID
	}

	for i, rv := range entry.Vintages {
		v, err := vintage(resp.SeriesID, i, rv)
		if err != nil {
			return nil, err
		}
		resp.Vintages = append(resp.Vintages, v)
	}

	sort.SliceStable(resp.Vintages, func(i, j int) bool {
		return model.CompareRounds(resp.Vintages[i].PolicyRound, resp.Vintages[j].PolicyRound) < 0
	})
	for i := 1; i < len(resp.Vintages); i++ {
		if resp.Vintages[i].PolicyRound == resp.Vintages[i-1].PolicyRound {
			return nil, invalid(resp.SeriesID, "vintages",
				"duplicate policy round %q", resp.Vintages[i].PolicyRound)
		}
	}

	return resp, nil
}

func vintage(seriesID string, idx int, rv rawVintage) (model.Vintage, error) {
	field := func(name string) string {
		return fmt.Sprintf("vintages[%d].%s", idx, name)
	}

	var zero model.Vintage
	if rv.Metadata == nil {
		return zero, invalid(seriesID, field("metadata"), "missing")
	}
	md := rv.Metadata

	revision, err := requiredInstant(md.RevisionDtm)
	if err != nil {
		return zero, invalid(seriesID, field("metadata.revision_dtm"), "%v", err)
	}
	cutoff, err := requiredDate(md.ForecastCutoffDate)
	if err != nil {
		return zero, invalid(seriesID, field("metadata.forecast_cutoff_date"), "%v", err)
	}
	if md.PolicyRound == nil {
		return zero, invalid(seriesID, field("metadata.policy_round"), "missing")
	}
	if !model.ValidRoundLabel(*md.PolicyRound) {
		return zero, invalid(seriesID, field("metadata.policy_round"),
			"label %q does not match YYYY:N", *md.PolicyRound)
	}
	roundEnd, err := requiredInstant(md.PolicyRoundEndDtm)
	if err != nil {
		return zero, invalid(seriesID, field("metadata.policy_round_end_dtm"), "%v", err)
	}
	if rv.Observations == nil {
		return zero, invalid(seriesID, field("observations"), "missing")
	}

	obs := make([]model.Observation, 0, len(rv.Observations))
	for j, ro := range rv.Observations {
		obsField := func(name string) string {
			return fmt.Sprintf("%s[%d].%s", field("observations"), j, name)
		}
		if ro.Dt == nil {
			return zero, invalid(seriesID, obsField("dt"), "missing")
		}
		date, err := model.ParseDate(*ro.Dt)
		if err != nil {
			return zero, invalid(seriesID, obsField("dt"), "invalid date %q", *ro.Dt)
		}
		if ro.Value == nil {
			return zero, invalid(seriesID, obsField("value"), "missing")
		}
		text := string(*ro.Value)
		if len(text) > 0 && text[0] == '"' {
			return zero, invalid(seriesID, obsField("value"), "must be a JSON number, got string %s", text)
		}
		value, err := decimal.NewFromString(text)
		if err != nil {
			return zero, invalid(seriesID, obsField("value"), "not a finite decimal: %s", text)
		}
		obs = append(obs, model.Observation{
			Date:     date,
			Value:    value,
			Forecast: date.After(cutoff),
		})
	}

	obs, err = sortObservations(seriesID, field("observations"), obs)
	if err != nil {
		return zero, err
	}

	return model.Vintage{
		RevisionTime:   revision,
		CutoffDate:     cutoff,
		PolicyRound:    *md.PolicyRound,
		PolicyRoundEnd: roundEnd,
		Observations:   obs,
	}, nil
}

// sortObservations orders observations by date and collapses exact
// duplicates. Duplicate dates carrying different values are ambiguous data
// and fail validation; they are never merged at this layer.
func sortObservations(seriesID, field string, obs []model.Observation) ([]model.Observation, error) {
	sort.SliceStable(obs, func(i, j int) bool {
		return obs[i].Date.Before(obs[j].Date)
	})

	out := obs[:0]
	for _, o := range obs {
		if len(out) == 0 || !o.Date.Equal(out[len(out)-1].Date) {
			out = append(out, o)
			continue
		}
		prev := out[len(out)-1]
		if !o.Value.Equal(prev.Value) {
			return nil, invalid(seriesID, field,
				"duplicate date %s with differing values %s and %s",
				o.Date, prev.Value, o.Value)
		}
	}
	return out, nil
}

func strictDecode(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

func requiredInstant(s *string) (time.Time, error) {
	if s == nil {
		return time.Time{}, fmt.Errorf("missing")
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", *s)
	}
	return t, nil
}

func requiredDate(s *string) (model.Date, error) {
	if s == nil {
		return model.Date{}, fmt.Errorf("missing")
	}
	d, err := model.ParseDate(*s)
	if err != nil {
		return model.Date{}, fmt.Errorf("invalid date %q", *s)
	}
	return d, nil
}
