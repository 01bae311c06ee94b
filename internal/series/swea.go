package series

import (
	"context"
	"encoding/json"

	"github.com/aerugo/swemo-mcp/internal/model"
	"github.com/aerugo/swemo-mcp/internal/normalize"
)

// sweaNamed maps mnemonics to the SWEA series the bank publishes daily
// rates under, mirroring the forecast registry.
var sweaNamed = map[string]string{
	"policy-rate":   "SE0001",
	"mortgage-rate": "MORTGAGE_RATE",
	"usd":           "USD_SEK",
	"eur":           "EUR_SEK",
	"gbp":           "GBP_SEK",
}

// ResolveSwea maps a mnemonic or raw SWEA series identifier to a series ID.
// Unknown input is returned unchanged.
func ResolveSwea(nameOrID string) string {
	if id, ok := sweaNamed[nameOrID]; ok {
		return id
	}
	return nameOrID
}

func (s *Service) validateRange(from, to string) error {
	if _, err := model.ParseDate(from); err != nil {
		return &InvalidArgumentError{Argument: "from date", Value: from, Reason: "want YYYY-MM-DD"}
	}
	if to != "" {
		if _, err := model.ParseDate(to); err != nil {
			return &InvalidArgumentError{Argument: "to date", Value: to, Reason: "want YYYY-MM-DD"}
		}
	}
	return nil
}

// SweaObservations retrieves daily observations for one SWEA series (policy
// rate, exchange rates, mortgage rate) over a date range.
func (s *Service) SweaObservations(ctx context.Context, seriesID, from, to string) ([]model.Observation, error) {
	if seriesID == "" {
		return nil, &InvalidArgumentError{Argument: "series", Value: seriesID, Reason: "must not be empty"}
	}
	if err := s.validateRange(from, to); err != nil {
		return nil, err
	}
	raw, err := s.client.SweaObservations(ctx, ResolveSwea(seriesID), from, to)
	if err != nil {
		return nil, err
	}
	return normalize.SweaObservations(raw)
}

// SweaLatest retrieves the most recent observation for one SWEA series, or
// nil when none exists.
func (s *Service) SweaLatest(ctx context.Context, seriesID string) (*model.Observation, error) {
	if seriesID == "" {
		return nil, &InvalidArgumentError{Argument: "series", Value: seriesID, Reason: "must not be empty"}
	}
	raw, err := s.client.SweaLatestObservation(ctx, ResolveSwea(seriesID))
	if err != nil {
		return nil, err
	}
	return normalize.SweaLatest(raw)
}

// CalendarDays retrieves Swedish calendar-day data over a date range.
func (s *Service) CalendarDays(ctx context.Context, from, to string) ([]model.CalendarDay, error) {
	if err := s.validateRange(from, to); err != nil {
		return nil, err
	}
	raw, err := s.client.SweaCalendarDays(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return normalize.CalendarDays(raw)
}

// CrossRates retrieves the cross rate between two currency series.
func (s *Service) CrossRates(ctx context.Context, base, counter, from, to string) ([]model.Observation, error) {
	if base == "" || counter == "" {
		return nil, &InvalidArgumentError{Argument: "currency pair", Value: base + "/" + counter,
			Reason: "both series must be named"}
	}
	if err := s.validateRange(from, to); err != nil {
		return nil, err
	}
	raw, err := s.client.SweaCrossRates(ctx, ResolveSwea(base), ResolveSwea(counter), from, to)
	if err != nil {
		return nil, err
	}
	return normalize.CrossRates(raw)
}

// CrossRateAggregates retrieves period-aggregated cross rates. Aggregation
// is the SWEA period name (Monthly, Quarterly, Yearly).
func (s *Service) CrossRateAggregates(ctx context.Context, base, counter, aggregation, from, to string) ([]model.CrossRateAggregate, error) {
	if base == "" || counter == "" {
		return nil, &InvalidArgumentError{Argument: "currency pair", Value: base + "/" + counter,
			Reason: "both series must be named"}
	}
	if aggregation == "" {
		return nil, &InvalidArgumentError{Argument: "aggregation", Value: aggregation,
			Reason: "want a SWEA period name such as Monthly"}
	}
	if err := s.validateRange(from, to); err != nil {
		return nil, err
	}
	raw, err := s.client.SweaCrossRateAggregates(ctx, ResolveSwea(base), ResolveSwea(counter), aggregation, from, to)
	if err != nil {
		return nil, err
	}
	return normalize.CrossRateAggregates(raw)
}

// ObservationAggregates retrieves period-aggregated observations for one
// SWEA series.
func (s *Service) ObservationAggregates(ctx context.Context, seriesID, aggregation, from, to string) ([]model.ObservationAggregate, error) {
	if seriesID == "" {
		return nil, &InvalidArgumentError{Argument: "series", Value: seriesID, Reason: "must not be empty"}
	}
	if aggregation == "" {
		return nil, &InvalidArgumentError{Argument: "aggregation", Value: aggregation,
			Reason: "want a SWEA period name such as Monthly"}
	}
	if err := s.validateRange(from, to); err != nil {
		return nil, err
	}
	raw, err := s.client.SweaObservationAggregates(ctx, ResolveSwea(seriesID), aggregation, from, to)
	if err != nil {
		return nil, err
	}
	return normalize.ObservationAggregates(raw)
}

// SweaCatalog lists the SWEA series catalogue, or one series when seriesID
// is set. The catalogue is served as the upstream JSON unchanged; its shape
// varies with the language parameter and is not interpreted here.
func (s *Service) SweaCatalog(ctx context.Context, seriesID, language string) (json.RawMessage, error) {
	if seriesID != "" {
		return s.client.SweaSeriesInfo(ctx, seriesID, language)
	}
	return s.client.SweaSeriesList(ctx, language)
}

// SweaGroups lists the SWEA series groups, or one group when groupID is
// positive. Served as upstream JSON unchanged, like SweaCatalog.
func (s *Service) SweaGroups(ctx context.Context, groupID int, language string) (json.RawMessage, error) {
	if groupID > 0 {
		return s.client.SweaGroupDetails(ctx, groupID, language)
	}
	return s.client.SweaGroups(ctx, language)
}

// SweaExchangeRateSeries lists the exchange-rate series catalogue as
// upstream JSON unchanged.
func (s *Service) SweaExchangeRateSeries(ctx context.Context, language string) (json.RawMessage, error) {
	return s.client.SweaExchangeRateSeries(ctx, language)
}
