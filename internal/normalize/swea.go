package normalize

import (
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/aerugo/swemo-mcp/internal/model"
)

// The SWEA API returns bare JSON arrays rather than a {"data":...} envelope.

// SweaObservations parses a SWEA observation payload into a chronological,
// de-duplicated list. A nil payload means the series holds no observations
// in the period.
func SweaObservations(raw []byte) ([]model.Observation, error) {
	return sweaObsList(raw, "swea.observations")
}

// SweaLatest parses the latest-observation payload for a SWEA series.
// Returns nil when the series has nothing published.
func SweaLatest(raw []byte) (*model.Observation, error) {
	if raw == nil {
		return nil, nil
	}
	var entry *rateObservation
	if err := strictDecode(raw, &entry); err != nil {
		return nil, invalid("", "swea.latest", "malformed JSON: %v", err)
	}
	if entry == nil {
		return nil, nil
	}
	o, err := rateObs("swea.latest", 0, *entry)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CrossRates parses a SWEA cross-rate payload, which shares the
// {"date","value"} observation shape.
func CrossRates(raw []byte) ([]model.Observation, error) {
	return sweaObsList(raw, "swea.cross_rates")
}

func sweaObsList(raw []byte, field string) ([]model.Observation, error) {
	if raw == nil {
		return nil, nil
	}
	var entries []rateObservation
	if err := strictDecode(raw, &entries); err != nil {
		return nil, invalid("", field, "malformed JSON: %v", err)
	}

	obs := make([]model.Observation, 0, len(entries))
	for i, entry := range entries {
		o, err := rateObs(field, i, entry)
		if err != nil {
			return nil, err
		}
		obs = append(obs, o)
	}
	return sortObservations("", field, obs)
}

type rawCalendarDay struct {
	CalendarDate   *string `json:"calendarDate"`
	SwedishBankday *bool   `json:"swedishBankday"`
	WeekYear       *int    `json:"weekYear"`
	WeekNumber     *int    `json:"weekNumber"`
	QuarterNumber  *int    `json:"quarterNumber"`
	Ultimo         *bool   `json:"ultimo"`
}

// CalendarDays parses SWEA calendar-day data into chronological order.
func CalendarDays(raw []byte) ([]model.CalendarDay, error) {
	if raw == nil {
		return nil, nil
	}
	var entries []rawCalendarDay
	if err := strictDecode(raw, &entries); err != nil {
		return nil, invalid("", "swea.calendar_days", "malformed JSON: %v", err)
	}

	days := make([]model.CalendarDay, 0, len(entries))
	for i, entry := range entries {
		if entry.CalendarDate == nil {
			return nil, invalid("", "swea.calendar_days", "entry %d missing calendarDate", i)
		}
		date, err := model.ParseDate(*entry.CalendarDate)
		if err != nil {
			return nil, invalid("", "swea.calendar_days", "entry %d has invalid date %q", i, *entry.CalendarDate)
		}
		if entry.SwedishBankday == nil {
			return nil, invalid("", "swea.calendar_days", "entry %d missing swedishBankday", i)
		}
		if entry.WeekYear == nil || entry.WeekNumber == nil || entry.QuarterNumber == nil || entry.Ultimo == nil {
			return nil, invalid("", "swea.calendar_days", "entry %d missing period markers", i)
		}
		days = append(days, model.CalendarDay{
			Date:           date,
			SwedishBankday: *entry.SwedishBankday,
			WeekYear:       *entry.WeekYear,
			WeekNumber:     *entry.WeekNumber,
			QuarterNumber:  *entry.QuarterNumber,
			Ultimo:         *entry.Ultimo,
		})
	}

	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days, nil
}

// The aggregate endpoints capitalize their keys differently from the rest of
// the API; the shapes below follow the wire exactly.
type rawCrossRateAggregate struct {
	Year  *int         `json:"Year"`
	SeqNr *int         `json:"SeqNr"`
	Value *json.Number `json:"Value"`
}

// CrossRateAggregates parses period-aggregated cross rates ordered by year
// and period.
func CrossRateAggregates(raw []byte) ([]model.CrossRateAggregate, error) {
	if raw == nil {
		return nil, nil
	}
	var entries []rawCrossRateAggregate
	if err := strictDecode(raw, &entries); err != nil {
		return nil, invalid("", "swea.cross_rate_aggregates", "malformed JSON: %v", err)
	}

	aggs := make([]model.CrossRateAggregate, 0, len(entries))
	for i, entry := range entries {
		if entry.Year == nil || entry.SeqNr == nil {
			return nil, invalid("", "swea.cross_rate_aggregates", "entry %d missing period", i)
		}
		if entry.Value == nil {
			return nil, invalid("", "swea.cross_rate_aggregates", "entry %d missing value", i)
		}
		value, err := decimal.NewFromString(entry.Value.String())
		if err != nil {
			return nil, invalid("", "swea.cross_rate_aggregates",
				"entry %d has non-decimal value %q", i, entry.Value.String())
		}
		aggs = append(aggs, model.CrossRateAggregate{
			Year:  *entry.Year,
			SeqNr: *entry.SeqNr,
			Value: value,
		})
	}

	sort.SliceStable(aggs, func(i, j int) bool {
		if aggs[i].Year != aggs[j].Year {
			return aggs[i].Year < aggs[j].Year
		}
		return aggs[i].SeqNr < aggs[j].SeqNr
	})
	return aggs, nil
}

type rawObservationAggregate struct {
	Year             *int         `json:"year"`
	SeqNr            *int         `json:"seqNr"`
	From             *string      `json:"from"`
	To               *string      `json:"to"`
	Average          *json.Number `json:"average"`
	Min              *json.Number `json:"min"`
	Max              *json.Number `json:"max"`
	Ultimo           *json.Number `json:"ultimo"`
	ObservationCount *int         `json:"observationCount"`
}

// ObservationAggregates parses period-aggregated observations ordered by
// year and period.
func ObservationAggregates(raw []byte) ([]model.ObservationAggregate, error) {
	if raw == nil {
		return nil, nil
	}
	var entries []rawObservationAggregate
	if err := strictDecode(raw, &entries); err != nil {
		return nil, invalid("", "swea.observation_aggregates", "malformed JSON: %v", err)
	}

	aggs := make([]model.ObservationAggregate, 0, len(entries))
	for i, entry := range entries {
		if entry.Year == nil || entry.SeqNr == nil {
			return nil, invalid("", "swea.observation_aggregates", "entry %d missing period", i)
		}
		from, err := requiredDate(entry.From)
		if err != nil {
			return nil, invalid("", "swea.observation_aggregates", "entry %d from: %v", i, err)
		}
		to, err := requiredDate(entry.To)
		if err != nil {
			return nil, invalid("", "swea.observation_aggregates", "entry %d to: %v", i, err)
		}
		if entry.ObservationCount == nil {
			return nil, invalid("", "swea.observation_aggregates", "entry %d missing observationCount", i)
		}

		agg := model.ObservationAggregate{
			Year:             *entry.Year,
			SeqNr:            *entry.SeqNr,
			From:             from,
			To:               to,
			ObservationCount: *entry.ObservationCount,
		}
		for _, f := range []struct {
			name string
			src  *json.Number
			dst  *decimal.Decimal
		}{
			{"average", entry.Average, &agg.Average},
			{"min", entry.Min, &agg.Min},
			{"max", entry.Max, &agg.Max},
			{"ultimo", entry.Ultimo, &agg.Ultimo},
		} {
			if f.src == nil {
				return nil, invalid("", "swea.observation_aggregates", "entry %d missing %s", i, f.name)
			}
			v, err := decimal.NewFromString(f.src.String())
			if err != nil {
				return nil, invalid("", "swea.observation_aggregates",
					"entry %d has non-decimal %s %q", i, f.name, f.src.String())
			}
			*f.dst = v
		}
		aggs = append(aggs, agg)
	}

	sort.SliceStable(aggs, func(i, j int) bool {
		if aggs[i].Year != aggs[j].Year {
			return aggs[i].Year < aggs[j].Year
		}
		return aggs[i].SeqNr < aggs[j].SeqNr
	})
	return aggs, nil
}
