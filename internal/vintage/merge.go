package vintage

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/aerugo/swemo-mcp/internal/model"
)

// MergeRealized enriches base so that every forecast row also carries the
// realized outcome now known from latest, without discarding the original
// forecast value. Outcome rows base never saw are appended as realized
// observations, regardless of where they fall relative to base's cutoff.
// Neither input is mutated.
func MergeRealized(base, latest model.Vintage) model.Vintage {
	cut := base.CutoffDate

	// date -> realized outcome from the latest vintage, outcome rows only.
	realized := make(map[string]decimal.Decimal)
	for _, o := range latest.Observations {
		if !o.Forecast && o.Date.After(cut) {
			realized[o.Date.String()] = o.Value
		}
	}

	enriched := make([]model.Observation, 0, len(base.Observations))
	baseDates := make(map[string]bool, len(base.Observations))
	for _, o := range base.Observations {
		baseDates[o.Date.String()] = true

		out := o
		if o.Forecast {
			if val, ok := realized[o.Date.String()]; ok {
				v := val
				out.Realized = &v
			}
		} else {
			v := o.Value
			out.Realized = &v
		}
		enriched = append(enriched, out)
	}

	for _, o := range latest.Observations {
		if o.Forecast || baseDates[o.Date.String()] {
			continue
		}
		v := o.Value
		enriched = append(enriched, model.Observation{
			Date:     o.Date,
			Value:    o.Value,
			Realized: &v,
		})
	}

	sort.SliceStable(enriched, func(i, j int) bool {
		return enriched[i].Date.Before(enriched[j].Date)
	})

	out := base
	out.Observations = enriched
	return out
}
