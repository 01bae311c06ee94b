package vintage

import (
	"sort"
	"time"

	"github.com/aerugo/swemo-mcp/internal/model"
)

// Reconcile applies the selector to a normalized vintage set. The input is
// assumed sorted ascending by policy round with unique labels (the
// normalizer guarantees both); the result preserves that ordering. The
// input slice is never mutated.
func Reconcile(vintages []model.Vintage, sel Selector) ([]model.Vintage, error) {
	switch sel.Mode {
	case ModePinned:
		return pin(vintages, sel.Round)
	case ModeLatest:
		return []model.Vintage{fold(vintages)}, nil
	default:
		return vintages, nil
	}
}

// pin returns the vintages up to and including the pinned round. Later
// rounds stay invisible so the caller sees exactly what was known at the
// time. The pinned label must name a round actually present.
func pin(vintages []model.Vintage, round string) ([]model.Vintage, error) {
	found := false
	cut := 0
	for i, v := range vintages {
		if v.PolicyRound == round {
			found = true
		}
		if model.CompareRounds(v.PolicyRound, round) <= 0 {
			cut = i + 1
		}
	}
	if !found {
		return nil, &NotFoundError{Round: round}
	}
	return vintages[:cut:cut], nil
}

// fold builds the single best-known series: for every date appearing in any
// vintage, the value from the vintage with the greatest revision timestamp
// wins. Revision time, not round label, breaks ties because a round can be
// revised post-hoc. Metadata comes from the chronologically last vintage,
// which makes the fold idempotent.
func fold(vintages []model.Vintage) model.Vintage {
	if len(vintages) == 0 {
		return model.Vintage{}
	}

	type winner struct {
		obs     model.Observation
		revised time.Time
	}
	winners := make(map[string]winner)

	for _, v := range vintages {
		for _, o := range v.Observations {
			key := o.Date.String()
			if w, ok := winners[key]; ok && w.revised.After(v.RevisionTime) {
				continue
			}
			winners[key] = winner{obs: o, revised: v.RevisionTime}
		}
	}

	merged := make([]model.Observation, 0, len(winners))
	for _, w := range winners {
		merged = append(merged, w.obs)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Date.Before(merged[j].Date)
	})

	last := vintages[len(vintages)-1]
	return model.Vintage{
		RevisionTime:   last.RevisionTime,
		CutoffDate:     last.CutoffDate,
		PolicyRound:    last.PolicyRound,
		PolicyRoundEnd: last.PolicyRoundEnd,
		Observations:   merged,
	}
}
