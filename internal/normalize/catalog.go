package normalize

import (
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/aerugo/swemo-mcp/internal/model"
)

type roundsPayload struct {
	Data []string `json:"data"`
}

// Rounds parses the policy-round catalogue into chronological order.
func Rounds(raw []byte) ([]model.PolicyRound, error) {
	var payload roundsPayload
	if err := strictDecode(raw, &payload); err != nil {
		return nil, invalid("", "policy_rounds", "malformed JSON: %v", err)
	}

	rounds := make([]model.PolicyRound, 0, len(payload.Data))
	for _, label := range payload.Data {
		r, err := model.ParseRound(label)
		if err != nil {
			return nil, invalid("", "policy_rounds", "invalid round label %q", label)
		}
		rounds = append(rounds, r)
	}

	sort.SliceStable(rounds, func(i, j int) bool {
		return model.CompareRounds(rounds[i].ID, rounds[j].ID) < 0
	})
	return rounds, nil
}

type catalogPayload struct {
	Data []struct {
		SeriesID string `json:"series_id"`
		Metadata struct {
			Decimals     *json.Number `json:"decimals"`
			StartDate    *string      `json:"start_date"`
			Description  *string      `json:"description"`
			SourceAgency *string      `json:"source_agency"`
			Unit         *string      `json:"unit"`
			Note         *string      `json:"note"`
		} `json:"metadata"`
	} `json:"data"`
}

// Catalog parses the series catalogue returned by the series_ids endpoint.
func Catalog(raw []byte) ([]model.SeriesInfo, error) {
	var payload catalogPayload
	if err := strictDecode(raw, &payload); err != nil {
		return nil, invalid("", "series_ids", "malformed JSON: %v", err)
	}

	infos := make([]model.SeriesInfo, 0, len(payload.Data))
	for _, entry := range payload.Data {
		if entry.SeriesID == "" {
			return nil, invalid("", "series_ids", "entry missing series_id")
		}
		md := entry.Metadata

		info := model.SeriesInfo{ID: entry.SeriesID}
		if md.Description != nil {
			info.Description = *md.Description
		}
		if md.Unit != nil {
			info.Unit = *md.Unit
		}
		if md.SourceAgency != nil {
			info.SourceAgency = *md.SourceAgency
		}
		if md.Note != nil {
			info.Note = *md.Note
		}
		if md.Decimals != nil {
			n, err := md.Decimals.Int64()
			if err != nil {
				return nil, invalid(entry.SeriesID, "metadata.decimals",
					"not an integer: %q", md.Decimals.String())
			}
			info.Decimals = int(n)
		}
		if md.StartDate != nil {
			d, err := model.ParseDate(*md.StartDate)
			if err != nil {
				return nil, invalid(entry.SeriesID, "metadata.start_date",
					"invalid date %q", *md.StartDate)
			}
			info.StartDate = d
		}
		infos = append(infos, info)
	}

	return infos, nil
}

type swestrPayload struct {
	Data []rateObservation `json:"data"`
}

type swestrLatestPayload struct {
	Data *rateObservation `json:"data"`
}

// rateObservation is the {"date","value"} wire pair shared by the SWESTR
// and SWEA rate endpoints.
type rateObservation struct {
	Date  *string      `json:"date"`
	Value *json.Number `json:"value"`
}

// SwestrRates parses a SWESTR fixings payload into a chronological,
// de-duplicated observation list. A nil payload (404 upstream) means no
// fixings were published in the period.
func SwestrRates(raw []byte) ([]model.Observation, error) {
	if raw == nil {
		return nil, nil
	}
	var payload swestrPayload
	if err := strictDecode(raw, &payload); err != nil {
		return nil, invalid("", "swestr.rates", "malformed JSON: %v", err)
	}

	obs := make([]model.Observation, 0, len(payload.Data))
	for i, entry := range payload.Data {
		o, err := rateObs("swestr.rates", i, entry)
		if err != nil {
			return nil, err
		}
		obs = append(obs, o)
	}
	return sortObservations("", "swestr.rates", obs)
}

// SwestrLatest parses the latest-fixing payload. Returns nil when the API
// has no fixing to report.
func SwestrLatest(raw []byte) (*model.Observation, error) {
	if raw == nil {
		return nil, nil
	}
	var payload swestrLatestPayload
	if err := strictDecode(raw, &payload); err != nil {
		return nil, invalid("", "swestr.latest", "malformed JSON: %v", err)
	}
	if payload.Data == nil {
		return nil, nil
	}
	o, err := rateObs("swestr.latest", 0, *payload.Data)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func rateObs(field string, idx int, entry rateObservation) (model.Observation, error) {
	var zero model.Observation
	if entry.Date == nil {
		return zero, invalid("", field, "entry %d missing date", idx)
	}
	date, err := model.ParseDate(*entry.Date)
	if err != nil {
		return zero, invalid("", field, "entry %d has invalid date %q", idx, *entry.Date)
	}
	if entry.Value == nil {
		return zero, invalid("", field, "entry %d missing value", idx)
	}
	value, err := decimal.NewFromString(entry.Value.String())
	if err != nil {
		return zero, invalid("", field, "entry %d has non-decimal value %q", idx, entry.Value.String())
	}
	return model.Observation{Date: date, Value: value}, nil
}
