package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture with vintages deliberately out of order and a forecast tail.
const gdpFixture = `{
  "data": [
    {
      "external_id": "SEQGDPNAYCA",
      "vintages": [
        {
          "metadata": {
            "revision_dtm": "2024-05-01T08:00:00Z",
            "forecast_cutoff_date": "2024-04-20",
            "policy_round": "2024:2",
            "policy_round_code": "MPR242",
            "policy_round_end_dtm": "2024-06-26T00:00:00Z"
          },
          "observations": [
            {"dt": "2024-06-30", "value": 1.1},
            {"dt": "2024-03-31", "value": 2.30}
          ]
        },
        {
          "metadata": {
            "revision_dtm": "2024-02-01T08:00:00Z",
            "forecast_cutoff_date": "2024-01-25",
            "policy_round": "2024:1",
            "policy_round_code": "MPR241",
            "policy_round_end_dtm": "2024-03-26T00:00:00Z"
          },
          "observations": [
            {"dt": "2024-03-31", "value": 2.0}
          ]
        }
      ]
    }
  ]
}`

func TestSeries_ValidPayload(t *testing.T) {
	resp, err := Series([]byte(gdpFixture), "SEQGDPNAYCA")
	require.NoError(t, err)

	assert.Equal(t, "SEQGDPNAYCA", resp.SeriesID)
	require.Len(t, resp.Vintages, 2)

	// Re-sorted ascending by policy round despite upstream order.
	assert.Equal(t, "2024:1", resp.Vintages[0].PolicyRound)
	assert.Equal(t, "2024:2", resp.Vintages[1].PolicyRound)

	// Observations sorted ascending by date.
	v2 := resp.Vintages[1]
	require.Len(t, v2.Observations, 2)
	assert.Equal(t, "2024-03-31", v2.Observations[0].Date.String())
	assert.Equal(t, "2024-06-30", v2.Observations[1].Date.String())

	// Rows after the cutoff are forecasts, rows before are outcomes.
	assert.False(t, v2.Observations[0].Forecast, "2024-03-31 is before the 2024-04-20 cutoff")
	assert.True(t, v2.Observations[1].Forecast, "2024-06-30 is after the cutoff")
}

func TestSeries_ValueTextRoundTripsExactly(t *testing.T) {
	resp, err := Series([]byte(gdpFixture), "SEQGDPNAYCA")
	require.NoError(t, err)

	// "2.30" must survive with its trailing zero; float64 would drop it.
	got := resp.Vintages[1].Observations[0].Value
	assert.Equal(t, "2.30", got.String())

	out, err := json.Marshal(resp.Vintages[1].Observations[0])
	require.NoError(t, err)
	assert.Contains(t, string(out), "2.30")
	assert.Contains(t, string(out), "2024-03-31")
}

func TestSeries_EmptyPayload(t *testing.T) {
	resp, err := Series([]byte(`{"data":[]}`), "SEQGDPNAYCA")
	require.NoError(t, err)
	assert.Equal(t, "SEQGDPNAYCA", resp.SeriesID)
	assert.Empty(t, resp.Vintages)
}

func TestSeries_ValidationFailures(t *testing.T) {
	vintageJSON := func(metadata, observations string) string {
		return `{"data":[{"external_id":"X","vintages":[{"metadata":` + metadata +
			`,"observations":` + observations + `}]}]}`
	}
	validMeta := `{"revision_dtm":"2024-02-01T08:00:00Z","forecast_cutoff_date":"2024-01-25","policy_round":"2024:1","policy_round_end_dtm":"2024-03-26T00:00:00Z"}`

	tests := []struct {
		name    string
		raw     string
		wantMsg string
	}{
		{
			name:    "not json",
			raw:     `{invalid`,
			wantMsg: "malformed JSON",
		},
		{
			name:    "missing revision timestamp",
			raw:     vintageJSON(`{"forecast_cutoff_date":"2024-01-25","policy_round":"2024:1","policy_round_end_dtm":"2024-03-26T00:00:00Z"}`, `[]`),
			wantMsg: "revision_dtm",
		},
		{
			name:    "missing cutoff",
			raw:     vintageJSON(`{"revision_dtm":"2024-02-01T08:00:00Z","policy_round":"2024:1","policy_round_end_dtm":"2024-03-26T00:00:00Z"}`, `[]`),
			wantMsg: "forecast_cutoff_date",
		},
		{
			name:    "bad round label",
			raw:     vintageJSON(`{"revision_dtm":"2024-02-01T08:00:00Z","forecast_cutoff_date":"2024-01-25","policy_round":"round-one","policy_round_end_dtm":"2024-03-26T00:00:00Z"}`, `[]`),
			wantMsg: "does not match YYYY:N",
		},
		{
			name:    "missing observations",
			raw:     `{"data":[{"external_id":"X","vintages":[{"metadata":` + validMeta + `}]}]}`,
			wantMsg: "observations",
		},
		{
			name:    "missing observation value",
			raw:     vintageJSON(validMeta, `[{"dt":"2024-03-31"}]`),
			wantMsg: "value",
		},
		{
			name:    "string-typed value",
			raw:     vintageJSON(validMeta, `[{"dt":"2024-03-31","value":"2.0"}]`),
			wantMsg: "must be a JSON number",
		},
		{
			name:    "bad observation date",
			raw:     vintageJSON(validMeta, `[{"dt":"not-a-date","value":2.0}]`),
			wantMsg: "invalid date",
		},
		{
			name:    "duplicate dates with differing values",
			raw:     vintageJSON(validMeta, `[{"dt":"2024-03-31","value":2.0},{"dt":"2024-03-31","value":2.1}]`),
			wantMsg: "duplicate date",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Series([]byte(tt.raw), "X")
			require.Error(t, err)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestSeries_DuplicateRoundLabelRejected(t *testing.T) {
	meta := `{"revision_dtm":"2024-02-01T08:00:00Z","forecast_cutoff_date":"2024-01-25","policy_round":"2024:1","policy_round_end_dtm":"2024-03-26T00:00:00Z"}`
	raw := `{"data":[{"external_id":"X","vintages":[` +
		`{"metadata":` + meta + `,"observations":[]},` +
		`{"metadata":` + meta + `,"observations":[]}]}]}`

	_, err := Series([]byte(raw), "X")
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, err.Error(), `duplicate policy round "2024:1"`)
}

func TestSeries_IdenticalDuplicateDatesCollapse(t *testing.T) {
	meta := `{"revision_dtm":"2024-02-01T08:00:00Z","forecast_cutoff_date":"2024-01-25","policy_round":"2024:1","policy_round_end_dtm":"2024-03-26T00:00:00Z"}`
	raw := `{"data":[{"external_id":"X","vintages":[{"metadata":` + meta +
		`,"observations":[{"dt":"2024-03-31","value":2.0},{"dt":"2024-03-31","value":2.0}]}]}]}`

	resp, err := Series([]byte(raw), "X")
	require.NoError(t, err)
	require.Len(t, resp.Vintages, 1)
	assert.Len(t, resp.Vintages[0].Observations, 1)
}

func TestSeries_ExternalIDEchoedOverRequested(t *testing.T) {
	raw := `{"data":[{"external_id":"SEQGDPNAYCA","vintages":[]}]}`
	resp, err := Series([]byte(raw), "gdp-alias")
	require.NoError(t, err)
	assert.Equal(t, "SEQGDPNAYCA", resp.SeriesID)
}

func TestSeries_ObservationDatesUnique(t *testing.T) {
	resp, err := Series([]byte(gdpFixture), "SEQGDPNAYCA")
	require.NoError(t, err)
	for _, v := range resp.Vintages {
		seen := map[string]bool{}
		for _, o := range v.Observations {
			key := o.Date.String()
			assert.False(t, seen[key], "duplicate date %s in round %s", key, v.PolicyRound)
			seen[key] = true
		}
	}
}
