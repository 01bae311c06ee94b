package series

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerugo/swemo-mcp/internal/vintage"
	"github.com/aerugo/swemo-mcp/pkg/riksbank"
)

// fakeClient satisfies riksbank.Client with canned payloads. The embedded
// interface covers the methods a test never touches.
type fakeClient struct {
	riksbank.Client

	forecastCalls atomic.Int32
	lastSeriesID  string

	forecastBody []byte
	forecastErr  error
	roundsBody   []byte
	catalogBody  []byte
	swestrBody   []byte
	latestBody   []byte
}

func (f *fakeClient) ForecastData(_ context.Context, seriesID string) ([]byte, error) {
	f.forecastCalls.Add(1)
	f.lastSeriesID = seriesID
	return f.forecastBody, f.forecastErr
}

func (f *fakeClient) PolicyRounds(context.Context) ([]byte, error) { return f.roundsBody, nil }
func (f *fakeClient) SeriesList(context.Context) ([]byte, error)   { return f.catalogBody, nil }
func (f *fakeClient) SwestrRates(_ context.Context, _, _ string) ([]byte, error) {
	return f.swestrBody, nil
}
func (f *fakeClient) SwestrLatest(context.Context) ([]byte, error) { return f.latestBody, nil }

func fixtureVintage(round, revised, cutoff string, rows string) string {
	return fmt.Sprintf(`{
	  "metadata": {
	    "revision_dtm": "%s",
	    "forecast_cutoff_date": "%s",
	    "policy_round": "%s",
	    "policy_round_end_dtm": "%s"
	  },
	  "observations": [%s]
	}`, revised, cutoff, round, revised, rows)
}

func gdpFixture() []byte {
	v1 := fixtureVintage("2024:1", "2024-02-01T08:00:00Z", "2024-01-25",
		`{"dt":"2024-03-31","value":2.0},{"dt":"2024-06-30","value":1.8}`)
	v2 := fixtureVintage("2024:2", "2024-05-01T08:00:00Z", "2024-04-20",
		`{"dt":"2024-03-31","value":2.3},{"dt":"2024-06-30","value":1.9}`)
	v3 := fixtureVintage("2024:3", "2024-09-01T08:00:00Z", "2024-08-20",
		`{"dt":"2024-06-30","value":2.1},{"dt":"2024-09-30","value":1.5}`)
	return []byte(`{"data":[{"external_id":"SEQGDPNAYCA","vintages":[` + v1 + "," + v2 + "," + v3 + `]}]}`)
}

func TestParseSelector(t *testing.T) {
	tests := []struct {
		in       string
		wantMode vintage.Mode
		wantErr  bool
	}{
		{"", vintage.ModeUnspecified, false},
		{"latest", vintage.ModeLatest, false},
		{"LATEST", vintage.ModeLatest, false},
		{"2024:3", vintage.ModePinned, false},
		{"not-a-round", 0, true},
		{"2024:0", 0, true},
		{"24:1", 0, true},
		{"2024:10", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			sel, err := ParseSelector(tt.in)
			if tt.wantErr {
				var ia *InvalidArgumentError
				require.ErrorAs(t, err, &ia)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMode, sel.Mode)
		})
	}
}

func TestFetch_PinnedRoundReturnsPrefix(t *testing.T) {
	fake := &fakeClient{forecastBody: gdpFixture()}
	svc := NewService(fake)

	resp, err := svc.Fetch(context.Background(), "SEQGDPNAYCA", "2024:3")
	require.NoError(t, err)

	assert.Equal(t, "SEQGDPNAYCA", resp.SeriesID)
	require.Len(t, resp.Vintages, 3)
	assert.Equal(t, "2024:1", resp.Vintages[0].PolicyRound)
	assert.Equal(t, "2024:2", resp.Vintages[1].PolicyRound)
	assert.Equal(t, "2024:3", resp.Vintages[2].PolicyRound)
}

func TestFetch_InvalidRoundFailsBeforeNetwork(t *testing.T) {
	fake := &fakeClient{forecastBody: gdpFixture()}
	svc := NewService(fake)

	_, err := svc.Fetch(context.Background(), "X", "not-a-round")
	require.Error(t, err)

	var ia *InvalidArgumentError
	require.ErrorAs(t, err, &ia)
	assert.Equal(t, int32(0), fake.forecastCalls.Load(), "no network call for a caller bug")
}

func TestFetch_LatestYieldsSingleMergedVintage(t *testing.T) {
	fake := &fakeClient{forecastBody: gdpFixture()}
	svc := NewService(fake)

	resp, err := svc.Fetch(context.Background(), "SEQGDPNAYCA", "latest")
	require.NoError(t, err)
	require.Len(t, resp.Vintages, 1)

	merged := resp.Vintages[0]
	assert.Equal(t, "2024:3", merged.PolicyRound)

	values := map[string]string{}
	for _, o := range merged.Observations {
		values[o.Date.String()] = o.Value.String()
	}
	assert.Equal(t, map[string]string{
		"2024-03-31": "2.3",
		"2024-06-30": "2.1",
		"2024-09-30": "1.5",
	}, values)
}

func TestFetch_UnknownPinnedRound(t *testing.T) {
	fake := &fakeClient{forecastBody: gdpFixture()}
	svc := NewService(fake)

	_, err := svc.Fetch(context.Background(), "SEQGDPNAYCA", "2023:4")
	require.Error(t, err)

	var nf *vintage.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestFetch_MnemonicResolvesToSeriesID(t *testing.T) {
	fake := &fakeClient{forecastBody: gdpFixture()}
	svc := NewService(fake)

	_, err := svc.Fetch(context.Background(), "gdp", "")
	require.NoError(t, err)
	assert.Equal(t, "SEQGDPNAYCA", fake.lastSeriesID)
}

func TestFetch_ClientErrorPropagatesUnchanged(t *testing.T) {
	wantErr := fmt.Errorf("boom")
	fake := &fakeClient{forecastErr: wantErr}
	svc := NewService(fake)

	_, err := svc.Fetch(context.Background(), "SEQGDPNAYCA", "")
	require.ErrorIs(t, err, wantErr)
	assert.Equal(t, int32(1), fake.forecastCalls.Load(), "the facade never retries")
}

func TestFetchRealized_EnrichesPinnedVintage(t *testing.T) {
	fake := &fakeClient{forecastBody: gdpFixture()}
	svc := NewService(fake)

	resp, err := svc.FetchRealized(context.Background(), "SEQGDPNAYCA", "2024:1")
	require.NoError(t, err)
	require.Len(t, resp.Vintages, 1)

	var found bool
	for _, o := range resp.Vintages[0].Observations {
		if o.Date.String() == "2024-06-30" && o.Forecast {
			found = true
			assert.Equal(t, "1.8", o.Value.String(), "forecast value preserved")
			require.NotNil(t, o.Realized)
			assert.Equal(t, "2.1", o.Realized.String(), "outcome from the newest revision")
		}
	}
	assert.True(t, found, "expected the 2024-06-30 forecast row")
	assert.Equal(t, int32(1), fake.forecastCalls.Load(),
		"realized merge reuses the single upstream snapshot")
}

func TestFetchMany_ConcurrentIndependentResponses(t *testing.T) {
	fake := &fakeClient{forecastBody: gdpFixture()}
	svc := NewService(fake, WithMaxConcurrent(2))

	resps, err := svc.FetchMany(context.Background(), []string{"gdp", "SEQGDPNAYCA"}, "latest")
	require.NoError(t, err)
	require.Len(t, resps, 2)
	for _, resp := range resps {
		require.NotNil(t, resp)
		assert.Len(t, resp.Vintages, 1)
	}
	assert.Equal(t, int32(2), fake.forecastCalls.Load())
}

func TestFetchMany_InvalidRoundFailsBeforeAnyFetch(t *testing.T) {
	fake := &fakeClient{forecastBody: gdpFixture()}
	svc := NewService(fake)

	_, err := svc.FetchMany(context.Background(), []string{"gdp"}, "nope")
	var ia *InvalidArgumentError
	require.ErrorAs(t, err, &ia)
	assert.Equal(t, int32(0), fake.forecastCalls.Load())
}

func TestRounds(t *testing.T) {
	fake := &fakeClient{roundsBody: []byte(`{"data":["2024:2","2024:1"]}`)}
	svc := NewService(fake)

	rounds, err := svc.Rounds(context.Background())
	require.NoError(t, err)
	require.Len(t, rounds, 2)
	assert.Equal(t, "2024:1", rounds[0].ID)
}

func TestCatalog(t *testing.T) {
	fake := &fakeClient{catalogBody: []byte(
		`{"data":[{"series_id":"SEQGDPNAYCA","metadata":{"unit":"percent"}}]}`)}
	svc := NewService(fake)

	infos, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "percent", infos[0].Unit)
}

func TestSwestr_InvalidDatesFailFast(t *testing.T) {
	fake := &fakeClient{}
	svc := NewService(fake)

	_, err := svc.Swestr(context.Background(), "June 3rd", "")
	var ia *InvalidArgumentError
	require.ErrorAs(t, err, &ia)

	_, err = svc.Swestr(context.Background(), "2024-06-03", "tomorrow")
	require.ErrorAs(t, err, &ia)
}

func TestSwestr_Fetches(t *testing.T) {
	fake := &fakeClient{swestrBody: []byte(`{"data":[{"date":"2024-06-03","value":3.648}]}`)}
	svc := NewService(fake)

	obs, err := svc.Swestr(context.Background(), "2024-06-01", "2024-06-30")
	require.NoError(t, err)
	require.Len(t, obs, 1)
	assert.Equal(t, "3.648", obs[0].Value.String())
}

func TestResolve(t *testing.T) {
	assert.Equal(t, "SEQGDPNAYCA", Resolve("gdp"))
	assert.Equal(t, "SEMCPINAYNA", Resolve("cpi"))
	assert.Equal(t, "SEQFOOBAR", Resolve("SEQFOOBAR"), "unknown input passes through")
}

func TestRegistry_SortedAndCopied(t *testing.T) {
	reg := Registry()
	require.NotEmpty(t, reg)
	for i := 1; i < len(reg); i++ {
		assert.Less(t, reg[i-1].Name, reg[i].Name)
	}

	reg[0].Name = "mutated"
	assert.NotEqual(t, "mutated", Registry()[0].Name, "Registry returns a copy")
}
