package riksbank

import (
	"context"
	"net/url"
)

// ForecastData fetches the raw vintage payload for one series. The endpoint
// returns every published vintage; policy-round selection happens locally
// so that "latest" and what-was-known-at-the-time views come from a single
// consistent snapshot.
func (c *httpClient) ForecastData(ctx context.Context, seriesID string) ([]byte, error) {
	query := url.Values{"series": {seriesID}}
	return c.getJSON(ctx, c.policyBaseURL, "forecasts", query, false)
}

// PolicyRounds fetches the round catalogue, e.g. ["2024:1","2024:2",...].
func (c *httpClient) PolicyRounds(ctx context.Context) ([]byte, error) {
	return c.getJSON(ctx, c.policyBaseURL, "forecasts/policy_rounds", nil, false)
}

// SeriesList fetches metadata for every series the forecast API serves.
func (c *httpClient) SeriesList(ctx context.Context) ([]byte, error) {
	return c.getJSON(ctx, c.policyBaseURL, "forecasts/series_ids", nil, false)
}

// SwestrRates fetches SWESTR fixings from a start date, optionally bounded
// by an end date. A nil body means the period holds no published fixings.
func (c *httpClient) SwestrRates(ctx context.Context, from, to string) ([]byte, error) {
	query := url.Values{"from": {from}}
	if to != "" {
		query.Set("to", to)
	}
	return c.getJSON(ctx, c.swestrBaseURL, "rates", query, true)
}

// SwestrLatest fetches the most recent published SWESTR fixing.
func (c *httpClient) SwestrLatest(ctx context.Context) ([]byte, error) {
	return c.getJSON(ctx, c.swestrBaseURL, "rates/latest", nil, true)
}
