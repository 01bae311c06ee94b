package riksbank

import (
	"context"
	"net/url"
	"strconv"
)

// The SWEA API addresses observations by path segments rather than query
// parameters: Observations/{series}/{from}[/{to}]. An omitted end date means
// "through today".

func datedPath(prefix, from, to string) string {
	p := prefix + "/" + from
	if to != "" {
		p += "/" + to
	}
	return p
}

func languageQuery(language string) url.Values {
	if language == "" {
		language = "en"
	}
	return url.Values{"language": {language}}
}

// SweaObservations fetches raw observations for one SWEA series, e.g. the
// policy rate (SE0001) or an exchange rate (USD_SEK).
func (c *httpClient) SweaObservations(ctx context.Context, seriesID, from, to string) ([]byte, error) {
	return c.getJSON(ctx, c.sweaBaseURL, datedPath("Observations/"+seriesID, from, to), nil, false)
}

// SweaLatestObservation fetches the most recent observation for one SWEA
// series. A nil body means the series has no published observation.
func (c *httpClient) SweaLatestObservation(ctx context.Context, seriesID string) ([]byte, error) {
	return c.getJSON(ctx, c.sweaBaseURL, "Observations/Latest/"+seriesID, nil, true)
}

// SweaCalendarDays fetches Swedish calendar-day data for a period.
func (c *httpClient) SweaCalendarDays(ctx context.Context, from, to string) ([]byte, error) {
	return c.getJSON(ctx, c.sweaBaseURL, datedPath("CalendarDays", from, to), nil, false)
}

// SweaCrossRates fetches the cross rate between two currency series.
func (c *httpClient) SweaCrossRates(ctx context.Context, base, counter, from, to string) ([]byte, error) {
	return c.getJSON(ctx, c.sweaBaseURL, datedPath("CrossRates/"+base+"/"+counter, from, to), nil, false)
}

// SweaCrossRateAggregates fetches period-aggregated cross rates.
func (c *httpClient) SweaCrossRateAggregates(ctx context.Context, base, counter, aggregation, from, to string) ([]byte, error) {
	path := datedPath("CrossRateAggregates/"+base+"/"+counter+"/"+aggregation, from, to)
	return c.getJSON(ctx, c.sweaBaseURL, path, nil, false)
}

// SweaObservationAggregates fetches period-aggregated observations for one
// SWEA series.
func (c *httpClient) SweaObservationAggregates(ctx context.Context, seriesID, aggregation, from, to string) ([]byte, error) {
	path := datedPath("ObservationAggregates/"+seriesID+"/"+aggregation, from, to)
	return c.getJSON(ctx, c.sweaBaseURL, path, nil, false)
}

// SweaGroups fetches the SWEA series-group catalogue.
func (c *httpClient) SweaGroups(ctx context.Context, language string) ([]byte, error) {
	return c.getJSON(ctx, c.sweaBaseURL, "groups", languageQuery(language), false)
}

// SweaGroupDetails fetches one SWEA series group.
func (c *httpClient) SweaGroupDetails(ctx context.Context, groupID int, language string) ([]byte, error) {
	return c.getJSON(ctx, c.sweaBaseURL, "Groups/"+strconv.Itoa(groupID), languageQuery(language), false)
}

// SweaSeriesList fetches the full SWEA series catalogue.
func (c *httpClient) SweaSeriesList(ctx context.Context, language string) ([]byte, error) {
	return c.getJSON(ctx, c.sweaBaseURL, "series", languageQuery(language), false)
}

// SweaSeriesInfo fetches metadata for one SWEA series.
func (c *httpClient) SweaSeriesInfo(ctx context.Context, seriesID, language string) ([]byte, error) {
	return c.getJSON(ctx, c.sweaBaseURL, "Series/"+seriesID, languageQuery(language), false)
}

// SweaExchangeRateSeries fetches the catalogue of exchange-rate series.
func (c *httpClient) SweaExchangeRateSeries(ctx context.Context, language string) ([]byte, error) {
	return c.getJSON(ctx, c.sweaBaseURL, "Series/ExchangeRateSeries", languageQuery(language), false)
}
