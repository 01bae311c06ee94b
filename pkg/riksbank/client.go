package riksbank

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/aerugo/swemo-mcp/internal/resilience"
)

const (
	defaultPolicyBaseURL = "https://api.riksbank.se/monetary_policy_data/v1"
	defaultSwestrBaseURL = "https://api.riksbank.se/swestr/v1"
	defaultSweaBaseURL   = "https://api.riksbank.se/swea/v1"
	defaultUserAgent     = "swemo-mcp/1.0"
	defaultTimeout       = 10 * time.Second
)

// Client performs GET requests against the Riksbank's public APIs and
// returns raw JSON bodies. All methods share one connection pool and one
// politeness rate limiter; the client is safe for concurrent use and holds
// no per-request state.
type Client interface {
	// ForecastData fetches every vintage of one monetary-policy series.
	ForecastData(ctx context.Context, seriesID string) ([]byte, error)

	// PolicyRounds fetches the catalogue of published policy rounds.
	PolicyRounds(ctx context.Context) ([]byte, error)

	// SeriesList fetches metadata for all available forecast series.
	SeriesList(ctx context.Context) ([]byte, error)

	// SwestrRates fetches SWESTR fixings from a start date, optionally
	// bounded by an end date (both ISO 8601 dates).
	SwestrRates(ctx context.Context, from, to string) ([]byte, error)

	// SwestrLatest fetches the most recent published SWESTR fixing.
	SwestrLatest(ctx context.Context) ([]byte, error)

	// SweaObservations fetches daily observations for one SWEA series
	// (policy rate, exchange rates, mortgage rate) from a start date,
	// optionally bounded by an end date.
	SweaObservations(ctx context.Context, seriesID, from, to string) ([]byte, error)

	// SweaLatestObservation fetches the most recent observation for one
	// SWEA series.
	SweaLatestObservation(ctx context.Context, seriesID string) ([]byte, error)

	// SweaCalendarDays fetches Swedish calendar-day data for a period.
	SweaCalendarDays(ctx context.Context, from, to string) ([]byte, error)

	// SweaCrossRates fetches the cross rate between two currency series.
	SweaCrossRates(ctx context.Context, base, counter, from, to string) ([]byte, error)

	// SweaCrossRateAggregates fetches period-aggregated cross rates.
	SweaCrossRateAggregates(ctx context.Context, base, counter, aggregation, from, to string) ([]byte, error)

	// SweaObservationAggregates fetches period-aggregated observations for
	// one SWEA series.
	SweaObservationAggregates(ctx context.Context, seriesID, aggregation, from, to string) ([]byte, error)

	// SweaGroups fetches the SWEA series-group catalogue.
	SweaGroups(ctx context.Context, language string) ([]byte, error)

	// SweaGroupDetails fetches one SWEA series group.
	SweaGroupDetails(ctx context.Context, groupID int, language string) ([]byte, error)

	// SweaSeriesList fetches the full SWEA series catalogue.
	SweaSeriesList(ctx context.Context, language string) ([]byte, error)

	// SweaSeriesInfo fetches metadata for one SWEA series.
	SweaSeriesInfo(ctx context.Context, seriesID, language string) ([]byte, error)

	// SweaExchangeRateSeries fetches the catalogue of exchange-rate series.
	SweaExchangeRateSeries(ctx context.Context, language string) ([]byte, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithPolicyBaseURL overrides the monetary policy data API base URL.
func WithPolicyBaseURL(u string) Option {
	return func(c *httpClient) {
		c.policyBaseURL = u
	}
}

// WithSwestrBaseURL overrides the SWESTR API base URL.
func WithSwestrBaseURL(u string) Option {
	return func(c *httpClient) {
		c.swestrBaseURL = u
	}
}

// WithSweaBaseURL overrides the SWEA API base URL.
func WithSweaBaseURL(u string) Option {
	return func(c *httpClient) {
		c.sweaBaseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRetryConfig overrides the default retry behavior.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

// WithRateLimiter overrides the client-side politeness limiter.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *httpClient) {
		c.limiter = l
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		c.userAgent = ua
	}
}

type httpClient struct {
	policyBaseURL string
	swestrBaseURL string
	sweaBaseURL   string
	userAgent     string
	http          *http.Client
	retry         resilience.RetryConfig
	limiter       *rate.Limiter
}

// NewClient creates a Riksbank API client. The default configuration uses a
// 10s per-attempt timeout, 5 attempts with exponential backoff and full
// jitter, and a shared 5 req/s limiter.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		policyBaseURL: defaultPolicyBaseURL,
		swestrBaseURL: defaultSwestrBaseURL,
		sweaBaseURL:   defaultSweaBaseURL,
		userAgent:     defaultUserAgent,
		http: &http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				MaxConnsPerHost:     20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		retry:   resilience.DefaultRetryConfig(),
		limiter: rate.NewLimiter(5, 5),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// getJSON issues one resilient GET and returns the response body. Transient
// failures (429, 5xx, network errors) are retried under the configured
// backoff schedule, honoring Retry-After as a floor on the wait; any other
// 4xx fails immediately. When allow404 is set, a 404 yields a nil body
// instead of an error (the SWESTR API uses 404 for "no data in period").
func (c *httpClient) getJSON(ctx context.Context, base, path string, query url.Values, allow404 bool) ([]byte, error) {
	fullURL := base
	if path != "" {
		fullURL += "/" + path
	}
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	cfg := c.retry
	if cfg.OnRetry == nil {
		cfg.OnRetry = resilience.RetryLogger("riksbank", path)
	}

	attempts := 0
	body, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) ([]byte, error) {
		attempts++

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "riksbank: rate limiter wait")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, eris.Wrapf(err, "riksbank: create request for %s", fullURL)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			zap.L().Warn("riksbank request failed",
				zap.String("url", fullURL),
				zap.Int("attempt", attempts),
				zap.Error(err),
			)
			return nil, eris.Wrapf(err, "riksbank: get %s", fullURL)
		}
		defer resp.Body.Close() //nolint:errcheck

		data, readErr := io.ReadAll(resp.Body)

		zap.L().Debug("riksbank request",
			zap.String("url", fullURL),
			zap.Int("status", resp.StatusCode),
			zap.Int("attempt", attempts),
		)

		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				return nil, resilience.NewTransientError(
					eris.Wrapf(readErr, "riksbank: read body from %s", fullURL), resp.StatusCode)
			}
			return data, nil

		case resp.StatusCode == http.StatusNotFound && allow404:
			return nil, nil

		case resilience.IsTransientHTTPStatus(resp.StatusCode):
			return nil, &resilience.TransientError{
				Err:        eris.Errorf("riksbank: http %d from %s", resp.StatusCode, fullURL),
				StatusCode: resp.StatusCode,
				RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			}

		default:
			// Remaining 4xx: the request shape is a caller bug, never retried.
			return nil, &UpstreamError{
				URL:        fullURL,
				StatusCode: resp.StatusCode,
				Attempts:   attempts,
				Err:        eris.Errorf("riksbank: http %d from %s", resp.StatusCode, fullURL),
			}
		}
	})
	if err != nil {
		var ue *UpstreamError
		if errors.As(err, &ue) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, eris.Wrapf(err, "riksbank: request cancelled for %s", fullURL)
		}
		status := 0
		var te *resilience.TransientError
		if errors.As(err, &te) {
			status = te.StatusCode
		}
		return nil, &UpstreamError{
			URL:        fullURL,
			StatusCode: status,
			Attempts:   attempts,
			Exhausted:  true,
			Err:        err,
		}
	}
	return body, nil
}
