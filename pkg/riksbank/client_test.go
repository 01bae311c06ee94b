package riksbank

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerugo/swemo-mcp/internal/resilience"
)

func fastRetry(attempts int) resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		MaxElapsed:     5 * time.Second,
	}
}

func newTestClient(url string, attempts int) Client {
	return NewClient(
		WithPolicyBaseURL(url),
		WithSwestrBaseURL(url),
		WithSweaBaseURL(url),
		WithRetryConfig(fastRetry(attempts)),
	)
}

func TestForecastData_RetriesRateLimitThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecasts", r.URL.Path)
		assert.Equal(t, "SEQGDPNAYCA", r.URL.Query().Get("series"))

		if calls.Add(1) <= 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	body, err := newTestClient(srv.URL, 5).ForecastData(context.Background(), "SEQGDPNAYCA")
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[]}`, string(body))
	assert.Equal(t, int32(4), calls.Load(), "three 429s then one 200")
}

func TestForecastData_ExhaustsRetriesOnPersistent503(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	body, err := newTestClient(srv.URL, 3).ForecastData(context.Background(), "X")
	require.Error(t, err)
	assert.Nil(t, body, "no partial data on failure")

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.True(t, ue.Exhausted)
	assert.Equal(t, http.StatusServiceUnavailable, ue.StatusCode)
	assert.Equal(t, 3, ue.Attempts)
	assert.Equal(t, int32(3), calls.Load())
}

func TestForecastData_BadRequestFailsImmediately(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 5).ForecastData(context.Background(), "X")
	require.Error(t, err)

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.False(t, ue.Exhausted, "a 4xx is a caller bug, not an exhausted budget")
	assert.Equal(t, http.StatusBadRequest, ue.StatusCode)
	assert.Equal(t, 1, ue.Attempts)
	assert.Equal(t, int32(1), calls.Load(), "non-retriable status must not be retried")
}

func TestForecastData_NetworkErrorRetried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	srv.Close() // all connections refused

	_, err := newTestClient(srv.URL, 2).ForecastData(context.Background(), "X")
	require.Error(t, err)

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.True(t, ue.Exhausted)
	assert.Equal(t, 0, ue.StatusCode, "no HTTP status for a pure network failure")
	assert.Equal(t, 2, ue.Attempts)
}

func TestForecastData_CancellationAbortsBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(
		WithPolicyBaseURL(srv.URL),
		WithRetryConfig(resilience.RetryConfig{
			MaxAttempts:    10,
			InitialBackoff: 5 * time.Second,
			MaxBackoff:     5 * time.Second,
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := client.ForecastData(ctx, "X")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second,
		"cancellation must abort the pending backoff sleep, not wait it out")

	var ue *UpstreamError
	assert.False(t, errors.As(err, &ue), "cancellation is not an upstream failure")
}

func TestSwestrRates_NotFoundMeansNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rates", r.URL.Path)
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("from"))
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	body, err := newTestClient(srv.URL, 3).SwestrRates(context.Background(), "2024-01-01", "")
	require.NoError(t, err)
	assert.Nil(t, body)
}

func TestSwestrLatest_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rates/latest", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"date": "2024-06-03", "value": 3.648},
		})
	}))
	defer srv.Close()

	body, err := newTestClient(srv.URL, 3).SwestrLatest(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(body), "2024-06-03")
}

func TestSweaObservations_PathIncludesSeriesAndRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Observations/SE0001/2024-01-01/2024-06-30", r.URL.Path)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	body, err := newTestClient(srv.URL, 3).SweaObservations(context.Background(), "SE0001", "2024-01-01", "2024-06-30")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(body))
}

func TestSweaObservations_OpenEndedRangeOmitsToSegment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Observations/USD_SEK/2024-01-01", r.URL.Path)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 3).SweaObservations(context.Background(), "USD_SEK", "2024-01-01", "")
	require.NoError(t, err)
}

func TestSweaLatestObservation_NotFoundMeansNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Observations/Latest/SE0001", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	body, err := newTestClient(srv.URL, 3).SweaLatestObservation(context.Background(), "SE0001")
	require.NoError(t, err)
	assert.Nil(t, body)
}

func TestSweaCrossRateAggregates_Path(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/CrossRateAggregates/USD_SEK/EUR_SEK/Monthly/2024-01-01", r.URL.Path)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 3).SweaCrossRateAggregates(
		context.Background(), "USD_SEK", "EUR_SEK", "Monthly", "2024-01-01", "")
	require.NoError(t, err)
}

func TestSweaSeriesList_CarriesLanguage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/series", r.URL.Path)
		assert.Equal(t, "sv", r.URL.Query().Get("language"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 3).SweaSeriesList(context.Background(), "sv")
	require.NoError(t, err)
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{"empty", "", 0},
		{"seconds", "7", 7 * time.Second},
		{"negative seconds ignored", "-3", 0},
		{"garbage ignored", "soon", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseRetryAfter(tt.header))
		})
	}

	t.Run("http date", func(t *testing.T) {
		at := time.Now().Add(30 * time.Second).UTC().Format(http.TimeFormat)
		got := parseRetryAfter(at)
		assert.Greater(t, got, 20*time.Second)
		assert.LessOrEqual(t, got, 30*time.Second)
	})
}
