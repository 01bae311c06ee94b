package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aerugo/swemo-mcp/internal/normalize"
	"github.com/aerugo/swemo-mcp/internal/series"
	"github.com/aerugo/swemo-mcp/internal/vintage"
	"github.com/aerugo/swemo-mcp/pkg/riksbank"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the series API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc := newService()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(svc),
		}

		go drain(ctx, srv, 10*time.Second)

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// drain stops the server once ctx is done. The shutdown gets a fresh
// timeout context so in-flight requests finish; the already-cancelled
// signal context would abort them immediately.
func drain(ctx context.Context, srv *http.Server, timeout time.Duration) {
	<-ctx.Done()
	zap.L().Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("server shutdown", zap.Error(err))
	}
}

// newRouter builds the HTTP surface over the series facade. The wire format
// here is this server's own; the facade knows nothing about it.
func newRouter(svc *series.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/v1/series", func(w http.ResponseWriter, r *http.Request) {
		infos, err := svc.Catalog(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, infos)
	})

	r.Get("/v1/series/{seriesID}", func(w http.ResponseWriter, r *http.Request) {
		seriesID := chi.URLParam(r, "seriesID")
		round := r.URL.Query().Get("policy_round")

		fetch := svc.Fetch
		if r.URL.Query().Get("realized") == "true" {
			fetch = svc.FetchRealized
		}

		resp, err := fetch(r.Context(), seriesID, round)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})

	r.Get("/v1/policy-rounds", func(w http.ResponseWriter, r *http.Request) {
		rounds, err := svc.Rounds(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rounds)
	})

	r.Get("/v1/swea/series/{seriesID}", func(w http.ResponseWriter, r *http.Request) {
		seriesID := chi.URLParam(r, "seriesID")
		from := r.URL.Query().Get("from")
		if from == "" {
			latest, err := svc.SweaLatest(r.Context(), seriesID)
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, latest)
			return
		}
		obs, err := svc.SweaObservations(r.Context(), seriesID, from, r.URL.Query().Get("to"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, obs)
	})

	r.Get("/v1/swea/calendar-days", func(w http.ResponseWriter, r *http.Request) {
		days, err := svc.CalendarDays(r.Context(), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, days)
	})

	r.Get("/v1/swea/cross-rates/{base}/{counter}", func(w http.ResponseWriter, r *http.Request) {
		base := chi.URLParam(r, "base")
		counter := chi.URLParam(r, "counter")
		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")

		if agg := r.URL.Query().Get("aggregation"); agg != "" {
			aggs, err := svc.CrossRateAggregates(r.Context(), base, counter, agg, from, to)
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, aggs)
			return
		}
		obs, err := svc.CrossRates(r.Context(), base, counter, from, to)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, obs)
	})

	r.Get("/v1/swea/aggregates/{seriesID}/{aggregation}", func(w http.ResponseWriter, r *http.Request) {
		aggs, err := svc.ObservationAggregates(r.Context(),
			chi.URLParam(r, "seriesID"), chi.URLParam(r, "aggregation"),
			r.URL.Query().Get("from"), r.URL.Query().Get("to"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, aggs)
	})

	r.Get("/v1/swea/catalog", func(w http.ResponseWriter, r *http.Request) {
		raw, err := svc.SweaCatalog(r.Context(),
			r.URL.Query().Get("series"), r.URL.Query().Get("language"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(raw) //nolint:errcheck
	})

	r.Get("/v1/swestr", func(w http.ResponseWriter, r *http.Request) {
		from := r.URL.Query().Get("from")
		if from == "" {
			latest, err := svc.SwestrLatest(r.Context())
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, latest)
			return
		}
		obs, err := svc.Swestr(r.Context(), from, r.URL.Query().Get("to"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, obs)
	})

	return r
}

// requestID tags each request and response with a request id for log
// correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy to HTTP statuses: caller bugs are 400,
// an unknown pinned round is 404, upstream failures and schema violations
// are 502 because the fault lies beyond this server.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	var invalidArg *series.InvalidArgumentError
	var notFound *vintage.NotFoundError
	var validation *normalize.ValidationError
	var upstream *riksbank.UpstreamError
	switch {
	case errors.As(err, &invalidArg):
		status = http.StatusBadRequest
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &upstream):
		status = http.StatusBadGateway
	}

	zap.L().Warn("request failed",
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
