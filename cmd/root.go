package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/aerugo/swemo-mcp/internal/config"
	"github.com/aerugo/swemo-mcp/internal/resilience"
	"github.com/aerugo/swemo-mcp/internal/series"
	"github.com/aerugo/swemo-mcp/pkg/riksbank"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "swemo",
	Short: "Swedish macroeconomic data from the Riksbank APIs",
	Long:  "Fetches vintage-based forecast series, policy rounds and SWESTR fixings from the Riksbank's public REST APIs, with policy-round selection and realized-outcome merging.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newService wires the facade from config: resilient client, retry budget,
// politeness limiter.
func newService() *series.Service {
	client := riksbank.NewClient(
		riksbank.WithPolicyBaseURL(cfg.Riksbank.PolicyBaseURL),
		riksbank.WithSwestrBaseURL(cfg.Riksbank.SwestrBaseURL),
		riksbank.WithSweaBaseURL(cfg.Riksbank.SweaBaseURL),
		riksbank.WithUserAgent(cfg.Riksbank.UserAgent),
		riksbank.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				MaxConnsPerHost:     20,
				IdleConnTimeout:     90 * time.Second,
			},
		}),
		riksbank.WithRetryConfig(resilience.RetryConfig{
			MaxAttempts:    cfg.Fetch.MaxAttempts,
			InitialBackoff: time.Duration(cfg.Fetch.InitialBackoffMs) * time.Millisecond,
			MaxBackoff:     time.Duration(cfg.Fetch.MaxBackoffMs) * time.Millisecond,
			MaxElapsed:     time.Duration(cfg.Fetch.MaxElapsedSecs) * time.Second,
		}),
		riksbank.WithRateLimiter(rate.NewLimiter(rate.Limit(cfg.Fetch.RatePerSec), max(1, int(cfg.Fetch.RatePerSec)))),
	)
	return series.NewService(client, series.WithMaxConcurrent(cfg.Fetch.MaxConcurrent))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
