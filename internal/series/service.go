// Package series is the query facade the CLI and HTTP surface call into.
// It composes the Riksbank client, the normalizer and the vintage
// reconciler; it performs no retries of its own (the client owns transient
// failure recovery) and propagates the first error unchanged.
package series

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/aerugo/swemo-mcp/internal/model"
	"github.com/aerugo/swemo-mcp/internal/normalize"
	"github.com/aerugo/swemo-mcp/internal/vintage"
	"github.com/aerugo/swemo-mcp/pkg/riksbank"
)

const defaultMaxConcurrent = 4

// Service answers series queries against the Riksbank APIs.
type Service struct {
	client        riksbank.Client
	maxConcurrent int
}

// ServiceOption configures the service.
type ServiceOption func(*Service)

// WithMaxConcurrent bounds the parallelism of FetchMany.
func WithMaxConcurrent(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.maxConcurrent = n
		}
	}
}

// NewService creates the facade on top of a Riksbank client.
func NewService(client riksbank.Client, opts ...ServiceOption) *Service {
	s := &Service{
		client:        client,
		maxConcurrent: defaultMaxConcurrent,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ParseSelector maps a caller-supplied policy-round string to a selector:
// empty means all vintages, "latest" (case-insensitive) means the merged
// best-known series, anything else must be a YYYY:N round label. Invalid
// input fails with *InvalidArgumentError before any network call.
func ParseSelector(policyRound string) (vintage.Selector, error) {
	switch {
	case policyRound == "":
		return vintage.Unspecified(), nil
	case strings.EqualFold(policyRound, "latest"):
		return vintage.Latest(), nil
	case model.ValidRoundLabel(policyRound):
		return vintage.Pinned(policyRound), nil
	default:
		return vintage.Selector{}, &InvalidArgumentError{
			Argument: "policy round",
			Value:    policyRound,
			Reason:   `want "latest", a YYYY:N label, or empty for all vintages`,
		}
	}
}

// Fetch retrieves one series and reconciles its vintages under the given
// policy-round selection.
func (s *Service) Fetch(ctx context.Context, seriesID, policyRound string) (*model.SeriesResponse, error) {
	sel, err := ParseSelector(policyRound)
	if err != nil {
		return nil, err
	}
	resp, err := s.fetchAll(ctx, seriesID)
	if err != nil {
		return nil, err
	}

	vintages, err := vintage.Reconcile(resp.Vintages, sel)
	if err != nil {
		return nil, err
	}
	resp.Vintages = vintages
	return resp, nil
}

// FetchRealized is Fetch plus realized enrichment: the final vintage of the
// selection gets each forecast row annotated with the outcome now known
// from the merged best-known series, and outcome rows the selection never
// saw are appended. Under the Latest selector this is a plain Fetch, since
// the fold already prefers realized figures.
func (s *Service) FetchRealized(ctx context.Context, seriesID, policyRound string) (*model.SeriesResponse, error) {
	sel, err := ParseSelector(policyRound)
	if err != nil {
		return nil, err
	}
	resp, err := s.fetchAll(ctx, seriesID)
	if err != nil {
		return nil, err
	}

	all := resp.Vintages
	vintages, err := vintage.Reconcile(all, sel)
	if err != nil {
		return nil, err
	}
	if sel.Mode != vintage.ModeLatest && len(vintages) > 0 {
		merged, err := vintage.Reconcile(all, vintage.Latest())
		if err != nil {
			return nil, err
		}
		enriched := make([]model.Vintage, len(vintages))
		copy(enriched, vintages)
		enriched[len(enriched)-1] = vintage.MergeRealized(enriched[len(enriched)-1], merged[0])
		vintages = enriched
	}
	resp.Vintages = vintages
	return resp, nil
}

// FetchMany retrieves several series concurrently under one selector. Each
// response is independent; the first failure cancels the remaining fetches.
func (s *Service) FetchMany(ctx context.Context, seriesIDs []string, policyRound string) ([]*model.SeriesResponse, error) {
	if _, err := ParseSelector(policyRound); err != nil {
		return nil, err
	}

	results := make([]*model.SeriesResponse, len(seriesIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for i, id := range seriesIDs {
		i, id := i, id
		g.Go(func() error {
			resp, err := s.Fetch(gctx, id, policyRound)
			if err != nil {
				return err
			}
			results[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Rounds lists the published policy rounds in chronological order.
func (s *Service) Rounds(ctx context.Context) ([]model.PolicyRound, error) {
	raw, err := s.client.PolicyRounds(ctx)
	if err != nil {
		return nil, err
	}
	return normalize.Rounds(raw)
}

// Catalog lists metadata for every series the forecast API serves.
func (s *Service) Catalog(ctx context.Context) ([]model.SeriesInfo, error) {
	raw, err := s.client.SeriesList(ctx)
	if err != nil {
		return nil, err
	}
	return normalize.Catalog(raw)
}

// Swestr retrieves SWESTR fixings from a start date, optionally bounded by
// an end date. An empty result means no fixings in the period.
func (s *Service) Swestr(ctx context.Context, from, to string) ([]model.Observation, error) {
	if err := s.validateRange(from, to); err != nil {
		return nil, err
	}
	raw, err := s.client.SwestrRates(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return normalize.SwestrRates(raw)
}

// SwestrLatest retrieves the most recent published SWESTR fixing, or nil
// when none exists yet.
func (s *Service) SwestrLatest(ctx context.Context) (*model.Observation, error) {
	raw, err := s.client.SwestrLatest(ctx)
	if err != nil {
		return nil, err
	}
	return normalize.SwestrLatest(raw)
}

func (s *Service) fetchAll(ctx context.Context, seriesID string) (*model.SeriesResponse, error) {
	id := Resolve(seriesID)
	raw, err := s.client.ForecastData(ctx, id)
	if err != nil {
		return nil, err
	}
	return normalize.Series(raw, id)
}
