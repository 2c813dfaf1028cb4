package countries

import (
	"context"
	"errors"
	"time"

	"country-catalog/feature/countries/models"
	"country-catalog/feature/countries/reconcile"
	"country-catalog/feature/countries/source"
	"country-catalog/feature/countries/summary"

	"go.uber.org/zap"
)

// Fetcher is the source-gateway boundary the service depends on.
type Fetcher interface {
	FetchCountries(ctx context.Context) ([]source.Country, error)
	FetchExchangeRates(ctx context.Context) (*source.RatesPayload, error)
}

// UpstreamError reports that an external source failed or returned an
// unusable payload. The refresh aborts before any write.
type UpstreamError struct {
	Detail string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return e.Detail + ": " + e.Err.Error()
	}
	return e.Detail
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// RefreshResult summarizes one successful refresh run.
type RefreshResult struct {
	Processed       int
	LastRefreshedAt string
}

// Service runs the refresh pipeline and serves catalog queries.
type Service struct {
	fetcher   Fetcher
	repo      *Repository
	projector *summary.Projector
	rnd       reconcile.Rand
	logger    *zap.Logger
}

// NewService creates a new countries service.
func NewService(fetcher Fetcher, repo *Repository, projector *summary.Projector, rnd reconcile.Rand, logger *zap.Logger) *Service {
	return &Service{
		fetcher:   fetcher,
		repo:      repo,
		projector: projector,
		rnd:       rnd,
		logger:    logger,
	}
}

// Refresh executes one end-to-end run: fetch both sources, validate,
// reconcile, persist atomically, then regenerate the summary artifact
// best-effort. A non-nil error is either an *UpstreamError (nothing was
// written) or a persistence failure (fully rolled back).
func (s *Service) Refresh(ctx context.Context) (*RefreshResult, error) {
	rawCountries, err := s.fetcher.FetchCountries(ctx)
	if err != nil {
		return nil, &UpstreamError{Detail: "Could not fetch data from Countries API", Err: err}
	}

	rates, err := s.fetcher.FetchExchangeRates(ctx)
	if err != nil {
		return nil, &UpstreamError{Detail: "Could not fetch data from Exchange Rates API", Err: err}
	}

	now := time.Now().UTC()
	candidates, err := reconcile.Run(rawCountries, rates, s.rnd)
	if err != nil {
		if errors.Is(err, reconcile.ErrInvalidRates) {
			return nil, &UpstreamError{Detail: "Exchange rates payload invalid", Err: err}
		}
		return nil, err
	}

	processed, err := s.repo.ApplyRefresh(candidates, now)
	if err != nil {
		return nil, err
	}

	s.logger.Info("catalog refreshed",
		zap.Int("processed", processed),
		zap.Int("fetched", len(rawCountries)),
	)

	// Projection runs strictly after the commit and cannot fail the run.
	s.projector.ProjectBestEffort(ctx)

	return &RefreshResult{
		Processed:       processed,
		LastRefreshedAt: now.Format(time.RFC3339Nano),
	}, nil
}

// List returns catalog rows matching the filter.
func (s *Service) List(filter ListFilter) ([]models.Country, error) {
	return s.repo.List(filter)
}

// Get returns a country by case-insensitive name, or nil when absent.
func (s *Service) Get(name string) (*models.Country, error) {
	return s.repo.FindByName(name)
}

// Delete removes a country by case-insensitive name. A successful delete
// invalidates the summary artifact so the next read reflects the new ranking.
func (s *Service) Delete(ctx context.Context, name string) (bool, error) {
	deleted, err := s.repo.DeleteByName(name)
	if err != nil || !deleted {
		return deleted, err
	}
	s.projector.Invalidate(ctx)
	return true, nil
}

// Status reports the catalog size and the last refresh timestamp.
func (s *Service) Status() (int64, string, error) {
	total, err := s.repo.Count()
	if err != nil {
		return 0, "", err
	}
	last, err := s.repo.GetMeta(models.MetaKeyLastRefreshed)
	if err != nil {
		return 0, "", err
	}
	return total, last, nil
}

// SummaryImage returns the current artifact bytes, generating on demand.
func (s *Service) SummaryImage(ctx context.Context) ([]byte, error) {
	return s.projector.Artifact(ctx)
}
