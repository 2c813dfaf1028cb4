package summary

import (
	"context"

	"country-catalog/feature/countries/models"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Store is the slice of catalog reads the projector depends on.
type Store interface {
	Count() (int64, error)
	TopByGDP(n int) ([]models.Country, error)
	GetMeta(key string) (string, error)
}

// RankingSize is how many countries the summary ranks.
const RankingSize = 5

// Projector derives the summary artifact from persisted catalog state and
// keeps it in the cache. It runs strictly after a refresh commits and never
// feeds errors back into the write path.
type Projector struct {
	store  Store
	cache  Cache
	logger *zap.Logger
	sf     singleflight.Group
}

// NewProjector creates a projector over the given store and cache.
func NewProjector(store Store, cache Cache, logger *zap.Logger) *Projector {
	return &Projector{store: store, cache: cache, logger: logger}
}

// Project regenerates the artifact from current state and replaces the cached
// copy. Callers on the refresh path treat any error as best-effort.
func (p *Projector) Project(ctx context.Context) error {
	data, err := p.generate(ctx)
	if err != nil {
		return err
	}
	return p.cache.Put(ctx, data)
}

// ProjectBestEffort runs Project and absorbs any failure into a warning log.
// The refresh outcome is independent of artifact generation.
func (p *Projector) ProjectBestEffort(ctx context.Context) {
	if err := p.Project(ctx); err != nil {
		p.logger.Warn("summary projection failed", zap.Error(err))
	}
}

// Invalidate drops the cached artifact so the next read regenerates it from
// current state. Failures are absorbed; a stale artifact is acceptable.
func (p *Projector) Invalidate(ctx context.Context) {
	if err := p.cache.Remove(ctx); err != nil {
		p.logger.Warn("invalidating summary artifact failed", zap.Error(err))
	}
}

// Artifact returns the current artifact bytes, generating on demand when the
// cache is cold. Concurrent cold-cache callers collapse into one render. A
// generation failure surfaces as ErrNotFound to the caller.
func (p *Projector) Artifact(ctx context.Context) ([]byte, error) {
	if data, err := p.cache.Get(ctx); err == nil {
		return data, nil
	}

	v, err, _ := p.sf.Do("summary", func() (any, error) {
		data, err := p.generate(ctx)
		if err != nil {
			return nil, err
		}
		if err := p.cache.Put(ctx, data); err != nil {
			p.logger.Warn("caching summary artifact failed", zap.Error(err))
		}
		return data, nil
	})
	if err != nil {
		p.logger.Warn("on-demand summary generation failed", zap.Error(err))
		return nil, ErrNotFound
	}
	return v.([]byte), nil
}

func (p *Projector) generate(_ context.Context) ([]byte, error) {
	total, err := p.store.Count()
	if err != nil {
		return nil, err
	}
	top, err := p.store.TopByGDP(RankingSize)
	if err != nil {
		return nil, err
	}
	last, err := p.store.GetMeta(models.MetaKeyLastRefreshed)
	if err != nil {
		return nil, err
	}

	stats := Stats{Total: total, LastRefreshed: last}
	for _, c := range top {
		if c.EstimatedGDP == nil {
			continue
		}
		stats.Ranked = append(stats.Ranked, RankedCountry{Name: c.Name, EstimatedGDP: *c.EstimatedGDP})
	}
	return Render(stats)
}
