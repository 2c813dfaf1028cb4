package summary

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"country-catalog/feature/countries/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore serves canned catalog state.
type fakeStore struct {
	total int64
	top   []models.Country
	meta  string
	err   error
}

func (f *fakeStore) Count() (int64, error) {
	return f.total, f.err
}

func (f *fakeStore) TopByGDP(n int) ([]models.Country, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.top) > n {
		return f.top[:n], nil
	}
	return f.top, nil
}

func (f *fakeStore) GetMeta(string) (string, error) {
	return f.meta, f.err
}

func newFSCache(t *testing.T) (Cache, string) {
	t.Helper()
	dir := t.TempDir()
	cache, err := NewCache(Config{Backend: "fs", Dir: dir, Object: "summary.png"}, nil, "")
	require.NoError(t, err)
	return cache, dir
}

func TestProjector_Project(t *testing.T) {
	gdp := 123.0
	store := &fakeStore{
		total: 1,
		top:   []models.Country{{Name: "France", EstimatedGDP: &gdp}},
		meta:  "2026-08-30T12:00:00Z",
	}
	cache, dir := newFSCache(t)
	p := NewProjector(store, cache, zap.NewNop())

	require.NoError(t, p.Project(context.Background()))

	data, err := os.ReadFile(filepath.Join(dir, "summary.png"))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, CanvasWidth, img.Bounds().Dx())
	assert.Equal(t, CanvasHeight, img.Bounds().Dy())
}

func TestProjector_ArtifactGeneratesOnDemand(t *testing.T) {
	// Empty catalog, cold cache: generation still succeeds.
	store := &fakeStore{total: 0}
	cache, dir := newFSCache(t)
	p := NewProjector(store, cache, zap.NewNop())

	data, err := p.Artifact(context.Background())
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	// The on-demand render was cached for the next reader.
	_, err = os.Stat(filepath.Join(dir, "summary.png"))
	assert.NoError(t, err)
}

func TestProjector_ArtifactServesCachedCopy(t *testing.T) {
	store := &fakeStore{total: 0}
	cache, _ := newFSCache(t)
	p := NewProjector(store, cache, zap.NewNop())

	want := []byte("cached-bytes")
	require.NoError(t, cache.Put(context.Background(), want))

	got, err := p.Artifact(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestProjector_ArtifactFailureReportsNotFound(t *testing.T) {
	store := &fakeStore{err: errors.New("db gone")}
	cache, _ := newFSCache(t)
	p := NewProjector(store, cache, zap.NewNop())

	_, err := p.Artifact(context.Background())
	// Generation failures surface as not-found, never as internal errors.
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjector_RankingSkipsUnknownEstimates(t *testing.T) {
	gdp := 5.0
	store := &fakeStore{
		total: 2,
		top: []models.Country{
			{Name: "A", EstimatedGDP: &gdp},
			{Name: "B", EstimatedGDP: nil},
		},
	}
	cache, _ := newFSCache(t)
	p := NewProjector(store, cache, zap.NewNop())

	// Must not panic dereferencing the nil estimate.
	require.NoError(t, p.Project(context.Background()))
}

func TestFSCache_GetMissing(t *testing.T) {
	cache, _ := newFSCache(t)
	_, err := cache.Get(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFSCache_PutReplaces(t *testing.T) {
	cache, _ := newFSCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, []byte("one")))
	require.NoError(t, cache.Put(ctx, []byte("two")))

	got, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)
}

func TestFSCache_Remove(t *testing.T) {
	cache, _ := newFSCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, []byte("stale")))
	require.NoError(t, cache.Remove(ctx))

	_, err := cache.Get(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	// Removing an absent artifact is not an error.
	assert.NoError(t, cache.Remove(ctx))
}

func TestProjector_InvalidateAbsorbsCacheErrors(t *testing.T) {
	store := &fakeStore{total: 0}
	cache, dir := newFSCache(t)
	p := NewProjector(store, cache, zap.NewNop())

	require.NoError(t, p.Project(context.Background()))
	p.Invalidate(context.Background())

	_, err := os.Stat(filepath.Join(dir, "summary.png"))
	assert.True(t, os.IsNotExist(err))

	// A second invalidation finds nothing to remove and stays quiet.
	p.Invalidate(context.Background())
}

func TestNewCache_UnknownBackend(t *testing.T) {
	_, err := NewCache(Config{Backend: "ftp"}, nil, "")
	assert.Error(t, err)
}
