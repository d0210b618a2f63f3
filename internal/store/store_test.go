package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "site.db"), "salt")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestHashIP(t *testing.T) {
	s, _ := openTestStore(t)

	h := s.HashIP("10.0.0.1")
	assert.Len(t, h, 16)
	assert.Equal(t, h, s.HashIP("10.0.0.1"))
	assert.NotEqual(t, h, s.HashIP("10.0.0.2"))
	assert.NotContains(t, h, "10.0.0.1")
}

func TestVisitorStats(t *testing.T) {
	s, now := openTestStore(t)
	ctx := context.Background()

	base := *now
	*now = base.Add(-10 * 24 * time.Hour)
	require.NoError(t, s.RecordVisit(ctx, "1.1.1.1", "ua", "/media"))
	*now = base.Add(-2 * 24 * time.Hour)
	require.NoError(t, s.RecordVisit(ctx, "2.2.2.2", "ua", "/projects"))
	*now = base.Add(-time.Hour)
	require.NoError(t, s.RecordVisit(ctx, "1.1.1.1", "ua", "/publications"))
	*now = base

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalVisitors)
	assert.EqualValues(t, 2, stats.UniqueVisitors)
	assert.EqualValues(t, 1, stats.VisitorsToday)
	assert.EqualValues(t, 2, stats.VisitorsThisWeek)
	require.Len(t, stats.RecentVisitors, 3)
	assert.Equal(t, "/publications", stats.RecentVisitors[0].Path)
	assert.Equal(t, s.HashIP("1.1.1.1"), stats.RecentVisitors[0].HashedIP)
}

func TestRenderStats(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordRender(ctx, Render{Dataset: "publications", Records: 5, Rendered: 4, Dropped: 1}))
	require.NoError(t, s.RecordRender(ctx, Render{Dataset: "publications", FetchFailed: true}))
	require.NoError(t, s.RecordRender(ctx, Render{Dataset: "media", Records: 2, Rendered: 2}))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, stats.Datasets, 2)

	media, pubs := stats.Datasets[0], stats.Datasets[1]
	assert.Equal(t, "media", media.Dataset)
	assert.EqualValues(t, 1, media.Renders)
	assert.Equal(t, 2, media.LastRendered)

	assert.Equal(t, "publications", pubs.Dataset)
	assert.EqualValues(t, 2, pubs.Renders)
	assert.EqualValues(t, 1, pubs.FetchFailures)
	assert.Equal(t, 0, pubs.LastRecords)
}

func TestCleanup(t *testing.T) {
	s, now := openTestStore(t)
	ctx := context.Background()

	base := *now
	*now = base.AddDate(-2, 0, 0)
	require.NoError(t, s.RecordVisit(ctx, "1.1.1.1", "ua", "/old"))
	*now = base
	require.NoError(t, s.RecordVisit(ctx, "1.1.1.1", "ua", "/new"))

	n, err := s.Cleanup(ctx, 365*24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	visitors, err := s.RecentVisitors(ctx, 10)
	require.NoError(t, err)
	require.Len(t, visitors, 1)
	assert.Equal(t, "/new", visitors[0].Path)
}
