package page

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/scholar-site/internal/listing"
	"github.com/Zachkp/scholar-site/internal/source"
)

type mapSource struct {
	files   map[string]string
	fetched []string
}

func (s *mapSource) Fetch(_ context.Context, name string) (string, error) {
	s.fetched = append(s.fetched, name)
	text, ok := s.files[name]
	if !ok {
		return "", errors.New("not found")
	}
	return text, nil
}

func newTestDispatcher(t *testing.T, src source.Source) *Dispatcher {
	t.Helper()
	datasets := listing.Datasets()
	renderer, err := listing.NewRenderer(datasets)
	require.NoError(t, err)
	return NewDispatcher(datasets, source.NewLoader(src, nil), renderer, nil)
}

func TestSelect(t *testing.T) {
	d := newTestDispatcher(t, &mapSource{})

	tests := []struct {
		path string
		want string
	}{
		{path: "/publications", want: listing.Publications},
		{path: "/pages/publications.html", want: listing.Publications},
		{path: "/projects", want: listing.Projects},
		{path: "/speaking.html", want: listing.Speaking},
		{path: "/media", want: listing.Media},
		{path: "/projects/media", want: listing.Projects},
		{path: "/", want: ""},
		{path: "/about", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			ds, ok := d.Select(tt.path)
			assert.Equal(t, tt.want != "", ok)
			assert.Equal(t, tt.want, ds.Name)
		})
	}
}

func TestDispatch(t *testing.T) {
	src := &mapSource{files: map[string]string{
		"publications-template.csv": "Type,Title\nBook,My Book\nUnknown Thing,Lost\n",
	}}
	d := newTestDispatcher(t, src)

	var reports []Report
	d.OnRender = func(_ context.Context, r Report) { reports = append(reports, r) }

	out, err := d.Dispatch(context.Background(), "/publications", []byte(testPage))
	require.NoError(t, err)
	assert.Contains(t, string(out), "Books")
	assert.Contains(t, string(out), "My Book")
	assert.NotContains(t, string(out), "Lost")
	assert.Equal(t, []string{"publications-template.csv"}, src.fetched)
	assert.Equal(t, []Report{{Dataset: listing.Publications, Records: 2, Rendered: 1, Dropped: 1}}, reports)
}

func TestDispatchFetchFailureRendersEmpty(t *testing.T) {
	src := &mapSource{}
	d := newTestDispatcher(t, src)

	var report Report
	d.OnRender = func(_ context.Context, r Report) { report = r }

	out, err := d.Dispatch(context.Background(), "/publications", []byte(testPage))
	require.NoError(t, err)
	assert.Contains(t, string(out), `<section class="wide publications-list"></section>`)
	assert.True(t, report.FetchFailed)
}

func TestDispatchWithoutContainerSkipsFetch(t *testing.T) {
	src := &mapSource{}
	d := newTestDispatcher(t, src)

	out, err := d.Dispatch(context.Background(), "/media", []byte(testPage))
	require.NoError(t, err)
	assert.Equal(t, testPage, string(out))
	assert.Empty(t, src.fetched)
}

func TestDispatchUnmatchedPath(t *testing.T) {
	src := &mapSource{}
	d := newTestDispatcher(t, src)

	out, err := d.Dispatch(context.Background(), "/about", []byte("not even html"))
	require.NoError(t, err)
	assert.Equal(t, "not even html", string(out))
	assert.Empty(t, src.fetched)
}

func TestFragmentIsIdempotent(t *testing.T) {
	src := &mapSource{files: map[string]string{
		"media-template.csv": "Type,Title,Source,Date\nPodcast,A,Radio,2024\nArticle,B,Paper,2023\n",
	}}
	d := newTestDispatcher(t, src)
	ds, ok := d.Dataset(listing.Media)
	require.True(t, ok)

	first, err := d.Fragment(context.Background(), ds)
	require.NoError(t, err)
	second, err := d.Fragment(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, strings.Count(first, "media-card"))
}
