package source

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/scholar-site/internal/listing"
	"github.com/Zachkp/scholar-site/internal/metrics"
)

type stubSource struct {
	text  string
	err   error
	calls int
}

func (s *stubSource) Fetch(context.Context, string) (string, error) {
	s.calls++
	return s.text, s.err
}

func TestLoaderLoad(t *testing.T) {
	ds, _ := listing.Lookup(listing.Publications)
	src := &stubSource{text: "Type,Title\nBook,A\nBook,B\n"}

	res := NewLoader(src, nil).Load(context.Background(), ds)
	assert.False(t, res.Failed)
	assert.Len(t, res.Records, 2)
	assert.Equal(t, []string{"Type", "Title"}, res.Header)
	assert.Equal(t, 1, src.calls)
}

func TestLoaderFailureIsEmpty(t *testing.T) {
	ds, _ := listing.Lookup(listing.Media)
	src := &stubSource{err: errors.New("boom")}

	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)

	res := NewLoader(src, m).Load(context.Background(), ds)
	assert.True(t, res.Failed)
	assert.Empty(t, res.Records)
	assert.Equal(t, 1, src.calls)
}
