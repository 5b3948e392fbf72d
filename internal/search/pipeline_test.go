package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/star/snwatch/internal/catalog"
	"github.com/star/snwatch/internal/config"
	"github.com/star/snwatch/internal/selection"
	"github.com/star/snwatch/internal/visibility"
)

func newTestPipeline(t *testing.T) (*Pipeline, *int32) {
	t.Helper()
	return newProfilePipeline(t, testProfile())
}

func newProfilePipeline(t *testing.T, profile *config.Profile) (*Pipeline, *int32) {
	t.Helper()
	page, err := os.ReadFile("../catalog/testdata/snactive.html")
	require.NoError(t, err)

	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write(page)
	}))
	t.Cleanup(server.Close)

	logger := zap.NewNop()
	provider := catalog.NewProvider(
		catalog.NewFetcher(server.URL, 5*time.Second, logger),
		catalog.NewCache(t.TempDir(), 2),
		catalog.NewStore(),
		logger,
	)
	return NewPipeline(provider, selection.NewSelector(nil, nil, 2, logger), profile, logger), &hits
}

// A January evening in Sabadell: 2025abc (RA 3h20m, Dec +41) is high in the
// west, while 2025xyz (RA 12h30m, Dec -5) stays below 25 degrees.
func eveningRequest() Request {
	return Request{
		Magnitude:       18,
		Days:            10,
		ObservationDate: "2025-01-15",
		ObservationTime: "21:00",
		Hours:           3,
		MinAltitude:     25,
		Site:            "Sabadell",
	}
}

func names(cands []selection.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Name
	}
	return out
}

func TestPipelineRun(t *testing.T) {
	p, hits := newTestPipeline(t)

	out, err := p.Run(context.Background(), eveningRequest())
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(hits))
	assert.Len(t, out.Snapshot.Records, 3)
	assert.Equal(t, []string{"2025abc"}, names(out.Candidates))
	assert.Equal(t, "Perseus", out.Candidates[0].Constellation)
	assert.Same(t, out.Snapshot, p.Store().Get())
}

func TestPipelineRefilterReusesSnapshot(t *testing.T) {
	p, hits := newTestPipeline(t)

	_, err := p.Refilter(eveningRequest())
	assert.True(t, errors.Is(err, catalog.ErrNoSnapshot))

	_, err = p.Run(context.Background(), eveningRequest())
	require.NoError(t, err)

	req := eveningRequest()
	req.Magnitude = 16
	out, err := p.Refilter(req)
	require.NoError(t, err)
	assert.Empty(t, out.Candidates)
	assert.EqualValues(t, 1, atomic.LoadInt32(hits), "refilter must not fetch")
}

func TestPipelineRunOffline(t *testing.T) {
	p, _ := newTestPipeline(t)

	_, err := p.RunOffline(eveningRequest())
	require.Error(t, err, "nothing cached yet")

	_, err = p.Run(context.Background(), eveningRequest())
	require.NoError(t, err)

	out, err := p.RunOffline(eveningRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{"2025abc"}, names(out.Candidates))
}

func TestPipelineRejectsBadRequestBeforeFetching(t *testing.T) {
	p, hits := newTestPipeline(t)

	req := eveningRequest()
	req.Site = "nowhere"
	_, err := p.Run(context.Background(), req)
	assert.True(t, errors.Is(err, selection.ErrInvalidCriteria))
	assert.EqualValues(t, 0, atomic.LoadInt32(hits))
}

func TestPipelinePresetAcrossNorthMatchesNothing(t *testing.T) {
	dir := t.TempDir()
	windows := `{"North": {"minAlt": 30, "maxAlt": 90, "minAz": 350, "maxAz": 10}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.WindowsFile), []byte(windows), 0644))
	profile, err := config.LoadProfile(dir, zap.NewNop())
	require.NoError(t, err)

	p, _ := newProfilePipeline(t, profile)

	// Without a preset the altitude floor keeps 2025abc.
	out, err := p.Run(context.Background(), eveningRequest())
	require.NoError(t, err)
	require.Equal(t, []string{"2025abc"}, names(out.Candidates))

	req := eveningRequest()
	req.Window = "North"
	req.MinAltitude = 0
	out, err = p.Refilter(req)
	require.NoError(t, err)
	assert.True(t, out.Criteria.UsesPreset())
	assert.Equal(t, visibility.Bounds{MinAltitude: 30, MaxAltitude: 90, MinAzimuth: 350, MaxAzimuth: 10}, out.Criteria.Bounds())
	assert.Empty(t, out.Candidates)
}
