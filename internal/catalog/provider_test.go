package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProviderRefreshAndOffline(t *testing.T) {
	page, err := os.ReadFile("testdata/snactive.html")
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(page)
	}))
	defer server.Close()

	dir := t.TempDir()
	store := NewStore()
	p := NewProvider(NewFetcher(server.URL, 0, zap.NewNop()), NewCache(dir, 2), store, zap.NewNop())

	_, err = store.Require()
	assert.True(t, errors.Is(err, ErrNoSnapshot))
	assert.Equal(t, -1.0, store.AgeSeconds())

	snap, err := p.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Records, 3)
	assert.Equal(t, 1, snap.Skipped)
	assert.Equal(t, server.URL, snap.Source)
	assert.Same(t, snap, store.Get())
	assert.GreaterOrEqual(t, store.AgeSeconds(), 0.0)

	// A fresh store loaded from the cache sees the same records.
	offline := NewProvider(NewFetcher(server.URL, 0, zap.NewNop()), NewCache(dir, 2), NewStore(), zap.NewNop())
	cached, err := offline.LoadCached()
	require.NoError(t, err)
	assert.Equal(t, snap.Records, cached.Records)
}

func TestProviderRefreshFailureKeepsSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	store := NewStore()
	prev := &Snapshot{Source: "earlier"}
	store.Set(prev)

	p := NewProvider(NewFetcher(server.URL, 0, zap.NewNop()), nil, store, zap.NewNop())
	_, err := p.Refresh(context.Background())
	require.Error(t, err)
	assert.Same(t, prev, store.Get())

	_, err = p.LoadCached()
	assert.Error(t, err)
}
