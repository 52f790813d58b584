package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data", "markets.json")

	n, err := WriteSnapshot(path, []byte(`[{"name":"A"},{"name":"B"}]`))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	t.Run("invalid payload keeps existing file", func(t *testing.T) {
		_, err := WriteSnapshot(path, []byte(`{"name":"not an array"}`))
		assert.ErrorIs(t, err, ErrMalformedSource)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"name":"A"},{"name":"B"}]`, string(content))
	})

	t.Run("no temp files left behind", func(t *testing.T) {
		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestSnapshotFetcher_Fetch(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"Remote Market"}]`))
	}))
	defer srv.Close()

	f := NewSnapshotFetcher()
	f.RetryDelay = 10 * time.Millisecond

	body, err := f.Fetch(context.Background(), srv.URL+"/farmers_markets.json")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"name":"Remote Market"}]`, string(body))
	assert.Equal(t, int32(2), hits.Load())
}

func TestSnapshotFetcher_GivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewSnapshotFetcher()
	f.MaxRetries = 1
	f.RetryDelay = time.Millisecond

	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 1 retries")
}
