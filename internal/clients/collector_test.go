package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"tad/internal/structures"
	"tad/internal/testutil"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectorConfig(baseURL string) *structures.Config {
	return &structures.Config{
		Collector: structures.CollectorConfig{
			BaseURL: baseURL,
			Timeout: 5 * time.Second,
		},
		Retry: testRetryConfig(),
	}
}

func TestCollector_FetchesRecords(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/videos", r.URL.Path)
		assert.Equal(t, "24", r.URL.Query().Get("hours"))
		assert.Equal(t, "50", r.URL.Query().Get("max"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"video_id": "a", "title": "first", "view_count": 1000, "fetched_at": now},
			{"video_id": "b", "title": "second", "view_count": 2000, "fetched_at": now},
		})
	}))
	defer srv.Close()

	c := NewCollector(collectorConfig(srv.URL), &testutil.MockLogger{})
	records, err := c.Collect(context.Background(), 24, 50)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].VideoID)
	assert.Equal(t, int64(2000), records[1].ViewCount)
}

func TestCollector_EmptyWindow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := NewCollector(collectorConfig(srv.URL), &testutil.MockLogger{})
	records, err := c.Collect(context.Background(), 6, 50)

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCollector_RetriesThenSucceeds(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"video_id":"a","view_count":1000}]`))
	}))
	defer srv.Close()

	c := NewCollector(collectorConfig(srv.URL), &testutil.MockLogger{})
	records, err := c.Collect(context.Background(), 24, 50)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int32(3), hits.Load())
}

func TestCollector_UpstreamErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewCollector(collectorConfig(srv.URL), &testutil.MockLogger{})
	records, err := c.Collect(context.Background(), 24, 50)

	assert.Nil(t, records)
	require.Error(t, err)
	assert.ErrorContains(t, err, "collector")
	assert.ErrorContains(t, err, "503")
}

func TestCollector_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	c := NewCollector(collectorConfig(srv.URL), &testutil.MockLogger{})
	_, err := c.Collect(context.Background(), 24, 50)

	require.Error(t, err)
	assert.ErrorContains(t, err, "decode")
}
