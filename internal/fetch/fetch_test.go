package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniel/resume-sentinel/internal/cache"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	mem := cache.NewMemory()
	t.Cleanup(mem.Close)
	return NewClient(mem, zerolog.Nop(), nil)
}

func TestGetJSON_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bar", r.URL.Query().Get("foo"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"acme"}`))
	}))
	defer server.Close()

	var out struct {
		Name string `json:"name"`
	}
	err := newTestClient(t).GetJSON(context.Background(), Request{
		URL:    server.URL,
		Params: map[string]string{"foo": "bar"},
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "acme", out.Name)
}

func TestGetJSON_CachedSecondCall(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"n":1}`))
	}))
	defer server.Close()

	client := newTestClient(t)
	req := Request{URL: server.URL, CachePrefix: "test", CacheTTL: time.Minute}

	var out map[string]int
	require.NoError(t, client.GetJSON(context.Background(), req, &out))
	require.NoError(t, client.GetJSON(context.Background(), req, &out))
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetJSON_ConcurrentCallsCollapse(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond)
		_, _ = w.Write([]byte(`{"n":1}`))
	}))
	defer server.Close()

	client := newTestClient(t)
	req := Request{URL: server.URL, CachePrefix: "test", CacheTTL: time.Minute}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var out map[string]int
			assert.NoError(t, client.GetJSON(context.Background(), req, &out))
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetJSON_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	err := newTestClient(t).GetJSON(context.Background(), Request{URL: server.URL}, nil)
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusForbidden, fetchErr.StatusCode)
}

func TestGetJSON_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	var out map[string]any
	err := newTestClient(t).GetJSON(context.Background(), Request{URL: server.URL}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed JSON")
}

func TestGetJSON_ErrorResponsesNotCached(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t)
	req := Request{URL: server.URL, CachePrefix: "test", CacheTTL: time.Minute}
	_ = client.GetJSON(context.Background(), req, nil)
	_ = client.GetJSON(context.Background(), req, nil)
	assert.Equal(t, int32(2), calls.Load())
}
