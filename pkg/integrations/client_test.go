package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/taskgraph/pkg/cache"
	"github.com/matzehuels/taskgraph/pkg/httputil"
)

func testClient(t *testing.T, server *httptest.Server, headers map[string]string) *Client {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	client := NewClient(c, "test:", time.Hour, headers)
	if server != nil {
		client.SetHTTPClient(server.Client())
	}
	client.SetRetryPolicy(httputil.Policy{Attempts: 3, Delay: time.Millisecond})
	return client
}

func TestNewClient(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	defer c.Close()

	headers := map[string]string{"Authorization": "token"}
	client := NewClient(c, "test:", time.Hour, headers)

	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.cache != c {
		t.Error("NewClient() cache not set correctly")
	}
	if client.headers["Authorization"] != "token" {
		t.Error("NewClient() headers not set correctly")
	}
	if client.retry != httputil.DefaultPolicy {
		t.Errorf("NewClient() retry = %+v, want DefaultPolicy", client.retry)
	}
}

func TestNewClientNilCache(t *testing.T) {
	client := NewClient(nil, "test:", time.Hour, nil)
	if _, ok := client.cache.(*cache.NullCache); !ok {
		t.Errorf("NewClient(nil) cache = %T, want *cache.NullCache", client.cache)
	}
}

func TestClientGetBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "hello"})
	}))
	defer server.Close()

	client := testClient(t, server, nil)

	body, err := client.GetBytes(context.Background(), server.URL, nil)
	if err != nil {
		t.Fatalf("GetBytes() error: %v", err)
	}
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("GetBytes() message = %q, want %q", resp.Message, "hello")
	}
}

func TestClientGetBytesHeaders(t *testing.T) {
	var gotDefault, gotOverride string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDefault = r.Header.Get("X-Default")
		gotOverride = r.Header.Get("X-Override")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := testClient(t, server, map[string]string{"X-Default": "default", "X-Override": "default"})

	body, err := client.GetBytes(context.Background(), server.URL, map[string]string{"X-Override": "overridden"})
	if err != nil {
		t.Fatalf("GetBytes() error: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("GetBytes() = %q, want %q", body, "ok")
	}
	if gotDefault != "default" {
		t.Errorf("default header = %q, want %q", gotDefault, "default")
	}
	if gotOverride != "overridden" {
		t.Errorf("override header = %q, want %q", gotOverride, "overridden")
	}
}

func TestClientGet404(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := testClient(t, server, nil)

	_, err := client.GetBytes(context.Background(), server.URL, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetBytes() error = %v, want ErrNotFound", err)
	}
}

func TestClientGet500IsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testClient(t, server, nil)

	_, err := client.GetBytes(context.Background(), server.URL, nil)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("GetBytes() error = %v, want ErrNetwork", err)
	}
	if !httputil.IsRetryable(err) {
		t.Errorf("GetBytes() error should be retryable, got %T", err)
	}
}

func TestClientCachedHit(t *testing.T) {
	client := testClient(t, nil, nil)
	ctx := context.Background()

	fetches := 0
	fetch := func() ([]byte, error) {
		fetches++
		return []byte("fetched"), nil
	}

	for range 3 {
		data, err := client.Cached(ctx, "key", false, fetch)
		if err != nil {
			t.Fatalf("Cached() error: %v", err)
		}
		if string(data) != "fetched" {
			t.Errorf("Cached() = %q, want %q", data, "fetched")
		}
	}
	if fetches != 1 {
		t.Errorf("fetch count = %d, want 1", fetches)
	}
}

func TestClientCachedRefresh(t *testing.T) {
	client := testClient(t, nil, nil)
	ctx := context.Background()

	fetches := 0
	fetch := func() ([]byte, error) {
		fetches++
		return []byte("fetched"), nil
	}

	client.Cached(ctx, "key", false, fetch)
	if _, err := client.Cached(ctx, "key", true, fetch); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if fetches != 2 {
		t.Errorf("fetch count = %d, want 2", fetches)
	}
}

func TestClientCachedRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("third time"))
	}))
	defer server.Close()

	client := testClient(t, server, nil)
	ctx := context.Background()

	data, err := client.Cached(ctx, "retry", false, func() ([]byte, error) {
		return client.GetBytes(ctx, server.URL, nil)
	})
	if err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if string(data) != "third time" {
		t.Errorf("Cached() = %q, want %q", data, "third time")
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server calls = %d, want 3", got)
	}
}

func TestClientCachedFetchErrorNotCached(t *testing.T) {
	client := testClient(t, nil, nil)
	ctx := context.Background()

	fetches := 0
	fetch := func() ([]byte, error) {
		fetches++
		return nil, ErrNotFound
	}

	if _, err := client.Cached(ctx, "missing", false, fetch); !errors.Is(err, ErrNotFound) {
		t.Errorf("Cached() error = %v, want ErrNotFound", err)
	}
	if fetches != 1 {
		t.Errorf("non-retryable error fetched %d times, want 1", fetches)
	}
	if _, ok, _ := client.cache.Get(ctx, "test:missing"); ok {
		t.Error("failed fetch should not be cached")
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		name      string
		code      int
		wantErr   error
		retryable bool
	}{
		{"200 OK", 200, nil, false},
		{"404 Not Found", 404, ErrNotFound, false},
		{"429 Too Many Requests", 429, ErrNetwork, true},
		{"500 Internal Server Error", 500, ErrNetwork, true},
		{"503 Service Unavailable", 503, ErrNetwork, true},
		{"400 Bad Request", 400, ErrNetwork, false},
		{"401 Unauthorized", 401, ErrNetwork, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkStatus(tt.code)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("checkStatus() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("checkStatus() error = %v, want %v", err, tt.wantErr)
			}
			if got := httputil.IsRetryable(err); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
		})
	}
}
