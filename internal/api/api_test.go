package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lfom/pkg/cache"
	"github.com/matzehuels/lfom/pkg/config"
	"github.com/matzehuels/lfom/pkg/observability"
	"github.com/matzehuels/lfom/pkg/pipeline"
)

type envelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv, err := New(pipeline.NewRunner(fc, nil, logger), config.Default(), logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp.StatusCode, env
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	status, env := do(t, http.MethodGet, ts.URL+"/healthz", "")
	if status != http.StatusOK || env.Code != "OK" {
		t.Fatalf("got %d %s", status, env.Code)
	}
	var info struct{ Version string }
	if err := json.Unmarshal(env.Data, &info); err != nil {
		t.Fatal(err)
	}
	if info.Version != "dev" {
		t.Errorf("version = %q, want dev", info.Version)
	}
}

func TestDesign(t *testing.T) {
	ts := newTestServer(t)

	var first designResponse
	status, env := do(t, http.MethodPost, ts.URL+"/v1/designs", `{"flow": "12 L/s", "headloss": "20 cm"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d (%s: %s)", status, env.Code, env.Message)
	}
	if err := json.Unmarshal(env.Data, &first); err != nil {
		t.Fatal(err)
	}
	if first.CacheHit {
		t.Error("first request should miss the cache")
	}
	if first.ID == "" {
		t.Error("missing run ID")
	}
	want := []int{10, 3, 3, 2, 3, 1, 2, 2}
	if got := first.Record.Counts(); !slices.Equal(got, want) {
		t.Errorf("counts = %v, want %v", got, want)
	}

	// Headloss defaults to 20 cm, so this is the same design.
	var second designResponse
	_, env = do(t, http.MethodPost, ts.URL+"/v1/designs", `{"flow": "12 L/s"}`)
	if err := json.Unmarshal(env.Data, &second); err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second request should hit the cache")
	}
	if second.ID == first.ID {
		t.Error("run IDs should differ")
	}
}

func TestDesignMetric(t *testing.T) {
	ts := newTestServer(t)
	status, env := do(t, http.MethodPost, ts.URL+"/v1/designs", `{"flow": "12 L/s", "drills": "metric"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d (%s: %s)", status, env.Code, env.Message)
	}
	var resp designResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatal(err)
	}
	if d := resp.Record.Orifice.Diameter; d < 0.024-1e-12 || d > 0.024+1e-12 {
		t.Errorf("diameter = %g, want 0.024", d)
	}
}

func TestDesignErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"missing flow", `{}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad unit", `{"flow": "12 furlongs"}`, http.StatusBadRequest, "INVALID_UNIT"},
		{"numeric flow", `{"flow": 0.012}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"zero flow", `{"flow": "0 L/s"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"zero headloss", `{"flow": "12 L/s", "headloss": "0 cm"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", `{"flow": "12 L/s", "colour": "red"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad series", `{"flow": "12 L/s", "drills": "whitworth"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad sdr", `{"flow": "12 L/s", "sdr": 1.5}`, http.StatusBadRequest, "INVALID_CONFIG"},
		{"malformed", `{"flow":`, http.StatusBadRequest, "INVALID_INPUT"},
		{"pipe exhausted", `{"flow": "50 m^3/s"}`, http.StatusUnprocessableEntity, "CATALOG_EXHAUSTED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, http.MethodPost, ts.URL+"/v1/designs", tt.body)
			if status != tt.status || env.Code != tt.code {
				t.Errorf("got %d %s (%s), want %d %s", status, env.Code, env.Message, tt.status, tt.code)
			}
			if env.Message == "" {
				t.Error("missing message")
			}
		})
	}
}

func TestCatalogPipes(t *testing.T) {
	ts := newTestServer(t)
	status, env := do(t, http.MethodGet, ts.URL+"/v1/catalog/pipes", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var resp pipesResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(resp.SDRs, 26.0) {
		t.Errorf("sdrs = %v, want 26 among them", resp.SDRs)
	}
	if len(resp.Pipes) == 0 {
		t.Error("no pipes listed")
	}
}

func TestCatalogDrills(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		query  string
		series string
		first  float64
	}{
		{"", "imperial", 0.03125 * 0.0254},
		{"?series=metric", "metric", 0.0005},
		{"?series=imperial", "imperial", 0.03125 * 0.0254},
	}
	for _, tt := range tests {
		status, env := do(t, http.MethodGet, ts.URL+"/v1/catalog/drills"+tt.query, "")
		if status != http.StatusOK {
			t.Fatalf("%s: status = %d", tt.query, status)
		}
		var resp drillsResponse
		if err := json.Unmarshal(env.Data, &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Series != tt.series {
			t.Errorf("%s: series = %q, want %q", tt.query, resp.Series, tt.series)
		}
		if len(resp.Sizes) == 0 || resp.Sizes[0] < tt.first-1e-12 || resp.Sizes[0] > tt.first+1e-12 {
			t.Errorf("%s: sizes start %v, want %g", tt.query, resp.Sizes[:1], tt.first)
		}
	}

	status, env := do(t, http.MethodGet, ts.URL+"/v1/catalog/drills?series=whitworth", "")
	if status != http.StatusNotFound || env.Code != "NOT_FOUND" {
		t.Errorf("unknown series: got %d %s", status, env.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)
	status, env := do(t, http.MethodGet, ts.URL+"/v1/nope", "")
	if status != http.StatusNotFound || env.Code != "NOT_FOUND" {
		t.Errorf("got %d %s", status, env.Code)
	}
	status, env = do(t, http.MethodGet, ts.URL+"/v1/designs", "")
	if status != http.StatusMethodNotAllowed {
		t.Errorf("GET /v1/designs: got %d %s", status, env.Code)
	}
}

type recordingHTTPHooks struct {
	mu       sync.Mutex
	requests int
	paths    []string
	statuses []int
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, path string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paths = append(h.paths, path)
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t)
	do(t, http.MethodGet, ts.URL+"/healthz", "")
	do(t, http.MethodGet, ts.URL+"/v1/catalog/drills?series=whitworth", "")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if hooks.requests != 2 {
		t.Errorf("requests = %d, want 2", hooks.requests)
	}
	if want := []string{"/healthz", "/v1/catalog/drills"}; !slices.Equal(hooks.paths, want) {
		t.Errorf("paths = %v, want %v", hooks.paths, want)
	}
	if want := []int{http.StatusOK, http.StatusNotFound}; !slices.Equal(hooks.statuses, want) {
		t.Errorf("statuses = %v, want %v", hooks.statuses, want)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv, err := New(pipeline.NewRunner(nil, nil, logger), nil, logger)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
