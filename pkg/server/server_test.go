package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/overlay/pkg/cache"
	"github.com/matzehuels/overlay/pkg/observability"
	"github.com/matzehuels/overlay/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := New(pipeline.NewRunner(fc, nil, logger), Options{Logger: logger})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, contentType, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, contentType, strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decode[map[string]string](t, resp)
	if body["status"] != "ok" || body["version"] == "" {
		t.Errorf("body = %v", body)
	}
}

const placeBody = `{
	"viewport": {"width": 1000, "height": 1000},
	"anchor": {"x": 0, "y": 500, "width": 100, "height": 40},
	"overlay": {"width": 160, "height": 48},
	"trace": true
}`

func TestPlace(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts.URL+"/v1/place", "application/json", placeBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	got := decode[PlaceResponse](t, resp)
	if got.Side != "right" || !got.Visible || got.Attempts != 4 || got.Cached {
		t.Errorf("response = %+v", got)
	}
	if got.Rect != (Rect{Left: 105, Top: 496, Width: 160, Height: 48}) {
		t.Errorf("Rect = %+v", got.Rect)
	}
	if len(got.Trace) != 4 || got.Trace[0].Side != "top" || got.Trace[0].Visible {
		t.Errorf("Trace = %+v", got.Trace)
	}
	if !strings.Contains(got.Style, "top: 50%") {
		t.Errorf("Style = %q", got.Style)
	}

	again := decode[PlaceResponse](t, post(t, ts.URL+"/v1/place", "application/json", placeBody))
	if !again.Cached || again.Side != "right" {
		t.Errorf("second response = %+v, want cached", again)
	}
}

func TestPlaceUnknownPositionUsesTop(t *testing.T) {
	ts := newTestServer(t)

	body := `{
	"viewport": {"width": 1000, "height": 1000},
	"anchor": {"x": 500, "y": 500, "width": 100, "height": 40},
	"overlay": {"width": 160, "height": 48},
	"position": "diagonal"
}`
	resp := post(t, ts.URL+"/v1/place", "application/json", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	got := decode[PlaceResponse](t, resp)
	if got.Side != "top" || !got.Visible || got.Attempts != 1 {
		t.Errorf("response = %+v, want visible top after 1 attempt", got)
	}
}

func TestPlaceErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{name: "malformed", body: `{`, status: http.StatusBadRequest, code: "INVALID_INPUT"},
		{name: "unknown field", body: `{"viewport": {"width": 1, "height": 1}, "bogus": 1}`, status: http.StatusBadRequest, code: "INVALID_INPUT"},
		{name: "zero viewport", body: `{"anchor": {"width": 10, "height": 10}}`, status: http.StatusBadRequest, code: "INVALID_SCENE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/place", "application/json", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if body := decode[errorBody](t, resp); body.Code != tt.code || body.Message == "" {
				t.Errorf("body = %+v, want code %s", body, tt.code)
			}
		})
	}
}

const renderScene = `{
	"name": "api",
	"viewport": {"width": 1000, "height": 1000},
	"tooltips": [{"id": "save", "text": "Save", "anchor": {"x": 500, "y": 500, "width": 100, "height": 40}}]
}`

func TestRender(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		query       string
		contentType string
		contains    string
	}{
		{query: "", contentType: "image/svg+xml", contains: `<g id="tooltip-save" data-side="top">`},
		{query: "?format=json", contentType: "application/json", contains: `"name": "api"`},
		{query: "?format=dot", contentType: "text/vnd.graphviz", contains: "digraph trace"},
	}
	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/render"+tt.query, "application/json", renderScene)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			data, _ := io.ReadAll(resp.Body)
			if !bytes.Contains(data, []byte(tt.contains)) {
				t.Errorf("body missing %q:\n%s", tt.contains, data)
			}
		})
	}

	resp := post(t, ts.URL+"/v1/render", "application/json", renderScene)
	if got := resp.Header.Get("X-Cache"); got != "hit" {
		t.Errorf("X-Cache = %q, want hit", got)
	}
}

func TestRenderTOML(t *testing.T) {
	ts := newTestServer(t)
	body := "[viewport]\nwidth = 400\nheight = 300\n"
	resp := post(t, ts.URL+"/v1/render?format=json", "application/toml", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestRenderErrors(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts.URL+"/v1/render?format=gif", "application/json", renderScene)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("gif status = %d", resp.StatusCode)
	}
	if body := decode[errorBody](t, resp); body.Code != "INVALID_FORMAT" {
		t.Errorf("gif code = %s", body.Code)
	}

	resp = post(t, ts.URL+"/v1/render", "application/json", `{"viewport": {}}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid scene status = %d", resp.StatusCode)
	}
}

func TestNotFoundAndMethod(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v2/nothing")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}

	resp2, err := http.Get(ts.URL + "/v1/place")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp2.StatusCode)
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	post(t, ts.URL+"/v1/place", "application/json", `{`)

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.statuses) != 2 || hooks.statuses[0] != 200 || hooks.statuses[1] != 400 {
		t.Errorf("statuses = %v, want [200 400]", hooks.statuses)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := New(pipeline.NewRunner(nil, nil, logger), Options{Logger: logger})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
