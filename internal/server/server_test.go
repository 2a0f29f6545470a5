package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/fsnav/pkg/cache"
	"github.com/matzehuels/fsnav/pkg/camera"
	"github.com/matzehuels/fsnav/pkg/fsys"
	"github.com/matzehuels/fsnav/pkg/observability"
	"github.com/matzehuels/fsnav/pkg/pipeline"
)

func newTestServer(t *testing.T) (*httptest.Server, *Metrics) {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := pipeline.NewRunner(fc, nil, fsys.NewDemoLister(), nil)

	m := NewMetrics()
	m.Register()
	t.Cleanup(observability.Reset)

	srv := New(Config{Runner: runner, Defaults: pipeline.Options{Dir: fsys.DemoRoot}, Metrics: m})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts, m
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}

func TestRequestIDEchoed(t *testing.T) {
	ts, _ := newTestServer(t)
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}

func TestList(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := get(t, ts.URL+"/api/ls")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out listResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "/home/user", out.Dir)
	assert.Len(t, out.Entries, 9)
	assert.False(t, out.Cached)

	_, body = get(t, ts.URL+"/api/ls")
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, out.Cached)
}

func TestListNotFound(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := get(t, ts.URL+"/api/ls?dir=/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var out errorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "NOT_FOUND", out.Code)
	assert.Equal(t, resp.Header.Get(RequestIDHeader), out.RequestID)
}

func TestScene(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := get(t, ts.URL+"/api/scene?dir=/&width=800&height=600")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out sceneResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "/", out.Dir)
	assert.Equal(t, 800.0, out.Width)
	assert.Equal(t, 600.0, out.Height)
	assert.Equal(t, camera.Default(), out.Camera)
	assert.Equal(t, 8, out.Nodes)
	assert.NotEmpty(t, out.Points)
	assert.True(t, strings.HasPrefix(out.HUD, "/   |   "))
}

func TestSceneBadParams(t *testing.T) {
	ts, _ := newTestServer(t)
	for _, q := range []string{"yaw=abc", "limit=x", "hud=maybe", "width=-10", "fov=9", "limit=-3"} {
		resp, _ := get(t, ts.URL+"/api/scene?"+q)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestScenePost(t *testing.T) {
	ts, _ := newTestServer(t)
	body := `{"dir": "/home/user", "camera": {"yaw": 1.0, "pitch": 5}}`
	resp, err := http.Post(ts.URL+"/api/scene", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out sceneResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 1.0, out.Camera.Yaw)
	assert.Equal(t, camera.PitchMax, out.Camera.Pitch)
	assert.Equal(t, camera.DefaultDist, out.Camera.Dist)
}

func TestScenePostInvalidBody(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Post(ts.URL+"/api/scene", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHit(t *testing.T) {
	ts, _ := newTestServer(t)
	_, body := get(t, ts.URL+"/api/scene")
	var sc sceneResponse
	require.NoError(t, json.Unmarshal(body, &sc))
	require.NotEmpty(t, sc.Points)
	top := sc.Points[len(sc.Points)-1]

	resp, body := get(t, fmt.Sprintf("%s/api/hit?x=%g&y=%g&front=true", ts.URL, top.X, top.Y))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out hitResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.True(t, out.Hit)
	assert.Equal(t, top.Node.Path, out.Point.Node.Path)
	assert.NotEmpty(t, out.Hint)

	_, body = get(t, ts.URL+"/api/hit?x=-5000&y=-5000")
	out = hitResponse{}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.False(t, out.Hit)
	assert.Nil(t, out.Point)
}

func TestHitRequiresCoordinates(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, _ := get(t, ts.URL+"/api/hit?x=1")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestArtifact(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts.URL+"/scene.svg")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Equal(t, "miss", resp.Header.Get("X-Cache"))
	assert.Contains(t, string(body), "<svg")

	resp, _ = get(t, ts.URL+"/scene.svg")
	assert.Equal(t, "hit", resp.Header.Get("X-Cache"))

	resp, body = get(t, ts.URL+"/scene.PNG")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, "\x89PNG", string(body[:4]))
}

func TestArtifactUnknownFormat(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := get(t, ts.URL+"/scene.pdf")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "INVALID_FORMAT")
}

func TestMetrics(t *testing.T) {
	ts, _ := newTestServer(t)
	get(t, ts.URL+"/api/scene")
	get(t, ts.URL+"/api/ls?dir=/missing")

	resp, body := get(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	text := string(body)
	assert.Contains(t, text, `fsnav_http_requests_total{method="GET",route="/api/scene",status="200"} 1`)
	assert.Contains(t, text, `fsnav_http_requests_total{method="GET",route="/api/ls",status="404"} 1`)
	assert.Contains(t, text, `fsnav_pipeline_errors_total{stage="list"} 1`)
	assert.Contains(t, text, `fsnav_cache_events_total{event="set",key_type="listing"}`)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(context.Canceled))
}

func TestListenAndServeShutdown(t *testing.T) {
	srv := New(Config{Runner: pipeline.NewRunner(nil, nil, fsys.NewDemoLister(), nil)})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()
	assert.NoError(t, <-done)
}
