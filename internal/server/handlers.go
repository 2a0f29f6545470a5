package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/fsnav/pkg/camera"
	fserrors "github.com/matzehuels/fsnav/pkg/errors"
	"github.com/matzehuels/fsnav/pkg/pipeline"
	"github.com/matzehuels/fsnav/pkg/scene"
)

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type listResponse struct {
	Dir     string        `json:"dir"`
	Entries []scene.Entry `json:"entries"`
	Cached  bool          `json:"cached"`
}

type sceneResponse struct {
	Dir     string              `json:"dir"`
	Camera  camera.Camera       `json:"camera"`
	Width   float64             `json:"width"`
	Height  float64             `json:"height"`
	Nodes   int                 `json:"nodes"`
	Points  []scene.ScreenPoint `json:"points"`
	Hovered string              `json:"hovered,omitempty"`
	HUD     string              `json:"hud,omitempty"`
	Hint    string              `json:"hint,omitempty"`
	Cache   pipeline.CacheInfo  `json:"cache"`
}

type hitResponse struct {
	Hit   bool               `json:"hit"`
	Point *scene.ScreenPoint `json:"point,omitempty"`
	Hint  string             `json:"hint,omitempty"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	opts, err := s.parseOptions(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entries, hit, err := s.runner.ListWithCacheInfo(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []scene.Entry{}
	}
	writeJSON(w, http.StatusOK, listResponse{Dir: opts.Dir, Entries: entries, Cached: hit})
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	opts, err := s.parseOptions(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.serveScene(w, r, opts)
}

func (s *Server) handleScenePost(w http.ResponseWriter, r *http.Request) {
	opts := s.defaults
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&opts); err != nil {
		s.writeError(w, r, fserrors.Wrap(fserrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	s.serveScene(w, r, opts)
}

func (s *Server) serveScene(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	opts.Formats = []string{pipeline.FormatJSON}
	opts.HUD = true
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	pts := res.Points
	if pts == nil {
		pts = []scene.ScreenPoint{}
	}
	writeJSON(w, http.StatusOK, sceneResponse{
		Dir:     res.Dir,
		Camera:  res.Frame.Camera,
		Width:   res.Frame.Size.W,
		Height:  res.Frame.Size.H,
		Nodes:   len(res.Nodes),
		Points:  pts,
		Hovered: res.Frame.Hovered,
		HUD:     res.Frame.HUD,
		Hint:    res.Frame.Hint,
		Cache:   res.CacheInfo,
	})
}

func (s *Server) handleHit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := s.parseOptions(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !q.Has("x") || !q.Has("y") {
		s.writeError(w, r, fserrors.New(fserrors.ErrCodeInvalidInput, "x and y are required"))
		return
	}
	var x, y float64
	var front bool
	if err := parseFloat(q, "x", &x); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := parseFloat(q, "y", &y); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := parseBool(q, "front", &front); err != nil {
		s.writeError(w, r, err)
		return
	}

	p, ok, err := s.runner.HitTest(r.Context(), opts, x, y, front)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := hitResponse{Hit: ok}
	if ok {
		resp.Point = &p
		resp.Hint = scene.HintText(p.Node)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(chi.URLParam(r, "format"))
	opts, err := s.parseOptions(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cacheState := "miss"
	if res.CacheInfo.RenderHit {
		cacheState = "hit"
	}
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("X-Cache", cacheState)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// =============================================================================
// Request parsing
// =============================================================================

// parseOptions overlays query parameters on the server defaults.
func (s *Server) parseOptions(q url.Values) (pipeline.Options, error) {
	opts := s.defaults
	opts.Formats = nil
	opts.Logger = s.logger
	if dir := q.Get("dir"); dir != "" {
		opts.Dir = dir
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"yaw", &opts.Camera.Yaw},
		{"pitch", &opts.Camera.Pitch},
		{"dist", &opts.Camera.Dist},
		{"fov", &opts.Camera.FOV},
		{"width", &opts.Width},
		{"height", &opts.Height},
		{"scale", &opts.Scale},
	}
	for _, f := range floats {
		if err := parseFloat(q, f.name, f.dst); err != nil {
			return opts, err
		}
	}
	if q.Has("limit") {
		n, err := strconv.Atoi(q.Get("limit"))
		if err != nil {
			return opts, fserrors.New(fserrors.ErrCodeInvalidInput, "limit must be an integer, got %q", q.Get("limit"))
		}
		opts.Limit = n
	}
	for name, dst := range map[string]*bool{"labels": &opts.Labels, "hud": &opts.HUD, "refresh": &opts.Refresh} {
		if err := parseBool(q, name, dst); err != nil {
			return opts, err
		}
	}
	if q.Has("hover_x") || q.Has("hover_y") {
		var p pipeline.Point
		if err := parseFloat(q, "hover_x", &p.X); err != nil {
			return opts, err
		}
		if err := parseFloat(q, "hover_y", &p.Y); err != nil {
			return opts, err
		}
		opts.Hover = &p
	}
	return opts, nil
}

func parseFloat(q url.Values, name string, dst *float64) error {
	if !q.Has(name) {
		return nil
	}
	v, err := strconv.ParseFloat(q.Get(name), 64)
	if err != nil {
		return fserrors.New(fserrors.ErrCodeInvalidInput, "%s must be a number, got %q", name, q.Get(name))
	}
	*dst = v
	return nil
}

func parseBool(q url.Values, name string, dst *bool) error {
	if !q.Has(name) {
		return nil
	}
	v, err := strconv.ParseBool(q.Get(name))
	if err != nil {
		return fserrors.New(fserrors.ErrCodeInvalidInput, "%s must be a boolean, got %q", name, q.Get(name))
	}
	*dst = v
	return nil
}

// =============================================================================
// Writing
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return http.StatusRequestEntityTooLarge
	}
	switch {
	case fserrors.IsValidation(err):
		return http.StatusBadRequest
	case fserrors.Is(err, fserrors.ErrCodeNotFound):
		return http.StatusNotFound
	case fserrors.Is(err, fserrors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	id := RequestIDFromContext(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", id, "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "id", id, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     fserrors.UserMessage(err),
		Code:      string(fserrors.GetCode(err)),
		RequestID: id,
	})
}
