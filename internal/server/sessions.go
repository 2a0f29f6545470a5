package server

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/fsnav/pkg/camera"
	fserrors "github.com/matzehuels/fsnav/pkg/errors"
	"github.com/matzehuels/fsnav/pkg/geom"
	"github.com/matzehuels/fsnav/pkg/pipeline"
	"github.com/matzehuels/fsnav/pkg/scene"
	"github.com/matzehuels/fsnav/pkg/session"
)

// Event types accepted by POST /api/sessions/{id}/events.
const (
	EventDrag    = "drag"
	EventScroll  = "scroll"
	EventZoomIn  = "zoom_in"
	EventZoomOut = "zoom_out"
	EventPointer = "pointer"
	EventClick   = "click"
	EventOpen    = "open"
	EventUp      = "up"
	EventResize  = "resize"
	EventRefresh = "refresh"
)

// =============================================================================
// Requests and Responses
// =============================================================================

type sessionRequest struct {
	Dir    string         `json:"dir"`
	Limit  int            `json:"limit"`
	Camera *camera.Camera `json:"camera"`
	Width  float64        `json:"width"`
	Height float64        `json:"height"`
}

type eventRequest struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type sessionResponse struct {
	ID        string              `json:"id"`
	Dir       string              `json:"dir"`
	Camera    camera.Camera       `json:"camera"`
	Width     float64             `json:"width"`
	Height    float64             `json:"height"`
	Points    []scene.ScreenPoint `json:"points"`
	Hovered   string              `json:"hovered,omitempty"`
	HUD       string              `json:"hud"`
	Hint      string              `json:"hint,omitempty"`
	Open      string              `json:"open,omitempty"`
	ExpiresAt time.Time           `json:"expires_at"`
}

// toEvent converts a request into a navigator event.
func (e eventRequest) toEvent() (scene.Event, error) {
	switch e.Type {
	case EventDrag:
		return scene.CameraMoved{Event: camera.Drag{DX: e.DX, DY: e.DY}}, nil
	case EventScroll:
		return scene.CameraMoved{Event: camera.Scroll{Y: e.DY}}, nil
	case EventZoomIn:
		return scene.CameraMoved{Event: camera.ZoomIn}, nil
	case EventZoomOut:
		return scene.CameraMoved{Event: camera.ZoomOut}, nil
	case EventPointer:
		return scene.PointerMoved{X: e.X, Y: e.Y}, nil
	case EventClick:
		return scene.Clicked{X: e.X, Y: e.Y}, nil
	case EventOpen:
		return scene.OpenHovered{}, nil
	case EventUp:
		return scene.GoUp{}, nil
	case EventResize:
		if err := fserrors.ValidateViewport(int(e.Width), int(e.Height)); err != nil {
			return nil, err
		}
		return scene.Resized{Size: geom.Size{W: e.Width, H: e.Height}}, nil
	case EventRefresh:
		return scene.Refreshed{}, nil
	}
	return nil, fserrors.New(fserrors.ErrCodeInvalidInput, "unknown event type %q", e.Type)
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	d := s.defaults
	req := sessionRequest{Dir: d.Dir, Limit: d.Limit, Width: d.Width, Height: d.Height}
	if r.ContentLength != 0 {
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
		if err := dec.Decode(&req); err != nil {
			s.writeError(w, r, fserrors.Wrap(fserrors.ErrCodeInvalidInput, err, "invalid request body"))
			return
		}
	}
	cam := d.Camera
	if req.Camera != nil {
		cam = *req.Camera
	}
	if cam == (camera.Camera{}) {
		cam = camera.Default()
	}
	if req.Width == 0 && req.Height == 0 {
		req.Width, req.Height = pipeline.DefaultWidth, pipeline.DefaultHeight
	}

	if err := validateSession(req, cam); err != nil {
		s.writeError(w, r, err)
		return
	}

	v := scene.NewView(r.Context(), s.runner.Lister, req.Dir, scene.ViewOptions{
		Limit:  req.Limit,
		Layout: d.Layout,
		Camera: cam,
		Size:   geom.Size{W: req.Width, H: req.Height},
	})
	if v.ListErr != nil {
		s.writeError(w, r, fserrors.Wrap(fserrors.ErrCodeNotFound, v.ListErr, "cannot list %s", req.Dir))
		return
	}

	sess := session.New(v, s.sessionTTL)
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Debug("session created", "id", sess.ID, "dir", sess.Dir)
	writeJSON(w, http.StatusCreated, newSessionResponse(sess, v, ""))
}

func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.loadSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v := sess.Restore(r.Context(), s.runner.Lister, s.defaults.Layout)
	writeJSON(w, http.StatusOK, newSessionResponse(sess, v, ""))
}

func (s *Server) handleSessionEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req eventRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, fserrors.Wrap(fserrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	ev, err := req.toEvent()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Events on one session apply in arrival order; each sees the last
	// one's camera and hover.
	unlock := s.locks.lock(id)
	defer unlock()

	sess, err := s.loadSession(ctx, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	v := sess.Restore(ctx, s.runner.Lister, s.defaults.Layout)
	v, open := v.Handle(ctx, ev)
	if s.metrics != nil {
		s.metrics.ObserveSessionEvent(req.Type)
	}

	sess.Capture(v)
	sess.Touch(s.sessionTTL)
	if err := s.sessions.Set(ctx, sess); err != nil {
		s.writeError(w, r, err)
		return
	}

	var openPath string
	if open != nil {
		openPath = open.Path
	}
	writeJSON(w, http.StatusOK, newSessionResponse(sess, v, openPath))
}

// sessionLocks serializes load, handle and store for a session. IDs hash onto
// a fixed set of mutexes, so the table never grows.
type sessionLocks [64]sync.Mutex

func (l *sessionLocks) lock(id string) (unlock func()) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	m := &l[h.Sum32()%uint32(len(l))]
	m.Lock()
	return m.Unlock
}

func (s *Server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

func validateSession(req sessionRequest, cam camera.Camera) error {
	if err := fserrors.ValidatePath(req.Dir); err != nil {
		return err
	}
	if req.Limit != 0 {
		if err := fserrors.ValidateLimit(req.Limit); err != nil {
			return err
		}
	}
	if err := fserrors.ValidateViewport(int(req.Width), int(req.Height)); err != nil {
		return err
	}
	return fserrors.ValidateCamera(cam.Yaw, cam.Pitch, cam.Dist, cam.FOV)
}

func (s *Server) loadSession(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fserrors.Wrap(fserrors.ErrCodeNotFound, session.ErrNotFound, "session %s not found", id)
	}
	return sess, nil
}

func newSessionResponse(sess *session.Session, v scene.View, open string) sessionResponse {
	pts := v.Points
	if pts == nil {
		pts = []scene.ScreenPoint{}
	}
	return sessionResponse{
		ID:        sess.ID,
		Dir:       v.Dir,
		Camera:    v.Camera,
		Width:     v.Size.W,
		Height:    v.Size.H,
		Points:    pts,
		Hovered:   sess.Hovered,
		HUD:       v.HUD(),
		Hint:      v.Hint(),
		Open:      open,
		ExpiresAt: sess.ExpiresAt,
	}
}
