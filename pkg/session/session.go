// Package session keeps navigator state between requests.
//
// A Session remembers where a client is looking: the directory, the camera,
// the viewport and the hovered entry. The scene itself is not stored; it is
// rebuilt from the directory listing when the session is restored, so a
// session stays small and survives changes on disk.
//
// Stores:
//   - [MemoryStore]: in-process, for a single server
//   - [FileStore]: JSON files, for the CLI and single-host setups
//   - [CacheStore]: any [cache.Cache], e.g. Redis for several instances
//
// # Usage
//
//	sess := session.New(v, session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    // unknown or expired
//	}
//	v := sess.Restore(ctx, lister, layout.Default())
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/fsnav/pkg/camera"
	"github.com/matzehuels/fsnav/pkg/geom"
	"github.com/matzehuels/fsnav/pkg/layout"
	"github.com/matzehuels/fsnav/pkg/scene"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 30 * time.Minute

// Session is the persisted state of one navigator.
type Session struct {
	ID      string        `json:"id"`
	Dir     string        `json:"dir"`
	Limit   int           `json:"limit"`
	Camera  camera.Camera `json:"camera"`
	Width   float64       `json:"width"`
	Height  float64       `json:"height"`
	Hovered string        `json:"hovered,omitempty"`

	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// New creates a session with a fresh ID capturing v.
func New(v scene.View, ttl time.Duration) *Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	s.Capture(v)
	return s
}

// IsExpired reports whether the session has outlived its TTL.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the session's lifetime by ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	s.ExpiresAt = time.Now().Add(ttl)
}

// Capture records the state of v.
func (s *Session) Capture(v scene.View) {
	s.Dir = v.Dir
	s.Limit = v.Limit
	s.Camera = v.Camera
	s.Width, s.Height = v.Size.W, v.Size.H
	s.Hovered = ""
	if v.HasHover {
		s.Hovered = v.Hovered.Node.Path
	}
}

// Restore rebuilds the view: the directory is listed again through l and the
// hover is kept if the hovered entry is still visible.
func (s *Session) Restore(ctx context.Context, l scene.Lister, o layout.Options) scene.View {
	v := scene.NewView(ctx, l, s.Dir, scene.ViewOptions{
		Limit:  s.Limit,
		Layout: o,
		Camera: s.Camera,
		Size:   geom.Size{W: s.Width, H: s.Height},
	})
	if s.Hovered != "" {
		v = v.HoverPath(s.Hovered)
	}
	return v
}

// Store persists sessions.
type Store interface {
	// Get returns the session with id, or nil, nil if it does not exist or
	// has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores sess, replacing any session with the same ID.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions. It may be a no-op for stores that
	// expire entries themselves.
	Cleanup(ctx context.Context) error
}
