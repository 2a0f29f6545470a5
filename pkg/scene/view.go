package scene

import (
	"context"
	"path/filepath"

	"github.com/matzehuels/fsnav/pkg/camera"
	"github.com/matzehuels/fsnav/pkg/geom"
	"github.com/matzehuels/fsnav/pkg/layout"
	"github.com/matzehuels/fsnav/pkg/pathfmt"
)

// DefaultLimit is the default maximum number of entries shown per directory.
const DefaultLimit = 140

// HelpText is the key summary shown in the HUD.
const HelpText = "Drag=rotate  Enter=open  Backspace=up  Wheel=zoom  Esc=quit"

// Lister enumerates a directory. Implementations live outside this package
// (see pkg/fsys); a failing Lister is treated as an empty directory.
type Lister interface {
	List(ctx context.Context, dir string, limit int) ([]Entry, error)
}

// ListerFunc adapts a function to the Lister interface.
type ListerFunc func(ctx context.Context, dir string, limit int) ([]Entry, error)

// List calls f.
func (f ListerFunc) List(ctx context.Context, dir string, limit int) ([]Entry, error) {
	return f(ctx, dir, limit)
}

// ViewOptions configures a new View.
type ViewOptions struct {
	Limit  int
	Layout layout.Options
	Camera camera.Camera
	Size   geom.Size
}

// View is the navigator state for one frame: where we are, what is on screen
// and what the pointer is over. Methods return a new View and never modify
// the receiver's slices.
type View struct {
	Dir    string
	Limit  int
	Layout layout.Options
	Camera camera.Camera
	Size   geom.Size
	Nodes  []Node
	Points []ScreenPoint

	// Hovered is valid only when HasHover is true.
	Hovered  ScreenPoint
	HasHover bool

	// ListErr is the error from the most recent listing, if any. The view
	// still renders (with no nodes); callers decide whether to log it.
	ListErr error

	lister Lister
}

// NewView lists dir and builds the first frame.
func NewView(ctx context.Context, l Lister, dir string, o ViewOptions) View {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	v := View{
		Limit:  o.Limit,
		Layout: o.Layout.WithDefaults(),
		Camera: o.Camera.WithDefaults().Clamped(),
		Size:   o.Size,
		lister: l,
	}
	return v.Navigate(ctx, dir)
}

// Navigate replaces the node set with the listing of dir and clears hover.
func (v View) Navigate(ctx context.Context, dir string) View {
	var entries []Entry
	var err error
	if v.lister != nil {
		entries, err = v.lister.List(ctx, dir, v.Limit)
		if err != nil {
			entries = nil
		}
	}
	v.Dir = dir
	v.ListErr = err
	v.Nodes = BuildNodes(entries, v.Limit, v.Layout)
	v.HasHover = false
	v.Hovered = ScreenPoint{}
	return v.recompute()
}

// Refresh re-lists the current directory.
func (v View) Refresh(ctx context.Context) View {
	return v.Navigate(ctx, v.Dir)
}

// GoUp navigates to the parent directory. At the root it returns v unchanged.
func (v View) GoUp(ctx context.Context) View {
	parent := filepath.Dir(v.Dir)
	if parent == v.Dir {
		return v
	}
	return v.Navigate(ctx, parent)
}

// WithLimit changes the display limit and rebuilds the node set.
func (v View) WithLimit(ctx context.Context, limit int) View {
	if limit <= 0 {
		limit = DefaultLimit
	}
	v.Limit = limit
	return v.Navigate(ctx, v.Dir)
}

// Resize updates the viewport and reprojects.
func (v View) Resize(size geom.Size) View {
	v.Size = size
	return v.recompute()
}

// WithCamera replaces the camera (clamped) and reprojects.
func (v View) WithCamera(c camera.Camera) View {
	v.Camera = c.Clamped()
	return v.recompute()
}

// Hover updates the hovered node for a pointer at (x, y).
func (v View) Hover(x, y float64) View {
	v.Hovered, v.HasHover = HitTest(v.Points, x, y)
	return v
}

// HoverPath hovers the visible node with the given path, or clears the
// hover when no visible node has it.
func (v View) HoverPath(path string) View {
	v.Hovered, v.HasHover = ScreenPoint{}, false
	for _, p := range v.Points {
		if p.Node.Path == path {
			v.Hovered, v.HasHover = p, true
			break
		}
	}
	return v
}

// recompute reprojects nodes for the current camera and viewport. The hovered
// node, if still visible, is re-resolved from the new points by path.
func (v View) recompute() View {
	if v.Size.Empty() {
		v.Points = nil
	} else {
		v.Points = Compute(v.Nodes, v.Camera, v.Size)
	}
	if v.HasHover {
		v.HasHover = false
		for _, p := range v.Points {
			if p.Node.Path == v.Hovered.Node.Path {
				v.Hovered, v.HasHover = p, true
				break
			}
		}
		if !v.HasHover {
			v.Hovered = ScreenPoint{}
		}
	}
	return v
}

// HUD returns the status line: the shortened directory and the key help.
func (v View) HUD() string {
	return HUDText(v.Dir)
}

// Hint describes the hovered node, or returns "" when nothing is hovered.
func (v View) Hint() string {
	if !v.HasHover {
		return ""
	}
	return HintText(v.Hovered.Node)
}

// HUDText is the status line for dir.
func HUDText(dir string) string {
	return pathfmt.Shorten(dir, pathfmt.DefaultMax) + "   |   " + HelpText
}

// HintText is the hover line for n, e.g. "dir: /home/user".
func HintText(n Node) string {
	return n.Kind.String() + ": " + pathfmt.Shorten(n.Path, pathfmt.HintMax)
}
