package scene

import (
	"cmp"
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/fsnav/pkg/camera"
	"github.com/matzehuels/fsnav/pkg/geom"
)

// Radius tuning. The on-screen radius is
// clamp(base * RadiusScale / clamp(z, DepthMin, DepthMax), RadiusMin, RadiusMax).
const (
	DirRadius   = 45.0
	FileRadius  = 35.0
	RadiusScale = 2.8
	DepthMin    = 0.3
	DepthMax    = 40.0
	RadiusMin   = 15.0
	RadiusMax   = 80.0
)

// ScreenPoint is a node projected for the current frame.
type ScreenPoint struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
	R    float64 `json:"r"`
	Node Node    `json:"node"`
}

// Contains reports whether (x, y) lies inside the point's circle.
func (p ScreenPoint) Contains(x, y float64) bool {
	dx, dy := x-p.X, y-p.Y
	return dx*dx+dy*dy <= p.R*p.R
}

// RadiusAtDepth returns the on-screen radius of a node at camera depth z.
func RadiusAtDepth(z float64, k Kind) float64 {
	base := FileRadius
	if k == Directory {
		base = DirRadius
	}
	return geom.Clamp(base*(RadiusScale/geom.Clamp(z, DepthMin, DepthMax)), RadiusMin, RadiusMax)
}

func projectNode(n Node, c camera.Camera, size geom.Size) (ScreenPoint, bool) {
	pr, ok := camera.Project(n.Pos, c, size)
	if !ok {
		return ScreenPoint{}, false
	}
	return ScreenPoint{X: pr.X, Y: pr.Y, Z: pr.Z, R: RadiusAtDepth(pr.Z, n.Kind), Node: n}, true
}

// Compute projects nodes and returns the visible ones sorted back to front.
func Compute(nodes []Node, c camera.Camera, size geom.Size) []ScreenPoint {
	pts := make([]ScreenPoint, 0, len(nodes))
	for _, n := range nodes {
		if p, ok := projectNode(n, c, size); ok {
			pts = append(pts, p)
		}
	}
	SortByDepth(pts)
	return pts
}

// ComputeParallel is Compute with projection fanned out over at most workers
// goroutines. The result is identical to Compute. workers <= 0 uses one
// goroutine per chunk of parallelChunk nodes.
func ComputeParallel(ctx context.Context, nodes []Node, c camera.Camera, size geom.Size, workers int) ([]ScreenPoint, error) {
	type slot struct {
		p  ScreenPoint
		ok bool
	}
	slots := make([]slot, len(nodes))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for lo := 0; lo < len(nodes); lo += parallelChunk {
		hi := min(lo+parallelChunk, len(nodes))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				slots[i].p, slots[i].ok = projectNode(nodes[i], c, size)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pts := make([]ScreenPoint, 0, len(nodes))
	for _, s := range slots {
		if s.ok {
			pts = append(pts, s.p)
		}
	}
	SortByDepth(pts)
	return pts, nil
}

const parallelChunk = 256

// SortByDepth orders pts back to front (largest Z first). The sort is stable.
func SortByDepth(pts []ScreenPoint) {
	slices.SortStableFunc(pts, func(a, b ScreenPoint) int {
		return cmp.Compare(b.Z, a.Z)
	})
}

// FrontToBack returns a reversed copy of pts.
func FrontToBack(pts []ScreenPoint) []ScreenPoint {
	out := slices.Clone(pts)
	slices.Reverse(out)
	return out
}

// HitTest returns the first point in pts whose circle contains (x, y).
// Overlapping circles resolve by scan order.
func HitTest(pts []ScreenPoint, x, y float64) (ScreenPoint, bool) {
	for _, p := range pts {
		if p.Contains(x, y) {
			return p, true
		}
	}
	return ScreenPoint{}, false
}
