package pipeline

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/fsnav/pkg/cache"
	"github.com/matzehuels/fsnav/pkg/camera"
	fserrors "github.com/matzehuels/fsnav/pkg/errors"
	"github.com/matzehuels/fsnav/pkg/fsys"
	"github.com/matzehuels/fsnav/pkg/layout"
	"github.com/matzehuels/fsnav/pkg/scene"
)

// countingLister counts calls to the wrapped lister.
type countingLister struct {
	scene.Lister
	calls atomic.Int32
}

func (c *countingLister) List(ctx context.Context, dir string, limit int) ([]scene.Entry, error) {
	c.calls.Add(1)
	return c.Lister.List(ctx, dir, limit)
}

func newTestRunner(t *testing.T) (*Runner, *countingLister) {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	l := &countingLister{Lister: fsys.NewDemoLister()}
	return NewRunner(fc, nil, l, nil), l
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Dir: "/home/user"}
	require.NoError(t, opts.ValidateAndSetDefaults())

	assert.Equal(t, DefaultLimit, opts.Limit)
	assert.Equal(t, DefaultWidth, opts.Width)
	assert.Equal(t, DefaultHeight, opts.Height)
	assert.Equal(t, camera.Default(), opts.Camera)
	assert.Equal(t, layout.Default(), opts.Layout)
	assert.Equal(t, []string{FormatSVG}, opts.Formats)
	assert.Equal(t, 1.0, opts.Scale)
	assert.NotNil(t, opts.Logger)
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Dir: "/", Formats: []string{" SVG ", "Png"}}
	require.NoError(t, opts.ValidateAndSetDefaults())
	first := opts
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, first.Formats, opts.Formats)
	assert.Equal(t, []string{"svg", "png"}, opts.Formats)
}

func TestOptionsCameraClamped(t *testing.T) {
	opts := Options{Dir: "/", Camera: camera.Camera{Yaw: 1, Pitch: 3, Dist: 100, FOV: 1}}
	require.NoError(t, opts.ValidateForScene())
	assert.Equal(t, camera.PitchMax, opts.Camera.Pitch)
	assert.Equal(t, camera.DistMax, opts.Camera.Dist)
	assert.Equal(t, 1.0, opts.Camera.Yaw)
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code fserrors.Code
	}{
		{"empty dir", Options{}, fserrors.ErrCodeInvalidPath},
		{"negative limit", Options{Dir: "/", Limit: -1}, fserrors.ErrCodeInvalidInput},
		{"bad format", Options{Dir: "/", Formats: []string{"pdf"}}, fserrors.ErrCodeInvalidFormat},
		{"negative width", Options{Dir: "/", Width: -5}, fserrors.ErrCodeInvalidViewport},
		{"huge viewport", Options{Dir: "/", Width: 20000}, fserrors.ErrCodeInvalidViewport},
		{"bad fov", Options{Dir: "/", Camera: camera.Camera{Dist: 5, FOV: 4}}, fserrors.ErrCodeInvalidCamera},
		{"bad scale", Options{Dir: "/", Scale: 10}, fserrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			require.Error(t, err)
			assert.Equal(t, tt.code, fserrors.GetCode(err))
		})
	}
}

func TestExtensionAndContentType(t *testing.T) {
	assert.Equal(t, "graph.svg", Extension(FormatGraph))
	assert.Equal(t, "png", Extension(FormatPNG))
	assert.Equal(t, "image/svg+xml", ContentType(FormatGraph))
	assert.Equal(t, "application/json", ContentType(FormatJSON))
	assert.Equal(t, "application/octet-stream", ContentType("bin"))
}

func TestList(t *testing.T) {
	entries, err := List(context.Background(), fsys.NewDemoLister(), Options{Dir: "/home/user"})
	require.NoError(t, err)
	require.Len(t, entries, 9)
	assert.Equal(t, "Desktop", entries[0].Name)
	assert.Equal(t, scene.Directory, entries[0].Kind)
	assert.Equal(t, scene.File, entries[8].Kind)
}

func TestListMissingDir(t *testing.T) {
	_, err := List(context.Background(), fsys.NewDemoLister(), Options{Dir: "/nope"})
	require.Error(t, err)
	assert.True(t, fserrors.Is(err, fserrors.ErrCodeNotFound))
}

func TestComputeScene(t *testing.T) {
	ctx := context.Background()
	entries, err := List(ctx, fsys.NewDemoLister(), Options{Dir: "/home/user"})
	require.NoError(t, err)

	opts := Options{Dir: "/home/user"}
	nodes, pts, err := ComputeScene(ctx, entries, opts)
	require.NoError(t, err)
	assert.Len(t, nodes, len(entries))
	assert.LessOrEqual(t, len(pts), len(nodes))
	assert.NotEmpty(t, pts)

	require.NoError(t, opts.ValidateForScene())
	assert.Equal(t, scene.Compute(nodes, opts.Camera, opts.Size()), pts)
	for i := 1; i < len(pts); i++ {
		assert.GreaterOrEqual(t, pts[i-1].Z, pts[i].Z)
	}
}

func TestComputeSceneLimit(t *testing.T) {
	entries, err := List(context.Background(), fsys.NewDemoLister(), Options{Dir: "/home/user"})
	require.NoError(t, err)
	nodes, _, err := ComputeScene(context.Background(), entries, Options{Dir: "/home/user", Limit: 3})
	require.NoError(t, err)
	assert.Len(t, nodes, 3)
}

func TestHitTestOrder(t *testing.T) {
	back := scene.ScreenPoint{X: 10, Y: 10, Z: 9, R: 20, Node: scene.Node{Path: "/back"}}
	front := scene.ScreenPoint{X: 12, Y: 10, Z: 2, R: 20, Node: scene.Node{Path: "/front"}}
	pts := []scene.ScreenPoint{back, front}

	p, ok := HitTest(pts, 11, 10, false)
	require.True(t, ok)
	assert.Equal(t, "/back", p.Node.Path)

	p, ok = HitTest(pts, 11, 10, true)
	require.True(t, ok)
	assert.Equal(t, "/front", p.Node.Path)

	_, ok = HitTest(pts, 500, 500, true)
	assert.False(t, ok)
}

func TestBuildFrame(t *testing.T) {
	pts := []scene.ScreenPoint{
		{X: 100, Y: 100, Z: 3, R: 20, Node: scene.Node{Path: "/a/docs", Kind: scene.Directory}},
	}
	f := BuildFrame(pts, Options{Dir: "/a", HUD: true, Hover: &Point{X: 105, Y: 95}})
	assert.Equal(t, "/a/docs", f.Hovered)
	assert.Equal(t, "dir: /a/docs", f.Hint)
	assert.Equal(t, scene.HUDText("/a"), f.HUD)
	assert.Equal(t, DefaultWidth, f.Size.W)

	f = BuildFrame(pts, Options{Dir: "/a", Hover: &Point{X: 0, Y: 0}})
	assert.Empty(t, f.Hovered)
	assert.Empty(t, f.HUD)
}

func TestRenderFormats(t *testing.T) {
	ctx := context.Background()
	entries, err := List(ctx, fsys.NewDemoLister(), Options{Dir: "/home/user"})
	require.NoError(t, err)
	opts := Options{Dir: "/home/user", Formats: []string{"svg", "png", "json", "dot"}}
	nodes, pts, err := ComputeScene(ctx, entries, opts)
	require.NoError(t, err)

	artifacts, err := Render(ctx, BuildFrame(pts, opts), nodes, opts)
	require.NoError(t, err)
	require.Len(t, artifacts, 4)
	assert.Contains(t, string(artifacts["svg"]), "<svg")
	assert.Equal(t, []byte("\x89PNG"), artifacts["png"][:4])
	assert.Contains(t, string(artifacts["dot"]), "digraph G")

	var decoded struct {
		Dir    string            `json:"dir"`
		Points []json.RawMessage `json:"points"`
	}
	require.NoError(t, json.Unmarshal(artifacts["json"], &decoded))
	assert.Equal(t, "/home/user", decoded.Dir)
	assert.Len(t, decoded.Points, len(pts))
}

func TestRunnerExecute(t *testing.T) {
	r, l := newTestRunner(t)
	ctx := context.Background()
	opts := Options{Dir: "/home/user", Formats: []string{"svg", "json"}}

	res, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, "/home/user", res.Dir)
	assert.Equal(t, 9, res.Stats.EntryCount)
	assert.Equal(t, len(res.Points), res.Stats.PointCount)
	assert.Len(t, res.Artifacts, 2)
	assert.False(t, res.CacheInfo.ListHit)
	assert.False(t, res.CacheInfo.SceneHit)
	assert.False(t, res.CacheInfo.RenderHit)

	again, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	assert.True(t, again.CacheInfo.ListHit)
	assert.True(t, again.CacheInfo.SceneHit)
	assert.True(t, again.CacheInfo.RenderHit)
	assert.Equal(t, res.Points, again.Points)
	assert.Equal(t, res.Artifacts["svg"], again.Artifacts["svg"])
	assert.Equal(t, int32(1), l.calls.Load())
}

func TestRunnerRefresh(t *testing.T) {
	r, l := newTestRunner(t)
	ctx := context.Background()

	_, hit, err := r.ListWithCacheInfo(ctx, Options{Dir: "/"})
	require.NoError(t, err)
	assert.False(t, hit)

	_, hit, err = r.ListWithCacheInfo(ctx, Options{Dir: "/", Refresh: true})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int32(2), l.calls.Load())
}

func TestRunnerCameraChangeMissesScene(t *testing.T) {
	r, _ := newTestRunner(t)
	ctx := context.Background()

	_, err := r.Execute(ctx, Options{Dir: "/home/user"})
	require.NoError(t, err)

	cam := camera.Default().Orbit(40, 0)
	res, err := r.Execute(ctx, Options{Dir: "/home/user", Camera: cam})
	require.NoError(t, err)
	assert.True(t, res.CacheInfo.ListHit)
	assert.False(t, res.CacheInfo.SceneHit)
}

func TestRunnerNullCache(t *testing.T) {
	r := NewRunner(nil, nil, fsys.NewDemoLister(), nil)
	ctx := context.Background()
	for range 2 {
		res, err := r.Execute(ctx, Options{Dir: "/"})
		require.NoError(t, err)
		assert.False(t, res.CacheInfo.ListHit)
	}
	assert.NoError(t, r.Close())
}

func TestRunnerListError(t *testing.T) {
	r, _ := newTestRunner(t)
	_, err := r.Execute(context.Background(), Options{Dir: "/missing"})
	require.Error(t, err)
	assert.True(t, fserrors.Is(err, fserrors.ErrCodeNotFound))
}

func TestRunnerHitTest(t *testing.T) {
	r, _ := newTestRunner(t)
	ctx := context.Background()
	opts := Options{Dir: "/home/user"}

	res, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	require.NotEmpty(t, res.Points)
	top := res.Points[len(res.Points)-1]

	p, ok, err := r.HitTest(ctx, opts, top.X, top.Y, true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, top.Node.Path, p.Node.Path)

	_, ok, err = r.HitTest(ctx, opts, -1000, -1000, false)
	require.NoError(t, err)
	assert.False(t, ok)
}
