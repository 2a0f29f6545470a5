package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fsnav/pkg/cache"
	"github.com/matzehuels/fsnav/pkg/observability"
	"github.com/matzehuels/fsnav/pkg/render"
	"github.com/matzehuels/fsnav/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, lister and logger - it
// doesn't store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Lister scene.Lister
	Logger *log.Logger

	// ArtifactTTL is the expiry of cached scenes and artifacts. Listings
	// always use cache.ListingTTL.
	ArtifactTTL time.Duration
}

// NewRunner creates a runner with the given cache, keyer and lister.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, l scene.Lister, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:       c,
		Keyer:       keyer,
		Lister:      l,
		Logger:      logger,
		ArtifactTTL: cache.ArtifactTTL,
	}
}

// Execute runs the complete list → scene → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Dir: opts.Dir}

	// Stage 1: List
	listStart := time.Now()
	entries, listHit, err := r.ListWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	result.Entries = entries
	result.Stats.ListTime = time.Since(listStart)
	result.Stats.EntryCount = len(entries)
	result.CacheInfo.ListHit = listHit

	r.Logger.Info("listed directory",
		"dir", opts.Dir,
		"entries", len(entries),
		"cached", listHit,
		"duration", result.Stats.ListTime)

	// Stage 2: Scene
	sceneStart := time.Now()
	nodes, pts, sceneHit, err := r.ComputeSceneWithCacheInfo(ctx, entries, opts)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	result.Nodes = nodes
	result.Points = pts
	result.Stats.SceneTime = time.Since(sceneStart)
	result.Stats.PointCount = len(pts)
	result.CacheInfo.SceneHit = sceneHit

	r.Logger.Info("computed scene",
		"nodes", len(nodes),
		"visible", len(pts),
		"cached", sceneHit,
		"duration", result.Stats.SceneTime)

	// Stage 3: Render
	renderStart := time.Now()
	result.Frame = BuildFrame(pts, opts)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result.Frame, nodes, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ListWithCacheInfo lists opts.Dir with caching and returns cache hit info.
// With opts.Refresh the cached listing is ignored and replaced.
func (r *Runner) ListWithCacheInfo(ctx context.Context, opts Options) ([]scene.Entry, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForList(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.ListingKey(opts.Dir, opts.Limit)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if entries, ok := getJSON(ctx, r, "listing", cacheKey, &[]scene.Entry{}); ok {
			return *entries, true, nil
		}
	}

	entries, err := List(ctx, r.Lister, opts)
	if err != nil {
		return nil, false, err
	}

	r.setJSON(ctx, "listing", cacheKey, entries, cache.ListingTTL)
	return entries, false, nil
}

// List is a convenience wrapper that calls ListWithCacheInfo and discards the cache hit info.
func (r *Runner) List(ctx context.Context, opts Options) ([]scene.Entry, error) {
	entries, _, err := r.ListWithCacheInfo(ctx, opts)
	return entries, err
}

// ComputeSceneWithCacheInfo places entries and projects them, caching the
// screen points. Nodes are always rebuilt; they are cheap and needed by the
// node-link renderers.
func (r *Runner) ComputeSceneWithCacheInfo(ctx context.Context, entries []scene.Entry, opts Options) ([]scene.Node, []scene.ScreenPoint, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForScene(); err != nil {
		return nil, nil, false, err
	}

	nodes := scene.BuildNodes(entries, opts.Limit, opts.Layout)

	listingData, err := json.Marshal(entries)
	if err != nil {
		return nil, nil, false, fmt.Errorf("serialize listing for cache key: %w", err)
	}
	cacheKey := r.Keyer.SceneKey(cache.Hash(listingData), opts.SceneKeyOpts())

	if pts, ok := getJSON(ctx, r, "scene", cacheKey, &[]scene.ScreenPoint{}); ok {
		return nodes, *pts, true, nil
	}

	pts, err := Project(ctx, nodes, opts)
	if err != nil {
		return nil, nil, false, err
	}

	r.setJSON(ctx, "scene", cacheKey, pts, r.ArtifactTTL)
	return nodes, pts, false, nil
}

// ComputeScene is a convenience wrapper that calls ComputeSceneWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeScene(ctx context.Context, entries []scene.Entry, opts Options) ([]scene.Node, []scene.ScreenPoint, error) {
	nodes, pts, _, err := r.ComputeSceneWithCacheInfo(ctx, entries, opts)
	return nodes, pts, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. The render is a hit only when every requested format was cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, f render.Frame, nodes []scene.Node, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	frameData, err := json.Marshal(struct {
		Frame render.Frame
		Nodes []scene.Node
	}{f, nodes})
	if err != nil {
		return nil, false, fmt.Errorf("serialize frame for cache key: %w", err)
	}
	frameHash := cache.Hash(frameData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(frameHash, opts.ArtifactKeyOpts(format))
		data, ok := r.cacheGet(ctx, "artifact", cacheKey)
		if !ok {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	rendered, err := Render(ctx, f, nodes, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(frameHash, opts.ArtifactKeyOpts(format))
		r.cacheSet(ctx, "artifact", cacheKey, data, r.ArtifactTTL)
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, f render.Frame, nodes []scene.Node, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, f, nodes, opts)
	return artifacts, err
}

// HitTest lists and projects opts.Dir and returns the point under (x, y).
func (r *Runner) HitTest(ctx context.Context, opts Options, x, y float64, frontToBack bool) (scene.ScreenPoint, bool, error) {
	entries, err := r.List(ctx, opts)
	if err != nil {
		return scene.ScreenPoint{}, false, err
	}
	_, pts, err := r.ComputeScene(ctx, entries, opts)
	if err != nil {
		return scene.ScreenPoint{}, false, err
	}
	p, ok := HitTest(pts, x, y, frontToBack)
	return p, ok, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// getJSON decodes a cached value into v. Misses, cache errors and corrupt
// entries all report false.
func getJSON[T any](ctx context.Context, r *Runner, kind, key string, v *T) (*T, bool) {
	data, ok := r.cacheGet(ctx, kind, key)
	if !ok {
		return nil, false
	}
	if err := json.Unmarshal(data, v); err != nil {
		return nil, false
	}
	return v, true
}

func (r *Runner) setJSON(ctx context.Context, kind, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	r.cacheSet(ctx, kind, key, data, ttl)
}

func (r *Runner) cacheGet(ctx context.Context, kind, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache get failed", "key", key, "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, kind)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, kind)
	return data, true
}

func (r *Runner) cacheSet(ctx context.Context, kind, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache set failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}
