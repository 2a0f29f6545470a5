// Package pipeline provides the frame pipeline for fsnav.
//
// This package implements the complete list → scene → render pipeline that
// is used by the CLI commands and the HTTP server. By centralizing this logic,
// both entry points agree on defaults, validation and cache keys.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. List: Enumerate a directory (directories first, case-insensitive names)
//  2. Scene: Lay entries out on the spiral, project and depth-sort them
//  3. Render: Generate output in various formats (SVG, PNG, JSON, DOT, graph)
//
// Each stage can be run independently or as part of the complete pipeline,
// and each stage consults the cache before doing work.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, fsys.NewOSLister("/"), logger)
//	opts := pipeline.Options{
//	    Dir:     "/home/user",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	entries, err := runner.List(ctx, opts)
//	nodes, points, err := runner.ComputeScene(ctx, entries, opts)
//	artifacts, err := runner.Render(ctx, frame, nodes, opts)
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fsnav/pkg/cache"
	"github.com/matzehuels/fsnav/pkg/camera"
	fserrors "github.com/matzehuels/fsnav/pkg/errors"
	"github.com/matzehuels/fsnav/pkg/geom"
	"github.com/matzehuels/fsnav/pkg/layout"
	"github.com/matzehuels/fsnav/pkg/render"
	"github.com/matzehuels/fsnav/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 1100.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 720.0

	// DefaultLimit is the default number of entries shown per directory.
	DefaultLimit = scene.DefaultLimit
)

// Format constants for output formats.
const (
	FormatSVG   = "svg"
	FormatPNG   = "png"
	FormatJSON  = "json"
	FormatDOT   = "dot"
	FormatGraph = "graph" // node-link diagram as SVG
)

// SupportedFormats lists the output formats in display order.
var SupportedFormats = []string{FormatSVG, FormatPNG, FormatJSON, FormatDOT, FormatGraph}

// Extension returns the file extension for a format.
func Extension(format string) string {
	if format == FormatGraph {
		return "graph.svg"
	}
	return format
}

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG, FormatGraph:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	}
	return "application/octet-stream"
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Point is a screen position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Options contains all configuration for the frame pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// List options
	Dir     string `json:"dir"`
	Limit   int    `json:"limit,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`

	// Scene options
	Camera  camera.Camera  `json:"camera"`
	Width   float64        `json:"width,omitempty"`
	Height  float64        `json:"height,omitempty"`
	Layout  layout.Options `json:"layout"`
	Workers int            `json:"-"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Labels  bool     `json:"labels,omitempty"`
	HUD     bool     `json:"hud,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Hover   *Point   `json:"hover,omitempty"` // pointer position used to pick the hovered node

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dir is the directory that was listed.
	Dir string

	// Entries is the directory listing.
	Entries []scene.Entry

	// Nodes are the entries placed on the spiral.
	Nodes []scene.Node

	// Points are the visible nodes, back to front.
	Points []scene.ScreenPoint

	// Frame is what was rendered.
	Frame render.Frame

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	EntryCount int
	PointCount int
	ListTime   time.Duration
	SceneTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ListHit   bool // Whether the listing came from cache
	SceneHit  bool // Whether the screen points came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForList(); err != nil {
		return err
	}
	if err := o.ValidateForScene(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForList checks the directory and limit, applying the default limit.
func (o *Options) ValidateForList() error {
	if err := fserrors.ValidatePath(o.Dir); err != nil {
		return err
	}
	if o.Limit == 0 {
		o.Limit = DefaultLimit
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return fserrors.ValidateLimit(o.Limit)
}

// SetSceneDefaults sets default values for scene computation. Unset camera
// fields take their defaults; the camera is then clamped.
func (o *Options) SetSceneDefaults() {
	o.Camera = o.Camera.WithDefaults().Clamped()
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	o.Layout = o.Layout.WithDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForScene validates and sets defaults for scene computation.
func (o *Options) ValidateForScene() error {
	o.SetSceneDefaults()
	if err := fserrors.ValidateViewport(int(o.Width), int(o.Height)); err != nil {
		return err
	}
	return fserrors.ValidateCamera(o.Camera.Yaw, o.Camera.Pitch, o.Camera.Dist, o.Camera.FOV)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	for i, f := range o.Formats {
		o.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Scale < 0 || o.Scale > 8 {
		return fserrors.New(fserrors.ErrCodeInvalidInput, "scale must be in (0, 8], got %g", o.Scale)
	}
	return fserrors.ValidateFormats(o.Formats, SupportedFormats)
}

// Size returns the viewport.
func (o *Options) Size() geom.Size {
	return geom.Size{W: o.Width, H: o.Height}
}

// SceneKeyOpts returns cache key options for scene computation.
func (o *Options) SceneKeyOpts() cache.SceneKeyOpts {
	return cache.SceneKeyOpts{
		Yaw:         o.Camera.Yaw,
		Pitch:       o.Camera.Pitch,
		Dist:        o.Camera.Dist,
		FOV:         o.Camera.FOV,
		Width:       o.Width,
		Height:      o.Height,
		Radius:      o.Layout.Radius,
		AngleStep:   o.Layout.AngleStep,
		ZStep:       o.Layout.ZStep,
		MinFraction: o.Layout.MinFraction,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Labels: o.Labels,
		HUD:    o.HUD,
		Scale:  o.Scale,
	}
}
