package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fsnav/internal/config"
	"github.com/matzehuels/fsnav/pkg/pipeline"
	"github.com/matzehuels/fsnav/pkg/publish"
)

// renderOpts holds the command-line flags for the render command that are
// not layered through the config.
type renderOpts struct {
	output  string   // base output path; extensions are appended per format
	formats []string // output formats: svg, png, json, dot, graph
	labels  bool     // draw entry names (detailed node-link labels)
	hud     bool     // draw the status and hint lines
	scale   float64  // PNG scale factor
	hoverX  float64  // pointer position for the hover highlight
	hoverY  float64
	publish bool // upload artifacts to the configured bucket
}

// renderCommand creates the render command for generating scene images.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: 1, hoverX: -1, hoverY: -1}

	cmd := &cobra.Command{
		Use:   "render [dir]",
		Short: "Render a directory as a 3D spiral scene",
		Long: `Render a directory as a 3D spiral scene.

The directory is listed, laid out on the spiral, projected through the camera
and written in each requested format:

  svg    vector scene with grid and circles
  png    raster scene
  json   screen points, back to front
  dot    parent/child wiring diagram (Graphviz source)
  graph  the wiring diagram rendered as SVG

Files are written as <output>.<format>. With --publish they are also
uploaded to the bucket configured under [publish].`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			dir, err := c.resolveDir(args)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cfg, dir, &opts)
		},
	}

	addViewFlags(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "base output path (default: scene name derived from dir)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(pipeline.SupportedFormats, ", ")+" (comma-separated, default svg)")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "draw entry names")
	cmd.Flags().BoolVar(&opts.hud, "hud", false, "draw the status line and hover hint")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().Float64Var(&opts.hoverX, "hover-x", opts.hoverX, "pointer x for the hover highlight")
	cmd.Flags().Float64Var(&opts.hoverY, "hover-y", opts.hoverY, "pointer y for the hover highlight")
	cmd.Flags().BoolVar(&opts.publish, "publish", false, "upload artifacts to the configured bucket")
	cmd.Flags().String("bucket", "", "bucket for --publish (overrides publish.bucket)")
	cmd.Flags().String("prefix", "", "key prefix for --publish (overrides publish.prefix)")

	return cmd
}

// sceneName derives a file name from a directory, e.g. "/home/user" gives
// "home_user" and "/" gives "root".
func sceneName(dir string) string {
	name := strings.Trim(filepath.ToSlash(dir), "/")
	if name == "" {
		return "root"
	}
	return strings.ReplaceAll(name, "/", "_")
}

// basePath strips a known format extension from output, or derives a base
// from dir when output is empty.
func basePath(output, dir string) string {
	if output == "" {
		return sceneName(dir)
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if slices.Contains(pipeline.SupportedFormats, ext) {
		return strings.TrimSuffix(output, "."+ext)
	}
	return output
}

// runRender executes the pipeline and writes (and optionally publishes) the
// artifacts.
func (c *CLI) runRender(ctx context.Context, cfg *config.Config, dir string, ro *renderOpts) error {
	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.sceneOptions(cfg, dir)
	opts.Formats = ro.formats
	opts.Labels = ro.labels
	opts.HUD = ro.hud
	opts.Scale = ro.scale
	if ro.hoverX >= 0 && ro.hoverY >= 0 {
		opts.Hover = &pipeline.Point{X: ro.hoverX, Y: ro.hoverY}
	}

	spin := startSpinner(ctx, "Rendering "+dir)
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spin.Fail("Render failed")
		return err
	}
	spin.Stop()

	base := basePath(ro.output, dir)
	var written []string
	for _, format := range opts.Formats {
		path := base + "." + pipeline.Extension(format)
		if err := writeOutput(path, res.Artifacts[format]); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	printSuccess("Rendered %s in %s", dir, spin.Elapsed().Round(time.Millisecond))
	for _, p := range written {
		printFile(p)
	}
	printStats(res.CacheInfo.RenderHit,
		fmt.Sprintf("%d entries", res.Stats.EntryCount),
		fmt.Sprintf("%d visible", res.Stats.PointCount))
	if res.Frame.Hovered != "" {
		printKeyValue("hovered", res.Frame.Hovered)
	}

	if !ro.publish {
		return nil
	}
	return c.publishArtifacts(ctx, cfg.Publish, base, opts.Formats, res.Artifacts)
}

// publishArtifacts uploads each artifact under its file name.
func (c *CLI) publishArtifacts(ctx context.Context, pc publish.Config, base string, formats []string, artifacts map[string][]byte) error {
	p, err := publish.NewS3Publisher(ctx, pc, c.Logger)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	objs := make([]publish.Object, 0, len(formats))
	for _, format := range formats {
		objs = append(objs, publish.Object{
			Name:        filepath.Base(base) + "." + pipeline.Extension(format),
			Data:        artifacts[format],
			ContentType: pipeline.ContentType(format),
		})
	}
	keys, err := p.PublishAll(ctx, objs)
	for _, k := range keys {
		printSuccess("Published %s", StyleLink.Render("s3://"+pc.Bucket+"/"+k))
	}
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}
