package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/fsnav/pkg/observability"
	"github.com/matzehuels/fsnav/pkg/render"
	"github.com/matzehuels/fsnav/pkg/render/nodelink"
	"github.com/matzehuels/fsnav/pkg/scene"
)

// BuildFrame assembles the paintable frame for pts. When opts.Hover is set
// the point under it is marked hovered and, with opts.HUD, described in the
// hint line.
func BuildFrame(pts []scene.ScreenPoint, opts Options) render.Frame {
	opts.SetSceneDefaults()
	f := render.Frame{
		Size:   opts.Size(),
		Camera: opts.Camera,
		Dir:    opts.Dir,
		Points: pts,
	}
	if opts.HUD {
		f.HUD = scene.HUDText(opts.Dir)
	}
	if opts.Hover != nil {
		if p, ok := scene.HitTest(pts, opts.Hover.X, opts.Hover.Y); ok {
			f.Hovered = p.Node.Path
			if opts.HUD {
				f.Hint = scene.HintText(p.Node)
			}
		}
	}
	return f
}

// Render generates output artifacts in the requested formats. Formats are
// rendered concurrently.
func Render(ctx context.Context, f render.Frame, nodes []scene.Node, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(opts.Formats))

	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(gctx, format, f, nodes, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, format string, f render.Frame, nodes []scene.Node, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		var svgOpts []render.SVGOption
		if opts.Labels {
			svgOpts = append(svgOpts, render.WithLabels())
		}
		if opts.HUD {
			svgOpts = append(svgOpts, render.WithHUD())
		}
		return render.RenderSVG(f, svgOpts...), nil
	case FormatPNG:
		pngOpts := []render.PNGOption{render.WithScale(opts.Scale)}
		if opts.HUD {
			pngOpts = append(pngOpts, render.WithPNGHUD())
		}
		return render.RenderPNG(f, pngOpts...)
	case FormatJSON:
		return render.RenderJSON(f)
	case FormatDOT:
		return []byte(nodelink.ToDOT(f.Dir, nodes, nodelink.Options{Detailed: opts.Labels})), nil
	case FormatGraph:
		dot := nodelink.ToDOT(f.Dir, nodes, nodelink.Options{Detailed: opts.Labels})
		return nodelink.RenderSVG(ctx, dot)
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}
