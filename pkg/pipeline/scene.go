package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/fsnav/pkg/observability"
	"github.com/matzehuels/fsnav/pkg/scene"
)

// BuildNodes places entries on the spiral described by opts.Layout.
func BuildNodes(entries []scene.Entry, opts Options) []scene.Node {
	opts.SetSceneDefaults()
	return scene.BuildNodes(entries, opts.Limit, opts.Layout)
}

// ComputeScene lays out entries, projects them through opts.Camera and
// returns the nodes together with the visible points sorted back to front.
func ComputeScene(ctx context.Context, entries []scene.Entry, opts Options) ([]scene.Node, []scene.ScreenPoint, error) {
	if err := opts.ValidateForScene(); err != nil {
		return nil, nil, err
	}
	nodes := scene.BuildNodes(entries, opts.Limit, opts.Layout)
	pts, err := Project(ctx, nodes, opts)
	if err != nil {
		return nil, nil, err
	}
	return nodes, pts, nil
}

// Project computes screen points for already placed nodes.
func Project(ctx context.Context, nodes []scene.Node, opts Options) ([]scene.ScreenPoint, error) {
	if err := opts.ValidateForScene(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnSceneStart(ctx, len(nodes))
	start := time.Now()

	pts, err := scene.ComputeParallel(ctx, nodes, opts.Camera, opts.Size(), opts.Workers)
	hooks.OnSceneComplete(ctx, len(pts), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("projected scene",
		"nodes", len(nodes),
		"visible", len(pts),
		"camera", opts.Camera.String())
	return pts, nil
}

// HitTest returns the point under (x, y). With frontToBack the nearest
// circle wins where circles overlap; otherwise points are scanned in paint
// order.
func HitTest(pts []scene.ScreenPoint, x, y float64, frontToBack bool) (scene.ScreenPoint, bool) {
	if frontToBack {
		pts = scene.FrontToBack(pts)
	}
	return scene.HitTest(pts, x, y)
}
