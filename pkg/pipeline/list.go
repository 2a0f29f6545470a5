package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/fsnav/pkg/observability"
	"github.com/matzehuels/fsnav/pkg/scene"
)

// List enumerates opts.Dir through l. Unlike scene.View, which shows an
// empty directory when listing fails, List reports the error.
func List(ctx context.Context, l scene.Lister, opts Options) ([]scene.Entry, error) {
	if err := opts.ValidateForList(); err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("no lister configured")
	}

	hooks := observability.Pipeline()
	hooks.OnListStart(ctx, opts.Dir)
	start := time.Now()

	entries, err := l.List(ctx, opts.Dir, opts.Limit)
	hooks.OnListComplete(ctx, opts.Dir, len(entries), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("listed directory", "dir", opts.Dir, "entries", len(entries))
	return entries, nil
}
