package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fsnav/internal/config"
	"github.com/matzehuels/fsnav/pkg/pipeline"
	"github.com/matzehuels/fsnav/pkg/scene"
)

// layoutCommand creates the layout command, which lists a directory and
// places its entries on the spiral.
func (c *CLI) layoutCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "layout [dir]",
		Short: "Place a directory's entries on the spiral and write them as JSON",
		Long: `Place a directory's entries on the spiral and write them as JSON.

Entries are listed directories first, then by case-insensitive name, and
truncated to --limit. Each node carries its world-space position. Listings
are cached briefly; use --no-cache to always read the disk.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			dir, err := c.resolveDir(args)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), cfg, dir, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file (- for stdout)")
	cmd.Flags().Int("limit", config.Default().View.Limit, "maximum entries placed")

	return cmd
}

type layoutOutput struct {
	Dir   string       `json:"dir"`
	Nodes []scene.Node `json:"nodes"`
}

// runLayout lists dir, builds nodes and writes them.
func (c *CLI) runLayout(ctx context.Context, cfg *config.Config, dir, output string) error {
	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.sceneOptions(cfg, dir)
	prog := newProgress(c.Logger)
	entries, hit, err := runner.ListWithCacheInfo(ctx, opts)
	if err != nil {
		return fmt.Errorf("list %s: %w", dir, err)
	}
	nodes := pipeline.BuildNodes(entries, opts)
	prog.done(fmt.Sprintf("Listed %s, placed %d entries", dir, len(nodes)))

	data, err := json.MarshalIndent(layoutOutput{Dir: dir, Nodes: nodes}, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := writeOutput(output, data); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	if output != "-" {
		printSuccess("Layout complete")
		printFile(output)
		printStats(hit, fmt.Sprintf("%d entries", len(entries)), fmt.Sprintf("%d placed", len(nodes)))
		printNewline()
		printNextStep("Render", appName+" render "+dir)
	}
	return nil
}
