package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fsnav/internal/config"
	"github.com/matzehuels/fsnav/pkg/scene"
)

// hitCommand creates the hit command, which reports the entry under a
// screen position.
func (c *CLI) hitCommand() *cobra.Command {
	var x, y float64
	var front bool

	cmd := &cobra.Command{
		Use:   "hit [dir]",
		Short: "Report the entry under a screen position",
		Long: `Report the entry under a screen position.

The scene is computed exactly as render does and the point (x, y) is tested
against the projected circles. By default the first match in paint order
(farthest first) wins; --front-to-back picks the nearest circle instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("x") || !cmd.Flags().Changed("y") {
				return fmt.Errorf("both --x and --y are required")
			}
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			dir, err := c.resolveDir(args)
			if err != nil {
				return err
			}
			return c.runHit(cmd.Context(), cfg, dir, x, y, front)
		},
	}

	addViewFlags(cmd)
	cmd.Flags().Float64Var(&x, "x", 0, "screen x in pixels")
	cmd.Flags().Float64Var(&y, "y", 0, "screen y in pixels")
	cmd.Flags().BoolVar(&front, "front-to-back", false, "pick the nearest circle when several overlap")

	return cmd
}

func (c *CLI) runHit(ctx context.Context, cfg *config.Config, dir string, x, y float64, front bool) error {
	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	p, ok, err := runner.HitTest(ctx, c.sceneOptions(cfg, dir), x, y, front)
	if err != nil {
		return err
	}
	if !ok {
		printInfo("Nothing at (%.0f, %.0f)", x, y)
		return nil
	}
	printSuccess("%s", scene.HintText(p.Node))
	printKeyValue("name", p.Node.Name)
	printKeyValue("kind", p.Node.Kind.String())
	printKeyValue("center", fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y))
	printKeyValue("radius", fmt.Sprintf("%.1f", p.R))
	printKeyValue("depth", fmt.Sprintf("%.2f", p.Z))
	return nil
}
