package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fsnav/internal/config"
	"github.com/matzehuels/fsnav/pkg/buildinfo"
	"github.com/matzehuels/fsnav/pkg/cache"
	"github.com/matzehuels/fsnav/pkg/fsys"
	"github.com/matzehuels/fsnav/pkg/pipeline"
	"github.com/matzehuels/fsnav/pkg/scene"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "fsnav"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// flagKeys maps command-line flags to config keys. Commands that define one
// of these flags get it layered over the config file and environment.
var flagKeys = map[string]string{
	"yaw":    "camera.yaw",
	"pitch":  "camera.pitch",
	"dist":   "camera.dist",
	"fov":    "camera.fov",
	"limit":  "view.limit",
	"width":  "view.width",
	"height": "view.height",
	"addr":   "server.addr",
	"bucket": "publish.bucket",
	"prefix": "publish.prefix",
}

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	demo       bool
	noCache    bool
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "fsnav flies through directories as a 3D spiral",
		Long:         `fsnav lays out a directory's entries on a 3D spiral, projects them through an orbit camera and renders the result, in the spirit of the SGI File System Navigator.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")
	pf.BoolVar(&c.demo, "demo", false, "browse the built-in demo tree instead of the disk")
	pf.BoolVar(&c.noCache, "no-cache", false, "disable caching")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if c.verbose {
			c.SetLogLevel(LogDebug)
		}
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.hitCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config
// =============================================================================

// loadConfig reads the layered configuration, with cmd's flags on top.
// Without --verbose the log level follows the config.
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var bindings []config.FlagBinding
	for name, key := range flagKeys {
		bindings = append(bindings, config.Bind(key, cmd.Flags(), name))
	}
	cfg, err := config.Load(c.configPath, bindings...)
	if err != nil {
		return nil, err
	}
	if !c.verbose {
		if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
			c.SetLogLevel(level)
		}
	}
	return cfg, nil
}

// addViewFlags registers the camera and viewport flags shared by the scene
// commands. Their values are read back through loadConfig.
func addViewFlags(cmd *cobra.Command) {
	d := config.Default()
	f := cmd.Flags()
	f.Float64("yaw", d.Camera.Yaw, "camera yaw in radians")
	f.Float64("pitch", d.Camera.Pitch, "camera pitch in radians (clamped to ±1.2)")
	f.Float64("dist", d.Camera.Dist, "camera distance (clamped to [2.2, 18])")
	f.Float64("fov", d.Camera.FOV, "vertical field of view in radians")
	f.Int("width", d.View.Width, "viewport width in pixels")
	f.Int("height", d.View.Height, "viewport height in pixels")
	f.Int("limit", d.View.Limit, "maximum entries shown")
}

// sceneOptions builds pipeline options for dir from cfg.
func (c *CLI) sceneOptions(cfg *config.Config, dir string) pipeline.Options {
	return pipeline.Options{
		Dir:    dir,
		Limit:  cfg.View.Limit,
		Camera: cfg.Camera,
		Width:  float64(cfg.View.Width),
		Height: float64(cfg.View.Height),
		Layout: cfg.Layout,
		Logger: c.Logger,
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newLister returns the demo tree with --demo, else the local disk.
func (c *CLI) newLister() scene.Lister {
	if c.demo {
		return fsys.NewDemoLister()
	}
	return fsys.NewOSLister("/")
}

// resolveDir picks the directory a command works on: the argument, or the
// working directory (the demo root with --demo).
func (c *CLI) resolveDir(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		if c.demo {
			return filepath.Clean("/" + args[0]), nil
		}
		return filepath.Abs(args[0])
	}
	if c.demo {
		return fsys.DemoRoot, nil
	}
	return os.Getwd()
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.demo {
		// The demo tree shares paths with the disk; keep its entries apart.
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), "demo:")
	}
	r := pipeline.NewRunner(ch, keyer, c.newLister(), c.Logger)
	if ttl, err := cfg.CacheTTL(); err == nil && ttl > 0 {
		r.ArtifactTTL = ttl
	}
	return r, nil
}

// newCache opens the configured backend. An unreachable Redis falls back to
// the file cache.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if c.noCache || cfg.Cache.Backend == config.BackendNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.Backend == config.BackendRedis {
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisAddr)
		if err == nil {
			return rc, nil
		}
		c.Logger.Warn("redis unavailable, using file cache", "addr", cfg.Cache.RedisAddr, "error", err)
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/fsnav/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
