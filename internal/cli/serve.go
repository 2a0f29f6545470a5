package cli

import (
	"net"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fsnav/internal/config"
	"github.com/matzehuels/fsnav/internal/server"
	"github.com/matzehuels/fsnav/pkg/cache"
	"github.com/matzehuels/fsnav/pkg/session"
)

// serveCommand creates the serve command, which exposes the pipeline over
// HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var noMetrics bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve scenes over HTTP",
		Long: `Serve scenes over HTTP.

Routes:
  GET  /healthz            liveness
  GET  /api/ls?dir=        directory listing
  GET  /api/scene?dir=     screen points, HUD and hint
  POST /api/scene          same, with options in a JSON body
  GET  /api/hit?dir=&x=&y= entry under a screen position
  GET  /scene.{format}     rendered artifact (svg, png, json, dot, graph)
  GET  /metrics            Prometheus metrics

  POST /api/sessions      start a navigator session
  POST /api/sessions/{id}/events  drive it with drag, scroll, click, open, up

Camera and viewport flags set the defaults for every request. Sessions are
kept in memory, in files under the config directory, or in the cache
backend (server.sessions).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, cfg)
			if err != nil {
				return err
			}
			defer runner.Close()

			dir, err := c.resolveDir(nil)
			if err != nil {
				return err
			}
			sessions, err := newSessionStore(cfg, runner.Cache)
			if err != nil {
				return err
			}
			ttl, _ := cfg.SessionTTL()
			sc := server.Config{
				Runner:     runner,
				Defaults:   c.sceneOptions(cfg, dir),
				Sessions:   sessions,
				SessionTTL: ttl,
				Logger:     c.Logger,
			}
			if !noMetrics {
				sc.Metrics = server.NewMetrics()
				sc.Metrics.Register()
			}

			if !isLoopback(cfg.Server.Addr) {
				c.Logger.Warn("serving host directories without authentication beyond loopback", "addr", cfg.Server.Addr)
			}
			printInfo("Listening on %s", StyleLink.Render(cfg.Server.Addr))
			return server.New(sc).ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	addViewFlags(cmd)
	cmd.Flags().String("addr", config.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint and hooks")

	return cmd
}

// isLoopback reports whether addr only accepts local connections. An empty
// host listens on every interface.
func isLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil || host == "" {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// newSessionStore opens the session store named by server.sessions. The
// cache store shares ch with the runner, which owns and closes it.
func newSessionStore(cfg *config.Config, ch cache.Cache) (session.Store, error) {
	switch cfg.Server.Sessions {
	case config.SessionsFile:
		return session.NewFileStore(filepath.Join(config.Dir(), "sessions"))
	case config.SessionsCache:
		return session.NewCacheStore(ch), nil
	}
	return session.NewMemoryStore(), nil
}
