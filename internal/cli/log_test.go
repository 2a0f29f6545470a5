package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a config.toml into the sandbox and returns its path.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// runWith executes the root command of c with args.
func runWith(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.Execute()
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("listing") }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("cache miss") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("cache miss") }, true},
		{"warn at error", log.ErrorLevel, func(l *log.Logger) { l.Warn("redis unavailable") }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(newLogger(&buf, tt.level))
			assert.Equal(t, tt.want, buf.Len() > 0)
		})
	}
}

func TestConfigLogLevelApplies(t *testing.T) {
	sandbox(t)
	path := writeConfig(t, "[log]\nlevel = \"debug\"\n")

	c := New(&bytes.Buffer{}, LogInfo)
	require.NoError(t, runWith(t, c, "--config", path, "cache", "path"))
	assert.Equal(t, log.DebugLevel, c.Logger.GetLevel())
}

func TestVerboseWinsOverConfig(t *testing.T) {
	sandbox(t)
	path := writeConfig(t, "[log]\nlevel = \"error\"\n")

	quiet := New(&bytes.Buffer{}, LogInfo)
	require.NoError(t, runWith(t, quiet, "--config", path, "cache", "path"))
	assert.Equal(t, log.ErrorLevel, quiet.Logger.GetLevel())

	loud := New(&bytes.Buffer{}, LogInfo)
	require.NoError(t, runWith(t, loud, "--config", path, "-v", "cache", "path"))
	assert.Equal(t, log.DebugLevel, loud.Logger.GetLevel())
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))
	p.done("Listed /home/user, placed 9 entries")

	assert.Regexp(t, regexp.MustCompile(`Listed /home/user, placed 9 entries \(\d+m?s\)`), buf.String())
}

func TestLayoutLogsListing(t *testing.T) {
	sandbox(t)
	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	require.NoError(t, runWith(t, c, "--demo", "--no-cache", "layout", "/home/user"))
	assert.Contains(t, logs.String(), "Listed /home/user, placed 9 entries")

	// A config at error level silences it.
	logs.Reset()
	path := writeConfig(t, "[log]\nlevel = \"error\"\n")
	c = New(&logs, LogInfo)
	require.NoError(t, runWith(t, c, "--config", path, "--demo", "--no-cache", "layout", "/home/user"))
	assert.NotContains(t, logs.String(), "Listed")
}

func TestLoggerContext(t *testing.T) {
	assert.Equal(t, log.Default(), loggerFromContext(context.Background()))

	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), l)
	assert.Same(t, l, loggerFromContext(ctx))
}
