// Package config loads fsnav settings.
//
// Values are layered, lowest first: built-in defaults, config.toml, FSNAV_*
// environment variables, then command-line flags bound with [Bind]. The
// config file is searched in $XDG_CONFIG_HOME/fsnav, ~/.fsnav and the
// working directory.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/fsnav/pkg/camera"
	fserrors "github.com/matzehuels/fsnav/pkg/errors"
	"github.com/matzehuels/fsnav/pkg/layout"
	"github.com/matzehuels/fsnav/pkg/publish"
	"github.com/matzehuels/fsnav/pkg/scene"
)

// EnvPrefix prefixes every environment variable, e.g. FSNAV_CAMERA_YAW.
const EnvPrefix = "FSNAV"

// DefaultAddr is the default listen address for fsnav serve. The API lists
// host directories without authentication, so it stays on loopback unless
// server.addr says otherwise.
const DefaultAddr = "127.0.0.1:8080"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Session stores.
const (
	SessionsMemory = "memory"
	SessionsFile   = "file"
	SessionsCache  = "cache"
)

// Config is the complete fsnav configuration.
type Config struct {
	Camera  camera.Camera  `toml:"camera" mapstructure:"camera"`
	View    ViewConfig     `toml:"view" mapstructure:"view"`
	Layout  layout.Options `toml:"layout" mapstructure:"layout"`
	Cache   CacheConfig    `toml:"cache" mapstructure:"cache"`
	Server  ServerConfig   `toml:"server" mapstructure:"server"`
	Log     LogConfig      `toml:"log" mapstructure:"log"`
	Publish publish.Config `toml:"publish" mapstructure:"publish"`
}

// ViewConfig sizes the view.
type ViewConfig struct {
	Limit  int `toml:"limit" mapstructure:"limit"`
	Width  int `toml:"width" mapstructure:"width"`
	Height int `toml:"height" mapstructure:"height"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend" mapstructure:"backend"`
	Dir       string `toml:"dir" mapstructure:"dir"`
	RedisAddr string `toml:"redis_addr" mapstructure:"redis_addr"`
	TTL       string `toml:"ttl" mapstructure:"ttl"`
}

// ServerConfig configures `fsnav serve`.
type ServerConfig struct {
	Addr string `toml:"addr" mapstructure:"addr"`

	// Sessions selects the navigator session store: memory, file or cache.
	// The cache store uses the configured cache backend.
	Sessions   string `toml:"sessions" mapstructure:"sessions"`
	SessionTTL string `toml:"session_ttl" mapstructure:"session_ttl"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level" mapstructure:"level"`
}

// FlagBinding ties a config key to a command-line flag.
type FlagBinding struct {
	Key  string
	Flag *pflag.Flag
}

// Bind returns a FlagBinding for the named flag of fs. Unknown flags yield a
// binding with a nil Flag, which Load skips.
func Bind(key string, fs *pflag.FlagSet, name string) FlagBinding {
	return FlagBinding{Key: key, Flag: fs.Lookup(name)}
}

// Dir returns the fsnav config directory under $XDG_CONFIG_HOME (or
// ~/.config).
func Dir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "fsnav")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".fsnav")
	}
	return filepath.Join(home, ".config", "fsnav")
}

// DefaultPath is where `fsnav config path` points.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads configuration from all layers. A non-empty path selects that
// file and it must exist; otherwise a missing file is not an error.
func Load(path string, bindings ...FlagBinding) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(Dir())
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".fsnav"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	for _, b := range bindings {
		if b.Flag == nil {
			continue
		}
		if err := v.BindPFlag(b.Key, b.Flag); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", b.Flag.Name, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	cam := camera.Default()
	v.SetDefault("camera.yaw", cam.Yaw)
	v.SetDefault("camera.pitch", cam.Pitch)
	v.SetDefault("camera.dist", cam.Dist)
	v.SetDefault("camera.fov", cam.FOV)

	v.SetDefault("view.limit", scene.DefaultLimit)
	v.SetDefault("view.width", 1100)
	v.SetDefault("view.height", 720)

	lo := layout.Default()
	v.SetDefault("layout.radius", lo.Radius)
	v.SetDefault("layout.angle_step", lo.AngleStep)
	v.SetDefault("layout.z_step", lo.ZStep)
	v.SetDefault("layout.min_fraction", lo.MinFraction)

	v.SetDefault("cache.backend", BackendFile)
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.ttl", "24h")

	v.SetDefault("server.addr", DefaultAddr)
	v.SetDefault("server.sessions", SessionsMemory)
	v.SetDefault("server.session_ttl", "30m")
	v.SetDefault("log.level", "info")

	v.SetDefault("publish.bucket", "")
	v.SetDefault("publish.prefix", "fsnav")
	v.SetDefault("publish.region", publish.DefaultRegion)
	v.SetDefault("publish.endpoint", "")
	v.SetDefault("publish.access_key_id", "")
	v.SetDefault("publish.secret_access_key", "")
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := fserrors.ValidateCamera(c.Camera.Yaw, c.Camera.Pitch, c.Camera.Dist, c.Camera.FOV); err != nil {
		return err
	}
	if err := fserrors.ValidateLimit(c.View.Limit); err != nil {
		return err
	}
	if err := fserrors.ValidateViewport(c.View.Width, c.View.Height); err != nil {
		return err
	}
	if c.Layout.Radius < 0 || c.Layout.AngleStep < 0 || c.Layout.ZStep < 0 || c.Layout.MinFraction < 0 || c.Layout.MinFraction > 1 {
		return fserrors.New(fserrors.ErrCodeInvalidInput, "layout values must be non-negative and min_fraction at most 1")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return fserrors.New(fserrors.ErrCodeInvalidInput, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	switch c.Server.Sessions {
	case SessionsMemory, SessionsFile, SessionsCache:
	default:
		return fserrors.New(fserrors.ErrCodeInvalidInput, "unknown session store %q (want memory, file or cache)", c.Server.Sessions)
	}
	if _, err := c.SessionTTL(); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fserrors.Wrap(fserrors.ErrCodeInvalidInput, err, "invalid log level %q", c.Log.Level)
	}
	return nil
}

// CacheTTL parses Cache.TTL. An empty value means no expiry.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d < 0 {
		return 0, fserrors.New(fserrors.ErrCodeInvalidInput, "invalid cache ttl %q", c.Cache.TTL)
	}
	return d, nil
}

// SessionTTL parses Server.SessionTTL. An empty value means the server
// default.
func (c *Config) SessionTTL() (time.Duration, error) {
	if c.Server.SessionTTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Server.SessionTTL)
	if err != nil || d < 0 {
		return 0, fserrors.New(fserrors.ErrCodeInvalidInput, "invalid session ttl %q", c.Server.SessionTTL)
	}
	return d, nil
}

// Encode writes c as TOML. Credentials are omitted.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
