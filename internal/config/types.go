package config

import "time"

// Config is the top-level cadbridge configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Client  ClientConfig  `toml:"client"`
	Install InstallConfig `toml:"install"`
}

// ServerConfig controls `cadbridge serve`.
type ServerConfig struct {
	// Listen is the streamable HTTP address.
	Listen string `toml:"listen"`

	// CommDir is the relay mailbox directory. Empty means the per-user
	// default under the state dir.
	CommDir string `toml:"comm_dir"`

	// PollInterval is the relay sweep cadence, a Go duration string.
	PollInterval string `toml:"poll_interval"`

	// Watch enables the fsnotify directory watch on top of the sweep.
	Watch *bool `toml:"watch"`

	LogFile  string `toml:"log_file"`
	LogLevel string `toml:"log_level"`
}

// ClientConfig controls `cadbridge client`.
type ClientConfig struct {
	URL          string            `toml:"url"`
	Timeout      string            `toml:"timeout"`
	PollInterval string            `toml:"poll_interval"`
	Headers      map[string]string `toml:"headers"`
}

// InstallConfig controls `cadbridge install`.
type InstallConfig struct {
	// Roots are glob patterns for host add-in directories. Empty means the
	// per-OS defaults.
	Roots []string `toml:"roots"`

	// Binary is the bridge executable the launcher invokes. Empty means
	// "cadbridge" resolved from PATH.
	Binary string `toml:"binary"`
}

// Built-in defaults. Flags override config, config overrides these.
const (
	DefaultListen       = "127.0.0.1:3000"
	DefaultURL          = "http://127.0.0.1:3000/mcp"
	DefaultPollInterval = 500 * time.Millisecond
	DefaultClientPoll   = 100 * time.Millisecond
	DefaultTimeout      = 10 * time.Second
	DefaultLogLevel     = "info"
)

// ServerPollInterval returns the parsed sweep interval, falling back to the
// default on empty or invalid values. Validate reports the invalid ones.
func (c *Config) ServerPollInterval() time.Duration {
	return parseDurationOr(c.Server.PollInterval, DefaultPollInterval)
}

// ClientTimeout returns the parsed client wait budget.
func (c *Config) ClientTimeout() time.Duration {
	return parseDurationOr(c.Client.Timeout, DefaultTimeout)
}

// ClientPollInterval returns the parsed response poll cadence.
func (c *Config) ClientPollInterval() time.Duration {
	return parseDurationOr(c.Client.PollInterval, DefaultClientPoll)
}

// WatchEnabled reports whether the relay directory watch is on (the default).
func (c *Config) WatchEnabled() bool {
	if c.Server.Watch == nil {
		return true
	}
	return *c.Server.Watch
}

func parseDurationOr(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
