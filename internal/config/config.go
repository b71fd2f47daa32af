// Package config loads the cadbridge TOML configuration. A missing config
// file is not an error: every field has a usable default.
package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"

	"github.com/lydakis/cadbridge/internal/paths"
)

var envVarRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:       DefaultListen,
			PollInterval: DefaultPollInterval.String(),
			LogLevel:     DefaultLogLevel,
		},
		Client: ClientConfig{
			URL:          DefaultURL,
			Timeout:      DefaultTimeout.String(),
			PollInterval: DefaultClientPoll.String(),
		},
	}
}

// Load reads the config file at the default path (CADBRIDGE_CONFIG or
// $XDG_CONFIG_HOME/cadbridge/config.toml).
func Load() (*Config, error) {
	return LoadFrom(paths.ConfigFile())
}

// LoadFrom reads and parses a config file. A missing file returns Default
// with no error; present fields override defaults, absent ones keep them.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	expandConfigEnvVars(cfg)
	return cfg, nil
}

// ExampleConfigPath returns the default config file path (for help messages).
func ExampleConfigPath() string {
	return paths.ConfigFile()
}

func expandConfigEnvVars(cfg *Config) {
	if cfg == nil {
		return
	}

	cfg.Server.Listen = expandEnvVars(cfg.Server.Listen)
	cfg.Server.CommDir = expandEnvVars(cfg.Server.CommDir)
	cfg.Server.LogFile = expandEnvVars(cfg.Server.LogFile)

	cfg.Client.URL = expandEnvVars(cfg.Client.URL)
	for k, v := range cfg.Client.Headers {
		cfg.Client.Headers[k] = expandEnvVars(v)
	}

	for i := range cfg.Install.Roots {
		cfg.Install.Roots[i] = expandEnvVars(cfg.Install.Roots[i])
	}
	cfg.Install.Binary = expandEnvVars(cfg.Install.Binary)
}

// expandEnvVars replaces ${VAR_NAME} with the value of the environment variable.
func expandEnvVars(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarRe.FindStringSubmatch(match)[1]
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match // leave unresolved vars as-is
	})
}
