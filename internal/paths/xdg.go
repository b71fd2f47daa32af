package paths

import (
	"os"
	"path/filepath"
)

func homeDir() string {
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	h, _ := os.UserHomeDir()
	return h
}

func xdgDir(envVar, fallbackSuffix string) string {
	if v := os.Getenv(envVar); v != "" {
		return filepath.Join(v, "cadbridge")
	}
	return filepath.Join(homeDir(), fallbackSuffix, "cadbridge")
}

// ConfigDir returns the cadbridge config directory ($XDG_CONFIG_HOME/cadbridge).
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the cadbridge state directory ($XDG_STATE_HOME/cadbridge).
func StateDir() string {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

// ConfigFile returns the path to config.toml. CADBRIDGE_CONFIG overrides it.
func ConfigFile() string {
	if v := os.Getenv("CADBRIDGE_CONFIG"); v != "" {
		return v
	}
	return filepath.Join(ConfigDir(), "config.toml")
}

// RelayDir returns the command relay directory shared by the bridge server
// and its clients. CADBRIDGE_COMM_DIR overrides the default under StateDir.
func RelayDir() string {
	if v := os.Getenv("CADBRIDGE_COMM_DIR"); v != "" {
		return v
	}
	return filepath.Join(StateDir(), "relay")
}

// LogFile returns the default server log file path.
func LogFile() string {
	return filepath.Join(StateDir(), "cadbridge.log")
}

// EnsureDir creates a directory and parents if needed.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0700)
}
