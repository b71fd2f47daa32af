package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lydakis/cadbridge/internal/paths"
)

// starterConfig is the commented template written by `install --init-config`.
const starterConfig = `# cadbridge configuration.

[server]
# Streamable HTTP listen address for the MCP transport.
listen = "127.0.0.1:3000"
# Relay mailbox directory. Empty means the per-user state dir default.
# comm_dir = ""
# How often the relay sweeps the mailbox for command files.
poll_interval = "500ms"
# Watch the mailbox with fsnotify in addition to the sweep.
watch = true
# log_file = ""
log_level = "info"

[client]
url = "http://127.0.0.1:3000/mcp"
timeout = "10s"
poll_interval = "100ms"
# [client.headers]
# Authorization = "Bearer ${CADBRIDGE_TOKEN}"

[install]
# Glob patterns for host add-in directories. Empty means per-OS defaults.
# roots = []
# binary = "/usr/local/bin/cadbridge"
`

// WriteStarter writes the commented starter config to the default path.
// Refuses to overwrite an existing file.
func WriteStarter() (string, error) {
	return WriteStarterTo(paths.ConfigFile())
}

// WriteStarterTo writes the starter config to path atomically.
func WriteStarterTo(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config already exists at %s", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".config.toml.tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating temp config file: %w", err)
	}
	tmpPath := tmpFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := tmpFile.Chmod(0o600); err != nil {
		_ = tmpFile.Close()
		return "", fmt.Errorf("setting temp config permissions: %w", err)
	}
	if _, err := tmpFile.WriteString(starterConfig); err != nil {
		_ = tmpFile.Close()
		return "", fmt.Errorf("writing temp config file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return "", fmt.Errorf("syncing temp config file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("closing temp config file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("replacing config file: %w", err)
	}
	cleanup = false
	return path, nil
}
