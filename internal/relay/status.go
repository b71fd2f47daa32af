package relay

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Status is the server_status.json payload. The server rewrites it on every
// lifecycle transition; clients read it to find the live endpoint.
type Status struct {
	Status      string   `json:"status"`
	PID         int      `json:"pid,omitempty"`
	StartedAt   string   `json:"started_at,omitempty"`
	StoppedAt   string   `json:"stopped_at,omitempty"`
	ServerURL   string   `json:"server_url,omitempty"`
	HostVersion string   `json:"host_version,omitempty"`
	Resources   []string `json:"resources,omitempty"`
	Tools       []string `json:"tools,omitempty"`
	Prompts     []string `json:"prompts,omitempty"`
}

// Lifecycle values for Status.Status.
const (
	StatusRunning = "running"
	StatusStopped = "stopped"
)

// WriteStatus writes the status file atomically.
func WriteStatus(dir string, st Status) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating relay dir: %w", err)
	}
	return writeJSONFile(filepath.Join(dir, StatusFileName), st)
}

// ReadStatus reads the status file. A missing file returns (nil, nil): the
// server has never run in this directory.
func ReadStatus(dir string) (*Status, error) {
	data, err := os.ReadFile(filepath.Join(dir, StatusFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading status file: %w", err)
	}

	var st Status
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decoding status file: %w", err)
	}
	return &st, nil
}

// ReadErrorFile returns the relay error file's content, or "" when absent.
func ReadErrorFile(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, ErrorFileName))
	if err != nil {
		return ""
	}
	return string(data)
}
