// Package relay implements the file-based command mailbox between the bridge
// server and its clients. A client drops command_<id>.json into the relay
// directory; the server answers with response_<id>.json and renames the
// command to processed_command_<id>.json. The directory itself is the only
// shared state.
package relay

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"time"
)

// Command is the mailbox request payload.
type Command struct {
	Action string         `json:"action"`
	Args   map[string]any `json:"args,omitempty"`
}

// Response is the mailbox reply payload. Ok responses always carry a result,
// null included; error responses carry the message instead.
type Response struct {
	Status string          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Well-known file names inside the relay directory.
const (
	ReadyFileName   = "mcp_server_ready.txt"
	StatusFileName  = "server_status.json"
	ErrorFileName   = "mcp_server_error.txt"
	MessageFileName = "message_box.txt"

	lockFileName = "relay.lock"

	commandPrefix   = "command_"
	responsePrefix  = "response_"
	processedPrefix = "processed_command_"
	jsonSuffix      = ".json"
)

// Poll cadences. The server interval bounds how stale a dropped command can
// go unnoticed when the directory watch is unavailable.
const (
	DefaultPollInterval       = 500 * time.Millisecond
	DefaultClientPollInterval = 100 * time.Millisecond
	DefaultTimeout            = 10 * time.Second
)

// Exit codes shared across the CLI.
const (
	ExitOK       = 0
	ExitToolErr  = 1
	ExitUsageErr = 2
	ExitInternal = 3
	ExitTimeout  = 4
)

// CommandFile returns the command path for id inside dir.
func CommandFile(dir, id string) string {
	return filepath.Join(dir, commandPrefix+id+jsonSuffix)
}

// ResponseFile returns the response path for id inside dir.
func ResponseFile(dir, id string) string {
	return filepath.Join(dir, responsePrefix+id+jsonSuffix)
}

// ProcessedFile returns the processed marker path for id inside dir.
func ProcessedFile(dir, id string) string {
	return filepath.Join(dir, processedPrefix+id+jsonSuffix)
}

// commandID extracts the id from a command file name, or "" when the name
// does not follow the convention. IDs are client-chosen and opaque.
func commandID(name string) string {
	if !strings.HasPrefix(name, commandPrefix) || !strings.HasSuffix(name, jsonSuffix) {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(name, commandPrefix), jsonSuffix)
}
