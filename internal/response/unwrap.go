// Package response turns MCP results into CLI output bytes and exit codes.
package response

import (
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lydakis/cadbridge/internal/relay"
)

// Unwrap extracts raw output from an MCP CallToolResult. Structured content
// wins when present; otherwise text blocks are newline-joined. IsError maps
// to the tool-error exit code.
func Unwrap(result *mcp.CallToolResult) ([]byte, int) {
	if result == nil {
		return nil, relay.ExitInternal
	}

	exitCode := relay.ExitOK
	if result.IsError {
		exitCode = relay.ExitToolErr
	}

	if result.StructuredContent != nil {
		if data, err := json.Marshal(result.StructuredContent); err == nil {
			return ensureTrailingNewline(data), exitCode
		}
	}

	var parts []string
	for _, content := range result.Content {
		if text, ok := renderText(content); ok {
			parts = append(parts, text)
			continue
		}
		// Non-text blocks are surfaced as their JSON encoding rather than
		// dropped; the bridge itself only emits text.
		if raw, err := json.Marshal(content); err == nil {
			parts = append(parts, string(raw))
		}
	}

	if len(parts) == 0 {
		return nil, exitCode
	}
	return ensureTrailingNewline([]byte(strings.Join(parts, "\n"))), exitCode
}

// UnwrapResource renders resource contents the way Unwrap renders tool output.
func UnwrapResource(contents []mcp.ResourceContents) []byte {
	var parts []string
	for _, content := range contents {
		switch c := content.(type) {
		case mcp.TextResourceContents:
			parts = append(parts, c.Text)
		case *mcp.TextResourceContents:
			parts = append(parts, c.Text)
		default:
			if raw, err := json.Marshal(content); err == nil {
				parts = append(parts, string(raw))
			}
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return ensureTrailingNewline([]byte(strings.Join(parts, "\n")))
}

func renderText(content mcp.Content) (string, bool) {
	switch c := content.(type) {
	case mcp.TextContent:
		return c.Text, true
	case *mcp.TextContent:
		return c.Text, true
	default:
		var typed struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}
		raw, err := json.Marshal(content)
		if err != nil || json.Unmarshal(raw, &typed) != nil {
			return "", false
		}
		if typed.Type == "text" {
			return typed.Text, true
		}
		return "", false
	}
}

func ensureTrailingNewline(out []byte) []byte {
	if len(out) == 0 {
		return out
	}
	if out[len(out)-1] != '\n' {
		return append(out, '\n')
	}
	return out
}
