package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lydakis/cadbridge/internal/relay"
)

// exitCodeForError maps a client-side failure to the shared exit codes.
// Timeouts are distinguished from action errors so scripts can retry them.
func exitCodeForError(err error) int {
	if err == nil {
		return relay.ExitOK
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return relay.ExitTimeout
	}

	var actionErr *relay.ActionError
	if errors.As(err, &actionErr) {
		return relay.ExitToolErr
	}

	if errors.Is(err, mcp.ErrInvalidParams) || errors.Is(err, mcp.ErrMethodNotFound) {
		return relay.ExitUsageErr
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "-32602") || strings.Contains(msg, "-32601") {
		return relay.ExitUsageErr
	}
	if strings.Contains(msg, "invalid params") || strings.Contains(msg, "method not found") {
		return relay.ExitUsageErr
	}

	return relay.ExitInternal
}
