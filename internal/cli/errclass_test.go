package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lydakis/cadbridge/internal/relay"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, relay.ExitOK},
		{"deadline", context.DeadlineExceeded, relay.ExitTimeout},
		{"wrapped deadline", fmt.Errorf("waiting: %w", context.DeadlineExceeded), relay.ExitTimeout},
		{"action error", &relay.ActionError{Action: "x", Message: "boom"}, relay.ExitToolErr},
		{"wrapped action error", fmt.Errorf("call: %w", &relay.ActionError{Action: "x", Message: "boom"}), relay.ExitToolErr},
		{"rpc invalid params", errors.New("request failed: -32602 bad args"), relay.ExitUsageErr},
		{"rpc method not found", errors.New("method not found"), relay.ExitUsageErr},
		{"other", errors.New("connection reset"), relay.ExitInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeForError(tt.err); got != tt.want {
				t.Errorf("exitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
