package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// ActionError is a failure reported by the server in an error response, as
// opposed to a transport or timeout failure on this side.
type ActionError struct {
	Action  string
	Message string
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Action, e.Message)
}

// Client issues commands through the relay directory.
type Client struct {
	// PollInterval is the response poll cadence.
	PollInterval time.Duration

	dir string
}

// NewClient returns a Client for dir.
func NewClient(dir string) *Client {
	return &Client{
		PollInterval: DefaultClientPollInterval,
		dir:          dir,
	}
}

// Send writes a command file and polls for the correlated response until ctx
// expires. The response file is consumed; the raw result is returned. Server
// errors come back as *ActionError.
func (c *Client) Send(ctx context.Context, action string, args map[string]any) (json.RawMessage, error) {
	if err := os.MkdirAll(c.dir, 0700); err != nil {
		return nil, fmt.Errorf("creating relay dir: %w", err)
	}

	id := uuid.NewString()
	cmd := Command{Action: action, Args: args}
	if err := writeJSONFile(CommandFile(c.dir, id), &cmd); err != nil {
		return nil, fmt.Errorf("writing command: %w", err)
	}

	respPath := ResponseFile(c.dir, id)
	for {
		data, err := os.ReadFile(respPath)
		if err == nil {
			var resp Response
			if err := json.Unmarshal(data, &resp); err != nil {
				return nil, fmt.Errorf("decoding response to %q: %w", action, err)
			}
			os.Remove(respPath)
			if resp.Status != StatusOK {
				return nil, &ActionError{Action: action, Message: resp.Error}
			}
			return resp.Result, nil
		}

		select {
		case <-ctx.Done():
			// The command file stays behind; the server may still answer a
			// late-arriving sweep, the invariant is one response per command.
			return nil, fmt.Errorf("waiting for response to %q: %w", action, ctx.Err())
		case <-time.After(c.PollInterval):
		}
	}
}
