package relay

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// WriteReady creates the readiness sentinel in dir. Its existence is the
// readiness signal; the content is informational.
func WriteReady(dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating relay dir: %w", err)
	}
	content := "ready " + time.Now().Format(time.RFC3339) + "\n"
	if err := os.WriteFile(filepath.Join(dir, ReadyFileName), []byte(content), 0600); err != nil {
		return fmt.Errorf("writing ready sentinel: %w", err)
	}
	return nil
}

// ClearReady removes the sentinel. A missing sentinel is not an error.
func ClearReady(dir string) error {
	err := os.Remove(filepath.Join(dir, ReadyFileName))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing ready sentinel: %w", err)
	}
	return nil
}

// Ready reports whether the sentinel exists.
func Ready(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ReadyFileName))
	return err == nil
}

// WaitReady polls for the sentinel until it appears or ctx expires.
func WaitReady(ctx context.Context, dir string, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultClientPollInterval
	}
	for {
		if Ready(dir) {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for server ready in %s: %w", dir, ctx.Err())
		case <-time.After(interval):
		}
	}
}
