package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Handler executes one action for the relay. It is the same dispatch the MCP
// transports use, so both surfaces stay in agreement.
type Handler func(ctx context.Context, action string, args map[string]any) (any, error)

// Server monitors a relay directory and answers command files. The host UI
// thread is never involved; Run is meant for a background goroutine.
type Server struct {
	// PollInterval bounds how long a dropped command can go unnoticed.
	// The directory watch only makes detection faster.
	PollInterval time.Duration

	// NoWatch disables the fsnotify watcher, leaving interval sweeps only.
	NoWatch bool

	dir      string
	dispatch Handler
	log      *zap.Logger
}

// NewServer returns a Server for dir. A nil logger disables logging.
func NewServer(dir string, dispatch Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		PollInterval: DefaultPollInterval,
		dir:          dir,
		dispatch:     dispatch,
		log:          logger,
	}
}

// Run monitors the directory until ctx is cancelled. It refuses to start
// when another server already holds the directory lock. Command handling
// errors are answered on the wire and never stop the loop.
func (s *Server) Run(ctx context.Context) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("creating relay dir: %w", err)
	}

	release, err := acquireLock(filepath.Join(s.dir, lockFileName))
	if err != nil {
		return fmt.Errorf("acquiring relay lock: %w", err)
	}
	defer release() //nolint:errcheck

	var wake <-chan struct{}
	if !s.NoWatch {
		watcher, err := watchDir(s.dir)
		if err != nil {
			s.log.Warn("directory watch unavailable, relying on interval sweep", zap.Error(err))
		} else {
			defer watcher.Close()
			wake = watcher.Wake
		}
	}

	ticker := time.NewTicker(s.PollInterval)
	defer ticker.Stop()

	s.log.Info("relay monitor started",
		zap.String("dir", s.dir),
		zap.Duration("poll_interval", s.PollInterval),
		zap.Bool("watching", wake != nil))

	for {
		s.sweep(ctx)
		select {
		case <-ctx.Done():
			s.log.Info("relay monitor stopped")
			return nil
		case <-ticker.C:
		case <-wake:
		}
	}
}

// sweep handles everything actionable currently visible in the directory,
// in name order. Name order is a side effect of the listing, not a promised
// processing order across concurrently dropped commands.
func (s *Server) sweep(ctx context.Context) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.log.Error("reading relay dir", zap.Error(err))
		s.writeErrorFile(fmt.Sprintf("reading relay dir: %v", err))
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == MessageFileName {
			s.handleMessageFile(ctx)
			continue
		}
		if id := commandID(name); id != "" {
			s.handleCommand(ctx, id)
		}
	}
}

func (s *Server) handleCommand(ctx context.Context, id string) {
	// A response or processed marker means a previous sweep already answered;
	// the client may not have collected the response yet.
	if fileExists(ResponseFile(s.dir, id)) || fileExists(ProcessedFile(s.dir, id)) {
		return
	}

	resp := s.execute(ctx, CommandFile(s.dir, id))
	if resp.Status != StatusOK {
		s.log.Warn("command failed", zap.String("id", id), zap.String("error", resp.Error))
	} else {
		s.log.Info("command handled", zap.String("id", id))
	}

	if err := writeJSONFile(ResponseFile(s.dir, id), resp); err != nil {
		// Leave the command file in place; the next sweep retries.
		s.log.Error("writing response", zap.String("id", id), zap.Error(err))
		return
	}
	if err := os.Rename(CommandFile(s.dir, id), ProcessedFile(s.dir, id)); err != nil {
		s.log.Error("marking command processed", zap.String("id", id), zap.Error(err))
	}
}

// execute turns one command file into a response. Malformed payloads,
// unknown actions, and handler failures all become error responses; a
// handler panic does too.
func (s *Server) execute(ctx context.Context, path string) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("handler panic", zap.String("command", path), zap.Any("panic", r))
			resp = errorResponse(fmt.Sprintf("handler panic: %v", r))
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		return errorResponse(fmt.Sprintf("malformed command: %v", err))
	}
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return errorResponse(fmt.Sprintf("malformed command: %v", err))
	}
	if cmd.Action == "" {
		return errorResponse("malformed command: missing action")
	}
	args := cmd.Args
	if args == nil {
		args = map[string]any{}
	}

	result, err := s.dispatch(ctx, cmd.Action, args)
	if err != nil {
		return errorResponse(err.Error())
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return errorResponse(fmt.Sprintf("encoding result: %v", err))
	}
	return &Response{Status: StatusOK, Result: payload}
}

// handleMessageFile serves the plain-text message drop: show the content,
// rename the file out of the way.
func (s *Server) handleMessageFile(ctx context.Context) {
	path := filepath.Join(s.dir, MessageFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Error("reading message file", zap.Error(err))
		return
	}

	if text := strings.TrimSpace(string(data)); text != "" {
		if _, err := s.dispatch(ctx, "message_box", map[string]any{"text": text}); err != nil {
			s.log.Error("showing message file", zap.Error(err))
		}
	}

	processed := filepath.Join(s.dir, fmt.Sprintf("processed_message_%d.txt", time.Now().Unix()))
	if err := os.Rename(path, processed); err != nil {
		s.log.Error("renaming message file", zap.Error(err))
	}
}

func (s *Server) writeErrorFile(msg string) {
	path := filepath.Join(s.dir, ErrorFileName)
	if err := os.WriteFile(path, []byte(msg+"\n"), 0600); err != nil {
		s.log.Error("writing relay error file", zap.Error(err))
	}
}

func errorResponse(msg string) *Response {
	return &Response{Status: StatusError, Error: msg}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// writeJSONFile writes through a temp name and renames into place so readers
// never observe a partial payload.
func writeJSONFile(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
