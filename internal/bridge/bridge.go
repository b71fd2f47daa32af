// Package bridge assembles the MCP server over a CAD host: catalog
// registration, the HTTP or stdio transport, the relay monitor, and the
// readiness/status lifecycle in the relay directory.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/lydakis/cadbridge/internal/catalog"
	"github.com/lydakis/cadbridge/internal/host"
	"github.com/lydakis/cadbridge/internal/relay"
)

const (
	serverName    = "cadbridge"
	serverVersion = "0.1.0"
	endpointPath  = "/mcp"
)

// Config sets up one bridge instance.
type Config struct {
	// Listen is the streamable HTTP address. Ignored when Stdio is set.
	Listen string

	// Stdio serves MCP on stdin/stdout instead of HTTP.
	Stdio bool

	// CommDir is the relay mailbox directory.
	CommDir string

	// PollInterval is the relay sweep cadence.
	PollInterval time.Duration

	// Watch enables the fsnotify directory watch.
	Watch bool
}

// Bridge owns the running pieces. Build with New, drive with Run.
type Bridge struct {
	cfg  Config
	host host.Host
	cat  *catalog.Catalog
	mcp  *server.MCPServer
	log  *zap.Logger
}

// New builds the MCP server and registers the catalog. A nil logger
// disables logging.
func New(cfg Config, h host.Host, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}

	cat := catalog.New(h)
	s := server.NewMCPServer(serverName, serverVersion,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
	)
	register(s, cat)

	return &Bridge{
		cfg:  cfg,
		host: h,
		cat:  cat,
		mcp:  s,
		log:  logger,
	}
}

// Catalog exposes the registration table, mostly for tests and status.
func (b *Bridge) Catalog() *catalog.Catalog { return b.cat }

// MCPServer exposes the underlying MCP server for in-process transports.
func (b *Bridge) MCPServer() *server.MCPServer { return b.mcp }

// URL returns the HTTP endpoint the bridge serves, or "" in stdio mode.
func (b *Bridge) URL() string {
	if b.cfg.Stdio {
		return ""
	}
	return "http://" + b.cfg.Listen + endpointPath
}

// Run serves until ctx is cancelled or a transport fails. The relay monitor
// runs on its own goroutine; the host UI thread is never entered from here.
func (b *Bridge) Run(ctx context.Context) error {
	if err := os.MkdirAll(b.cfg.CommDir, 0700); err != nil {
		return fmt.Errorf("creating comm dir: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	relaySrv := relay.NewServer(b.cfg.CommDir, b.cat.Dispatch, b.log.Named("relay"))
	if b.cfg.PollInterval > 0 {
		relaySrv.PollInterval = b.cfg.PollInterval
	}
	relaySrv.NoWatch = !b.cfg.Watch

	errCh := make(chan error, 2)
	go func() {
		errCh <- relaySrv.Run(ctx)
	}()

	var httpSrv *server.StreamableHTTPServer
	if b.cfg.Stdio {
		go func() {
			err := server.ServeStdio(b.mcp)
			if err != nil && !errors.Is(err, context.Canceled) {
				err = fmt.Errorf("stdio transport: %w", err)
			} else {
				err = nil
			}
			errCh <- err
		}()
	} else {
		httpSrv = server.NewStreamableHTTPServer(b.mcp,
			server.WithEndpointPath(endpointPath),
		)
		go func() {
			err := httpSrv.Start(b.cfg.Listen)
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("http transport: %w", err)
				return
			}
			errCh <- nil
		}()
	}

	if err := b.markRunning(); err != nil {
		cancel()
		<-errCh
		return err
	}
	defer b.markStopped()

	b.log.Info("bridge started",
		zap.String("url", b.URL()),
		zap.Bool("stdio", b.cfg.Stdio),
		zap.String("comm_dir", b.cfg.CommDir),
		zap.String("host_version", b.host.Version()))

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		cancel()
	}

	if httpSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			b.log.Warn("http shutdown", zap.Error(err))
		}
		shutdownCancel()
	}

	b.log.Info("bridge stopped", zap.Error(runErr))
	return runErr
}

// markRunning publishes the readiness sentinel and the running status.
func (b *Bridge) markRunning() error {
	if err := relay.WriteStatus(b.cfg.CommDir, relay.Status{
		Status:      relay.StatusRunning,
		PID:         os.Getpid(),
		StartedAt:   time.Now().Format(time.RFC3339),
		ServerURL:   b.URL(),
		HostVersion: b.host.Version(),
		Resources:   b.cat.ResourceURIs(),
		Tools:       infoNames(b.cat.ToolInfos()),
		Prompts:     infoNames(b.cat.PromptInfos()),
	}); err != nil {
		return fmt.Errorf("writing status: %w", err)
	}
	if err := relay.WriteReady(b.cfg.CommDir); err != nil {
		return err
	}
	return nil
}

// markStopped withdraws the sentinel first so clients stop sending, then
// records the stop in the status file.
func (b *Bridge) markStopped() {
	if err := relay.ClearReady(b.cfg.CommDir); err != nil {
		b.log.Warn("clearing ready sentinel", zap.Error(err))
	}
	if err := relay.WriteStatus(b.cfg.CommDir, relay.Status{
		Status:    relay.StatusStopped,
		PID:       os.Getpid(),
		StoppedAt: time.Now().Format(time.RFC3339),
	}); err != nil {
		b.log.Warn("writing stopped status", zap.Error(err))
	}
}

func infoNames(infos []catalog.Info) []string {
	out := make([]string, 0, len(infos))
	for _, info := range infos {
		out = append(out, info.Name)
	}
	return out
}
