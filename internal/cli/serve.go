package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lydakis/cadbridge/internal/bridge"
	"github.com/lydakis/cadbridge/internal/config"
	"github.com/lydakis/cadbridge/internal/host"
	"github.com/lydakis/cadbridge/internal/logging"
	"github.com/lydakis/cadbridge/internal/paths"
	"github.com/lydakis/cadbridge/internal/relay"
)

type serveOptions struct {
	listen     string
	stdio      bool
	commDir    string
	logFile    string
	logLevel   string
	configPath string
	noWatch    bool
	help       bool
}

func parseServeArgs(args []string) (*serveOptions, error) {
	opts := &serveOptions{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			opts.help = true
		case arg == "--stdio":
			opts.stdio = true
		case arg == "--no-watch":
			opts.noWatch = true
		case arg == "--listen" || strings.HasPrefix(arg, "--listen="):
			v, err := stringValue(args, &i, arg, "--listen")
			if err != nil {
				return nil, err
			}
			opts.listen = v
		case arg == "--comm-dir" || strings.HasPrefix(arg, "--comm-dir="):
			v, err := stringValue(args, &i, arg, "--comm-dir")
			if err != nil {
				return nil, err
			}
			opts.commDir = v
		case arg == "--log-file" || strings.HasPrefix(arg, "--log-file="):
			v, err := stringValue(args, &i, arg, "--log-file")
			if err != nil {
				return nil, err
			}
			opts.logFile = v
		case arg == "--log-level" || strings.HasPrefix(arg, "--log-level="):
			v, err := stringValue(args, &i, arg, "--log-level")
			if err != nil {
				return nil, err
			}
			opts.logLevel = v
		case arg == "--config" || strings.HasPrefix(arg, "--config="):
			v, err := stringValue(args, &i, arg, "--config")
			if err != nil {
				return nil, err
			}
			opts.configPath = v
		default:
			return nil, fmt.Errorf("unsupported flag for serve: %s", arg)
		}
	}
	return opts, nil
}

func runServe(args []string) int {
	opts, err := parseServeArgs(args)
	if err != nil {
		diag("%v", err)
		return relay.ExitUsageErr
	}
	if opts.help {
		printServeHelp(rootStdout)
		return relay.ExitOK
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		diag("%v", err)
		return relay.ExitInternal
	}
	if verr := config.Validate(cfg); verr != nil {
		diag("invalid config: %v", verr)
		return relay.ExitUsageErr
	}

	listen := firstNonEmpty(opts.listen, cfg.Server.Listen, config.DefaultListen)
	commDir := firstNonEmpty(opts.commDir, cfg.Server.CommDir, paths.RelayDir())
	logFile := firstNonEmpty(opts.logFile, cfg.Server.LogFile)
	logLevel := firstNonEmpty(opts.logLevel, cfg.Server.LogLevel)

	logger, err := logging.New(logFile, logLevel)
	if err != nil {
		diag("%v", err)
		return relay.ExitInternal
	}
	defer logger.Sync() //nolint:errcheck

	b := bridge.New(bridge.Config{
		Listen:       listen,
		Stdio:        opts.stdio,
		CommDir:      commDir,
		PollInterval: cfg.ServerPollInterval(),
		Watch:        cfg.WatchEnabled() && !opts.noWatch,
	}, host.NewMemory(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := b.Run(ctx); err != nil {
		diag("%v", err)
		return relay.ExitInternal
	}
	return relay.ExitOK
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func printServeHelp(out io.Writer) {
	fmt.Fprintln(out, "Usage: cadbridge serve [FLAGS]")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Run the bridge server: MCP over streamable HTTP plus the file relay.")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Flags:")
	fmt.Fprintln(out, "  --listen <addr>      HTTP listen address (default 127.0.0.1:3000)")
	fmt.Fprintln(out, "  --stdio              Serve MCP on stdin/stdout instead of HTTP")
	fmt.Fprintln(out, "  --comm-dir <dir>     Relay mailbox directory")
	fmt.Fprintln(out, "  --no-watch           Disable the relay directory watch")
	fmt.Fprintln(out, "  --log-file <path>    Log destination (default stderr)")
	fmt.Fprintln(out, "  --log-level <level>  debug, info, warn, or error")
	fmt.Fprintln(out, "  --config <path>      Config file to load")
	fmt.Fprintln(out, "  --help, -h           Show this help output")
}
