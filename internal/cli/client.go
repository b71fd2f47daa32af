package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lydakis/cadbridge/internal/catalog"
	"github.com/lydakis/cadbridge/internal/config"
	"github.com/lydakis/cadbridge/internal/httpheaders"
	"github.com/lydakis/cadbridge/internal/mcplink"
	"github.com/lydakis/cadbridge/internal/paths"
	"github.com/lydakis/cadbridge/internal/relay"
	"github.com/lydakis/cadbridge/internal/response"
)

const defaultMessage = "Hello from cadbridge client"

type clientOptions struct {
	url        string
	commDir    string
	timeout    time.Duration
	relayOnly  bool
	headers    map[string]string
	configPath string
	verbose    bool
	quiet      bool
	help       bool

	check     bool
	message   string
	hasMsg    bool
	resources bool
	tools     bool
	prompts   bool
	call      string
	callArgs  map[string]any
}

func (o *clientOptions) anyCapability() bool {
	return o.check || o.hasMsg || o.resources || o.tools || o.prompts || o.call != ""
}

func parseClientArgs(args []string) (*clientOptions, error) {
	opts := &clientOptions{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			opts.help = true
		case arg == "-v" || arg == "--verbose":
			opts.verbose = true
		case arg == "-q" || arg == "--quiet":
			opts.quiet = true
		case arg == "--check":
			opts.check = true
		case arg == "--resources":
			opts.resources = true
		case arg == "--tools":
			opts.tools = true
		case arg == "--prompts":
			opts.prompts = true
		case arg == "--relay":
			opts.relayOnly = true
		case arg == "--message" || strings.HasPrefix(arg, "--message="):
			v, err := stringValue(args, &i, arg, "--message")
			if err != nil {
				return nil, err
			}
			opts.message = v
			opts.hasMsg = true
		case arg == "--url" || strings.HasPrefix(arg, "--url="):
			v, err := stringValue(args, &i, arg, "--url")
			if err != nil {
				return nil, err
			}
			opts.url = v
		case arg == "--comm-dir" || strings.HasPrefix(arg, "--comm-dir="):
			v, err := stringValue(args, &i, arg, "--comm-dir")
			if err != nil {
				return nil, err
			}
			opts.commDir = v
		case arg == "--timeout" || strings.HasPrefix(arg, "--timeout="):
			v, err := stringValue(args, &i, arg, "--timeout")
			if err != nil {
				return nil, err
			}
			d, err := time.ParseDuration(v)
			if err != nil || d <= 0 {
				return nil, fmt.Errorf("invalid --timeout value %q", v)
			}
			opts.timeout = d
		case arg == "--header" || strings.HasPrefix(arg, "--header="):
			v, err := stringValue(args, &i, arg, "--header")
			if err != nil {
				return nil, err
			}
			name, value, err := httpheaders.Parse(v)
			if err != nil {
				return nil, err
			}
			opts.headers = httpheaders.Set(opts.headers, name, value)
		case arg == "--config" || strings.HasPrefix(arg, "--config="):
			v, err := stringValue(args, &i, arg, "--config")
			if err != nil {
				return nil, err
			}
			opts.configPath = v
		case arg == "--call" || strings.HasPrefix(arg, "--call="):
			v, err := stringValue(args, &i, arg, "--call")
			if err != nil {
				return nil, err
			}
			opts.call = v
			// Everything after --call <tool> belongs to the tool.
			callArgs, err := parseToolArgs(args[i+1:])
			if err != nil {
				return nil, err
			}
			opts.callArgs = callArgs
			return opts, nil
		default:
			return nil, fmt.Errorf("unsupported flag for client: %s", arg)
		}
	}
	return opts, nil
}

func runClient(args []string) int {
	opts, err := parseClientArgs(args)
	if err != nil {
		diag("%v", err)
		return relay.ExitUsageErr
	}
	if opts.help {
		printClientHelp(rootStdout)
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

	url := firstNonEmpty(opts.url, cfg.Client.URL, config.DefaultURL)
	commDir := firstNonEmpty(opts.commDir, cfg.Server.CommDir, paths.RelayDir())
	timeout := opts.timeout
	if timeout <= 0 {
		timeout = cfg.ClientTimeout()
	}
	headers := httpheaders.Merge(nil, cfg.Client.Headers, false)
	headers = httpheaders.Merge(headers, opts.headers, true)

	// The status file knows where the server actually listens; trust it over
	// the configured URL unless --url was given.
	status, err := relay.ReadStatus(commDir)
	if err != nil && !opts.quiet {
		diag("warning: %v", err)
	}
	if status != nil && status.Status == relay.StatusRunning && status.ServerURL != "" && opts.url == "" {
		if opts.verbose && status.ServerURL != url {
			diag("using server URL %s from status file", status.ServerURL)
		}
		url = status.ServerURL
	}

	if errText := strings.TrimSpace(relay.ReadErrorFile(commDir)); errText != "" && !opts.quiet {
		diag("warning: relay error file: %s", errText)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	useHTTP := false
	if !opts.relayOnly {
		useHTTP = mcplink.Probe(ctx, url, headers)
		if opts.verbose {
			if useHTTP {
				diag("HTTP endpoint reachable at %s", url)
			} else {
				diag("HTTP endpoint unreachable, falling back to file relay in %s", commDir)
			}
		}
	}

	if opts.check {
		return runCheck(ctx, status, useHTTP, url, commDir, cfg.ClientPollInterval())
	}

	run, cleanup, err := newRunner(ctx, useHTTP, url, headers, commDir, cfg.ClientPollInterval())
	if err != nil {
		diag("%v", err)
		return exitCodeForError(err)
	}
	defer cleanup()

	if !opts.anyCapability() {
		// No capability flag means the full verification sequence.
		opts.resources = true
		opts.tools = true
		opts.prompts = true
		opts.message = defaultMessage
		opts.hasMsg = true
	}

	if opts.resources {
		if code := runListing(ctx, opts, "resources", run.resources); code != relay.ExitOK {
			return code
		}
	}
	if opts.tools {
		if code := runListing(ctx, opts, "tools", run.tools); code != relay.ExitOK {
			return code
		}
	}
	if opts.prompts {
		if code := runListing(ctx, opts, "prompts", run.prompts); code != relay.ExitOK {
			return code
		}
	}
	if opts.hasMsg {
		if code := runCall(ctx, opts, run, "message_box", map[string]any{"text": opts.message}, true); code != relay.ExitOK {
			return code
		}
	}
	if opts.call != "" {
		if code := runCall(ctx, opts, run, opts.call, opts.callArgs, false); code != relay.ExitOK {
			return code
		}
	}
	return relay.ExitOK
}

func runCheck(ctx context.Context, status *relay.Status, useHTTP bool, url, commDir string, poll time.Duration) int {
	if status != nil {
		fmt.Fprintf(rootStdout, "status file: %s", status.Status)
		if status.ServerURL != "" {
			fmt.Fprintf(rootStdout, " at %s", status.ServerURL)
		}
		fmt.Fprintln(rootStdout)
	}

	if useHTTP {
		fmt.Fprintf(rootStdout, "connected: http %s\n", url)
		return relay.ExitOK
	}
	if err := relay.WaitReady(ctx, commDir, poll); err != nil {
		diag("server not ready: %v", err)
		return relay.ExitTimeout
	}
	fmt.Fprintf(rootStdout, "connected: relay %s\n", commDir)
	return relay.ExitOK
}

// runner abstracts the two transports behind the operations the client
// exercises. Listings return JSON; calls return rendered output plus an
// exit code.
type runner struct {
	resources func(ctx context.Context) ([]byte, error)
	tools     func(ctx context.Context) ([]byte, error)
	prompts   func(ctx context.Context) ([]byte, error)
	call      func(ctx context.Context, tool string, args map[string]any) ([]byte, int, error)
}

func newRunner(ctx context.Context, useHTTP bool, url string, headers map[string]string, commDir string, poll time.Duration) (*runner, func(), error) {
	if useHTTP {
		link, err := mcplink.Connect(ctx, url, headers)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to %s: %w", url, err)
		}
		return newHTTPRunner(link), func() { link.Close() }, nil
	}

	if err := relay.WaitReady(ctx, commDir, poll); err != nil {
		return nil, nil, err
	}
	client := relay.NewClient(commDir)
	client.PollInterval = poll
	return newRelayRunner(client), func() {}, nil
}

func newHTTPRunner(link *mcplink.Link) *runner {
	return &runner{
		resources: func(ctx context.Context) ([]byte, error) {
			resources, err := link.ListResources(ctx)
			if err != nil {
				return nil, err
			}
			uris := make([]string, 0, len(resources))
			for _, r := range resources {
				uris = append(uris, r.URI)
			}
			return json.Marshal(uris)
		},
		tools: func(ctx context.Context) ([]byte, error) {
			tools, err := link.ListTools(ctx)
			if err != nil {
				return nil, err
			}
			infos := make([]catalog.Info, 0, len(tools))
			for _, t := range tools {
				infos = append(infos, catalog.Info{Name: t.Name, Description: t.Description})
			}
			return json.Marshal(infos)
		},
		prompts: func(ctx context.Context) ([]byte, error) {
			prompts, err := link.ListPrompts(ctx)
			if err != nil {
				return nil, err
			}
			infos := make([]catalog.Info, 0, len(prompts))
			for _, p := range prompts {
				infos = append(infos, catalog.Info{Name: p.Name, Description: p.Description})
			}
			return json.Marshal(infos)
		},
		call: func(ctx context.Context, tool string, args map[string]any) ([]byte, int, error) {
			result, err := link.CallTool(ctx, tool, args)
			if err != nil {
				return nil, exitCodeForError(err), err
			}
			out, code := response.Unwrap(result)
			return out, code, nil
		},
	}
}

func newRelayRunner(client *relay.Client) *runner {
	listing := func(action string) func(ctx context.Context) ([]byte, error) {
		return func(ctx context.Context) ([]byte, error) {
			raw, err := client.Send(ctx, action, nil)
			if err != nil {
				return nil, err
			}
			return raw, nil
		}
	}
	return &runner{
		resources: listing("list_resources"),
		tools:     listing("list_tools"),
		prompts:   listing("list_prompts"),
		call: func(ctx context.Context, tool string, args map[string]any) ([]byte, int, error) {
			raw, err := client.Send(ctx, tool, args)
			if err != nil {
				return nil, exitCodeForError(err), err
			}
			return append([]byte(raw), '\n'), relay.ExitOK, nil
		},
	}
}

func runListing(ctx context.Context, opts *clientOptions, label string, list func(ctx context.Context) ([]byte, error)) int {
	if opts.verbose {
		diag("listing %s", label)
	}
	out, err := list(ctx)
	if err != nil {
		if !opts.quiet {
			diag("listing %s: %v", label, err)
		}
		return exitCodeForError(err)
	}
	writeOutput(rootStdout, out)
	return relay.ExitOK
}

func runCall(ctx context.Context, opts *clientOptions, run *runner, tool string, args map[string]any, quietOutput bool) int {
	if opts.verbose {
		diag("calling %s", tool)
	}
	out, code, err := run.call(ctx, tool, args)
	if err != nil {
		if !opts.quiet {
			diag("calling %s: %v", tool, err)
		}
		return code
	}
	if code != relay.ExitOK {
		if !opts.quiet && len(out) > 0 {
			rootStderr.Write(out) //nolint:errcheck
		}
		return code
	}
	if !quietOutput {
		writeOutput(rootStdout, out)
	}
	return relay.ExitOK
}

func writeOutput(w io.Writer, out []byte) {
	if len(out) == 0 {
		return
	}
	w.Write(out) //nolint:errcheck
	if out[len(out)-1] != '\n' {
		fmt.Fprintln(w)
	}
}

func printClientHelp(out io.Writer) {
	fmt.Fprintln(out, "Usage: cadbridge client [FLAGS]")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Exercise a running bridge over HTTP, or over the file relay when the")
	fmt.Fprintln(out, "HTTP endpoint is unreachable. Without capability flags the full")
	fmt.Fprintln(out, "sequence runs: resources, tools, prompts, message box.")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Capabilities:")
	fmt.Fprintln(out, "  --check                 Report which transport answers")
	fmt.Fprintln(out, "  --message <text>        Show a message box in the host")
	fmt.Fprintln(out, "  --resources             List resource URIs")
	fmt.Fprintln(out, "  --tools                 List tools")
	fmt.Fprintln(out, "  --prompts               List prompts")
	fmt.Fprintln(out, "  --call <tool> [FLAGS]   Call a tool; remaining --key value pairs are its arguments")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Connection:")
	fmt.Fprintln(out, "  --url <url>             MCP endpoint (default from config)")
	fmt.Fprintln(out, "  --comm-dir <dir>        Relay mailbox directory")
	fmt.Fprintln(out, "  --timeout <duration>    Total wait budget (default 10s)")
	fmt.Fprintln(out, "  --relay                 Skip HTTP, use the file relay")
	fmt.Fprintln(out, "  --header 'Name: value'  Extra HTTP header (repeatable)")
	fmt.Fprintln(out, "  --config <path>         Config file to load")
	fmt.Fprintln(out, "  --verbose, -v           Diagnostics to stderr")
	fmt.Fprintln(out, "  --quiet, -q             Suppress stderr output")
	fmt.Fprintln(out, "  --help, -h              Show this help output")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Exit codes: 0 ok, 1 action error, 2 usage, 3 internal, 4 timeout.")
}
