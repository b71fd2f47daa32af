package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/lydakis/cadbridge/internal/config"
	"github.com/lydakis/cadbridge/internal/install"
	"github.com/lydakis/cadbridge/internal/paths"
	"github.com/lydakis/cadbridge/internal/relay"
)

type installOptions struct {
	roots      []string
	binary     string
	commDir    string
	configPath string
	dryRun     bool
	list       bool
	initConfig bool
	help       bool
}

func parseInstallArgs(args []string) (*installOptions, error) {
	opts := &installOptions{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			opts.help = true
		case arg == "--dry-run":
			opts.dryRun = true
		case arg == "--list":
			opts.list = true
		case arg == "--init-config":
			opts.initConfig = true
		case arg == "--root" || strings.HasPrefix(arg, "--root="):
			v, err := stringValue(args, &i, arg, "--root")
			if err != nil {
				return nil, err
			}
			opts.roots = append(opts.roots, v)
		case arg == "--binary" || strings.HasPrefix(arg, "--binary="):
			v, err := stringValue(args, &i, arg, "--binary")
			if err != nil {
				return nil, err
			}
			opts.binary = v
		case arg == "--comm-dir" || strings.HasPrefix(arg, "--comm-dir="):
			v, err := stringValue(args, &i, arg, "--comm-dir")
			if err != nil {
				return nil, err
			}
			opts.commDir = v
		case arg == "--config" || strings.HasPrefix(arg, "--config="):
			v, err := stringValue(args, &i, arg, "--config")
			if err != nil {
				return nil, err
			}
			opts.configPath = v
		default:
			return nil, fmt.Errorf("unsupported flag for install: %s", arg)
		}
	}
	return opts, nil
}

func runInstall(args []string) int {
	opts, err := parseInstallArgs(args)
	if err != nil {
		diag("%v", err)
		return relay.ExitUsageErr
	}
	if opts.help {
		printInstallHelp(rootStdout)
		return relay.ExitOK
	}

	if opts.initConfig {
		path, err := config.WriteStarter()
		if err != nil {
			diag("%v", err)
			return relay.ExitInternal
		}
		fmt.Fprintf(rootStdout, "wrote %s\n", path)
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

	roots := opts.roots
	if len(roots) == 0 {
		roots = cfg.Install.Roots
	}
	binary := firstNonEmpty(opts.binary, cfg.Install.Binary)
	commDir := firstNonEmpty(opts.commDir, cfg.Server.CommDir, paths.RelayDir())

	if opts.list {
		dirs, err := install.Discover(roots)
		if err != nil {
			diag("%v", err)
			return relay.ExitInternal
		}
		for _, dir := range dirs {
			fmt.Fprintln(rootStdout, dir)
		}
		if len(dirs) == 0 {
			diag("no add-in directories found")
			return relay.ExitToolErr
		}
		return relay.ExitOK
	}

	results, err := install.Install(install.Options{
		Roots:   roots,
		Binary:  binary,
		CommDir: commDir,
		DryRun:  opts.dryRun,
	})
	if err != nil {
		diag("%v", err)
		return relay.ExitToolErr
	}
	fmt.Fprint(rootStdout, install.Summary(results))
	return relay.ExitOK
}

func printInstallHelp(out io.Writer) {
	fmt.Fprintln(out, "Usage: cadbridge install [FLAGS]")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Deploy the bridge launcher into host add-in directories.")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Flags:")
	fmt.Fprintln(out, "  --root <glob>     Add-in directory pattern (repeatable; default per-OS)")
	fmt.Fprintln(out, "  --binary <path>   Bridge executable (default: cadbridge from PATH)")
	fmt.Fprintln(out, "  --comm-dir <dir>  Relay mailbox directory baked into the launcher")
	fmt.Fprintln(out, "  --list            Only print discovered add-in directories")
	fmt.Fprintln(out, "  --dry-run         Report targets without writing")
	fmt.Fprintln(out, "  --init-config     Write a starter config file and exit")
	fmt.Fprintln(out, "  --config <path>   Config file to load")
	fmt.Fprintln(out, "  --help, -h        Show this help output")
}
