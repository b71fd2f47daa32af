// Package cli implements the cadbridge command line: serve, client, install,
// and completion.
package cli

import (
	"fmt"

	"github.com/lydakis/cadbridge/internal/relay"
)

// Run is the main CLI entry point. Returns an exit code.
func Run(args []string) int {
	if handled, code := handleRootFlags(args); handled {
		return code
	}

	if len(args) == 0 {
		printRootHelp(rootStderr)
		return relay.ExitUsageErr
	}

	switch args[0] {
	case "serve":
		return runServe(args[1:])
	case "client":
		return runClient(args[1:])
	case "install":
		return runInstall(args[1:])
	case "completion":
		return runCompletionCommand(args[1:], rootStdout, rootStderr)
	case "help":
		printRootHelp(rootStdout)
		return relay.ExitOK
	default:
		fmt.Fprintf(rootStderr, "cadbridge: unknown command: %s\n\n", args[0])
		printRootHelp(rootStderr)
		return relay.ExitUsageErr
	}
}

func diag(format string, args ...any) {
	fmt.Fprintf(rootStderr, "cadbridge: "+format+"\n", args...)
}
