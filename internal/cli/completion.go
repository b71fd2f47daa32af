package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/lydakis/cadbridge/internal/relay"
)

func runCompletionCommand(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "cadbridge: usage: cadbridge completion <bash|zsh|fish>")
		return relay.ExitUsageErr
	}

	script, ok := completionScripts[strings.ToLower(args[0])]
	if !ok {
		fmt.Fprintf(stderr, "cadbridge: unknown shell for completion: %s\n", args[0])
		return relay.ExitUsageErr
	}

	_, _ = io.WriteString(stdout, script)
	return relay.ExitOK
}
