package cli

import (
	"testing"
)

func TestParseServeArgs(t *testing.T) {
	opts, err := parseServeArgs([]string{
		"--listen", "127.0.0.1:4444", "--stdio", "--comm-dir=/tmp/relay",
		"--log-level", "debug", "--no-watch",
	})
	if err != nil {
		t.Fatalf("parseServeArgs() error = %v", err)
	}
	if opts.listen != "127.0.0.1:4444" {
		t.Errorf("listen = %q", opts.listen)
	}
	if !opts.stdio {
		t.Error("stdio = false, want true")
	}
	if opts.commDir != "/tmp/relay" {
		t.Errorf("commDir = %q", opts.commDir)
	}
	if opts.logLevel != "debug" {
		t.Errorf("logLevel = %q", opts.logLevel)
	}
	if !opts.noWatch {
		t.Error("noWatch = false, want true")
	}
}

func TestParseServeArgsRejectsUnknownFlag(t *testing.T) {
	if _, err := parseServeArgs([]string{"--port", "80"}); err == nil {
		t.Fatal("parseServeArgs(--port) error = nil, want error")
	}
	if _, err := parseServeArgs([]string{"--listen"}); err == nil {
		t.Fatal("parseServeArgs(dangling --listen) error = nil, want error")
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "b", "c"); got != "b" {
		t.Errorf("firstNonEmpty() = %q, want b", got)
	}
	if got := firstNonEmpty("", ""); got != "" {
		t.Errorf("firstNonEmpty() = %q, want empty", got)
	}
}
