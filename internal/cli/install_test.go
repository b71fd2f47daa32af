package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lydakis/cadbridge/internal/relay"
)

func TestParseInstallArgs(t *testing.T) {
	opts, err := parseInstallArgs([]string{
		"--root", "/a/*", "--root=/b", "--binary", "/usr/local/bin/cadbridge",
		"--dry-run",
	})
	if err != nil {
		t.Fatalf("parseInstallArgs() error = %v", err)
	}
	if len(opts.roots) != 2 || opts.roots[0] != "/a/*" || opts.roots[1] != "/b" {
		t.Errorf("roots = %v", opts.roots)
	}
	if opts.binary != "/usr/local/bin/cadbridge" {
		t.Errorf("binary = %q", opts.binary)
	}
	if !opts.dryRun {
		t.Error("dryRun = false, want true")
	}

	if _, err := parseInstallArgs([]string{"--uninstall"}); err == nil {
		t.Fatal("parseInstallArgs(--uninstall) error = nil, want error")
	}
}

func TestRunInstallList(t *testing.T) {
	isolateConfig(t)
	target := t.TempDir()
	stdout, _ := captureRoot(t)

	code := runInstall([]string{"--list", "--root", target})
	if code != relay.ExitOK {
		t.Fatalf("runInstall(--list) = %d, want %d", code, relay.ExitOK)
	}
	if !strings.Contains(stdout.String(), target) {
		t.Errorf("list output = %q, want %q", stdout.String(), target)
	}
}

func TestRunInstallListNoTargets(t *testing.T) {
	isolateConfig(t)
	captureRoot(t)

	code := runInstall([]string{"--list", "--root", filepath.Join(t.TempDir(), "nope")})
	if code != relay.ExitToolErr {
		t.Fatalf("runInstall(--list, empty) = %d, want %d", code, relay.ExitToolErr)
	}
}

func TestRunInstallInitConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("CADBRIDGE_CONFIG", cfgPath)
	stdout, _ := captureRoot(t)

	code := runInstall([]string{"--init-config"})
	if code != relay.ExitOK {
		t.Fatalf("runInstall(--init-config) = %d, want %d", code, relay.ExitOK)
	}
	if !strings.Contains(stdout.String(), cfgPath) {
		t.Errorf("output = %q, want config path", stdout.String())
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Errorf("starter config not written: %v", err)
	}
}

func TestRunInstallDryRun(t *testing.T) {
	isolateConfig(t)
	target := t.TempDir()
	stdout, _ := captureRoot(t)

	code := runInstall([]string{"--dry-run", "--root", target})
	if code != relay.ExitOK {
		t.Fatalf("runInstall(--dry-run) = %d, want %d", code, relay.ExitOK)
	}
	if !strings.Contains(stdout.String(), "would install") {
		t.Errorf("dry-run output = %q", stdout.String())
	}
}
