package install

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	launcherName = "cadbridge-launch.sh"
	manifestName = "cadbridge.manifest"

	markerLine = "# cadbridge-launcher"
)

// Options controls a deployment run.
type Options struct {
	// Roots are add-in directory globs. Empty means DefaultRoots.
	Roots []string

	// Binary is the bridge executable the launcher invokes.
	Binary string

	// CommDir is baked into the launcher when set.
	CommDir string

	// DryRun reports targets without writing anything.
	DryRun bool
}

// Result describes one deployed (or skipped) target directory.
type Result struct {
	Dir      string
	Launcher string
	Manifest string
	DryRun   bool
}

// manifest is the add-in descriptor written next to the launcher.
type manifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Command     string `json:"command"`
	CommDir     string `json:"comm_dir,omitempty"`
}

// Install deploys the launcher and manifest into every discovered add-in
// directory, verifying each written file. Zero discovered targets is an
// error: it means the host application is not where the roots point.
func Install(opts Options) ([]Result, error) {
	return installWithLookup(opts, exec.LookPath)
}

func installWithLookup(opts Options, lookup lookupPathFunc) ([]Result, error) {
	dirs, err := Discover(opts.Roots)
	if err != nil {
		return nil, fmt.Errorf("discovering add-in directories: %w", err)
	}
	if len(dirs) == 0 {
		return nil, fmt.Errorf("no add-in directories found; pass --root or configure install.roots")
	}

	if opts.DryRun {
		results := make([]Result, 0, len(dirs))
		for _, dir := range dirs {
			results = append(results, Result{
				Dir:      dir,
				Launcher: filepath.Join(dir, launcherName),
				Manifest: filepath.Join(dir, manifestName),
				DryRun:   true,
			})
		}
		return results, nil
	}

	if err := checkPrerequisitesWithLookup(opts.Binary, opts.CommDir, lookup); err != nil {
		return nil, err
	}
	binary, err := resolveBinary(opts.Binary, lookup)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(dirs))
	for _, dir := range dirs {
		result, err := installInto(dir, binary, opts.CommDir)
		if err != nil {
			return results, fmt.Errorf("installing into %s: %w", dir, err)
		}
		results = append(results, *result)
	}
	return results, nil
}

func installInto(dir, binary, commDir string) (*Result, error) {
	launcher := filepath.Join(dir, launcherName)
	if err := writeExecutable(launcher, renderLauncher(binary, commDir)); err != nil {
		return nil, fmt.Errorf("writing launcher: %w", err)
	}

	data, err := json.MarshalIndent(manifest{
		Name:        "cadbridge",
		Version:     "0.1.0",
		Description: "MCP bridge for the CAD host application",
		Command:     binary,
		CommDir:     commDir,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	manifestPath := filepath.Join(dir, manifestName)
	if err := os.WriteFile(manifestPath, append(data, '\n'), 0o644); err != nil {
		return nil, fmt.Errorf("writing manifest: %w", err)
	}

	if err := verify(launcher, true); err != nil {
		return nil, err
	}
	if err := verify(manifestPath, false); err != nil {
		return nil, err
	}

	return &Result{Dir: dir, Launcher: launcher, Manifest: manifestPath}, nil
}

func renderLauncher(binary, commDir string) string {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString(markerLine + "\n")
	if commDir != "" {
		fmt.Fprintf(&b, "CADBRIDGE_COMM_DIR='%s'\n", shellSingleQuote(commDir))
		b.WriteString("export CADBRIDGE_COMM_DIR\n")
	}
	fmt.Fprintf(&b, "exec '%s' serve \"$@\"\n", shellSingleQuote(binary))
	return b.String()
}

// writeExecutable writes through a temp file and renames into place, the
// launcher never exists half-written.
func writeExecutable(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".cadbridge-launch-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := io.WriteString(tmp, content); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o755); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	cleanup = false
	return nil
}

func verify(path string, executable bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("verifying %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("verifying %s: not a regular file", path)
	}
	if executable && info.Mode()&0111 == 0 {
		return fmt.Errorf("verifying %s: not executable", path)
	}
	return nil
}

// Summary renders the per-target outcome for the CLI.
func Summary(results []Result) string {
	var b strings.Builder
	for _, r := range results {
		if r.DryRun {
			fmt.Fprintf(&b, "would install into %s\n", r.Dir)
			continue
		}
		fmt.Fprintf(&b, "installed %s\n", r.Launcher)
		fmt.Fprintf(&b, "installed %s\n", r.Manifest)
	}
	fmt.Fprintf(&b, "%d add-in director", len(results))
	if len(results) == 1 {
		b.WriteString("y")
	} else {
		b.WriteString("ies")
	}
	if len(results) > 0 && results[0].DryRun {
		b.WriteString(" (dry run)")
	}
	b.WriteString("\n")
	return b.String()
}

func shellSingleQuote(value string) string {
	return strings.ReplaceAll(value, "'", `'"'"'`)
}
