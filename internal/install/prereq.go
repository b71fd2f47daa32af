package install

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

type lookupPathFunc func(file string) (string, error)

// CheckPrerequisites verifies the bridge binary is resolvable and the relay
// directory is writable before anything is deployed.
func CheckPrerequisites(binary, commDir string) error {
	return checkPrerequisitesWithLookup(binary, commDir, exec.LookPath)
}

func checkPrerequisitesWithLookup(binary, commDir string, lookup lookupPathFunc) error {
	if lookup == nil {
		lookup = exec.LookPath
	}

	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "cadbridge"
	}

	if strings.ContainsRune(binary, os.PathSeparator) {
		info, err := os.Stat(binary)
		if err != nil {
			return fmt.Errorf("bridge binary %q not found: %w", binary, err)
		}
		if info.IsDir() || info.Mode()&0111 == 0 {
			return fmt.Errorf("bridge binary %q is not executable", binary)
		}
	} else if _, err := lookup(binary); err != nil {
		return fmt.Errorf("bridge binary %q not found in PATH", binary)
	}

	if commDir != "" {
		if err := os.MkdirAll(commDir, 0700); err != nil {
			return fmt.Errorf("relay directory %s not writable: %w", commDir, err)
		}
		probe, err := os.CreateTemp(commDir, ".install-probe-*")
		if err != nil {
			return fmt.Errorf("relay directory %s not writable: %w", commDir, err)
		}
		name := probe.Name()
		probe.Close()
		os.Remove(name)
	}

	return nil
}

// resolveBinary returns the absolute path the launcher should invoke.
func resolveBinary(binary string, lookup lookupPathFunc) (string, error) {
	if lookup == nil {
		lookup = exec.LookPath
	}
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "cadbridge"
	}

	if strings.ContainsRune(binary, os.PathSeparator) {
		return filepath.Abs(binary)
	}
	path, err := lookup(binary)
	if err != nil {
		return "", fmt.Errorf("resolving bridge binary %q: %w", binary, err)
	}
	return filepath.Abs(path)
}
