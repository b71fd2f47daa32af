// Package install deploys the bridge launcher into the host application's
// add-in directories.
package install

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
)

// DefaultRoots returns the per-OS glob patterns for host add-in directories.
func DefaultRoots() []string {
	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return []string{
				filepath.Join(appData, "Autodesk", "Autodesk Fusion 360", "API", "AddIns"),
				filepath.Join(appData, "Autodesk", "ApplicationPlugins"),
			}
		}
		return nil
	case "darwin":
		return []string{
			filepath.Join(homeDir(), "Library", "Application Support", "Autodesk", "Autodesk Fusion 360", "API", "AddIns"),
		}
	default:
		return []string{
			filepath.Join(homeDir(), ".local", "share", "Autodesk", "AddIns"),
		}
	}
}

// Discover expands root globs into existing add-in directories, sorted and
// deduplicated. A pattern that matches nothing is skipped, not an error.
func Discover(roots []string) ([]string, error) {
	if len(roots) == 0 {
		roots = DefaultRoots()
	}

	seen := make(map[string]bool)
	var dirs []string
	for _, root := range roots {
		matches, err := filepath.Glob(root)
		if err != nil {
			return nil, err
		}
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || !info.IsDir() {
				continue
			}
			abs, err := filepath.Abs(match)
			if err != nil {
				continue
			}
			if !seen[abs] {
				seen[abs] = true
				dirs = append(dirs, abs)
			}
		}
	}

	sort.Strings(dirs)
	return dirs, nil
}

func homeDir() string {
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	h, _ := os.UserHomeDir()
	return h
}
