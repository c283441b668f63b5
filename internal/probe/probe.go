// Package probe inspects a project directory to decide the default sync
// direction.
package probe

import (
	"fmt"
	"os"

	"s3backup/internal/config"
)

var ignoredNames = func() map[string]struct{} {
	m := make(map[string]struct{}, len(config.SyncExcludes)+1)
	for _, name := range config.SyncExcludes {
		m[name] = struct{}{}
	}
	// init may have written a README; it does not count as project content.
	m["README.md"] = struct{}{}
	return m
}()

// HasFiles reports whether dir contains at least one regular file that is not
// a tool artifact. It does not descend into subdirectories and has no side
// effects.
func HasFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, fmt.Errorf("error reading directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if _, ok := ignoredNames[entry.Name()]; ok {
			continue
		}
		return true, nil
	}
	return false, nil
}
