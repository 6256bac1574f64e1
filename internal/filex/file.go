// Package filex contains small filesystem helpers shared by storage backends.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir makes sure the directory exists and returns its absolute path.
// A relative dirName is resolved against the current working directory.
func EnsureDir(dirName string) (string, error) {
	dir := dirName

	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dirName)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}
