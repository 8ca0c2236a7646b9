// Package store is the on-disk side of the pipeline: reading the current
// document and writing the merged one back.
package store

import (
	"fmt"
	"os"
	"path/filepath"
)

type Files struct{}

// Read returns the document at path. A missing file is not an error; the
// caller seeds an empty managed section instead.
func (Files) Read(path string) (content string, found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), true, nil
}

// Write replaces the document at path, creating parent directories as
// needed.
func (Files) Write(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
