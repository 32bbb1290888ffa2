package io

import (
	"fmt"
	"os"
	"path/filepath"
)

// Write a page to the fs at the output path. The page is written to a
// temporary file next to filename and renamed over it, so a failed write
// never leaves a partial page behind.
func Write(filename string, page []byte) error {
	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filename)+".*")
	if err != nil {
		return fmt.Errorf("failed to create the output: %w", err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(page); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write the output: %w", err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write the output: %w", err)
	}
	if err = os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write the output: %w", err)
	}
	if err = os.Rename(tmpName, filename); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write the output: %w", err)
	}
	return nil
}
