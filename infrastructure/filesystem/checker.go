package filesystem

import (
	"errors"
	"io/fs"
	"os"

	"audio-bridge/domain/media"
)

// Checker inspects and cleans up local job files using the os package
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// Exists returns true if the file exists
func (c *Checker) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Size returns the file size in bytes, or 0 if it cannot be read
func (c *Checker) Size(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Remove deletes a single file. A missing file is not an error.
func (c *Checker) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// EnsureDir creates a directory and its parents
func (c *Checker) EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// RemoveDir deletes a directory and everything under it
func (c *Checker) RemoveDir(path string) error {
	return os.RemoveAll(path)
}

// Ensure Checker implements media.FileChecker
var _ media.FileChecker = (*Checker)(nil)
