package filesystem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestChecker(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abc123.mp3")
	if err := os.WriteFile(path, []byte("ID3audio"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	c := NewChecker()

	if !c.Exists(path) {
		t.Error("Exists() = false for existing file")
	}
	if got := c.Size(path); got != 8 {
		t.Errorf("Size() = %d, want 8", got)
	}
	if got := c.Size(filepath.Join(dir, "missing.mp3")); got != 0 {
		t.Errorf("Size() of missing file = %d, want 0", got)
	}

	if err := c.Remove(path); err != nil {
		t.Fatalf("Remove() unexpected error: %v", err)
	}
	if c.Exists(path) {
		t.Error("file still exists after Remove()")
	}
	if err := c.Remove(path); err != nil {
		t.Errorf("Remove() of missing file should not fail, got %v", err)
	}
}

func TestChecker_RemoveDir(t *testing.T) {
	root := t.TempDir()
	jobDir := filepath.Join(root, "job-1")
	if err := os.MkdirAll(jobDir, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(jobDir, "abc123.webm"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	c := NewChecker()
	if err := c.RemoveDir(jobDir); err != nil {
		t.Fatalf("RemoveDir() unexpected error: %v", err)
	}
	if c.Exists(jobDir) {
		t.Error("directory still exists after RemoveDir()")
	}
}

func TestChecker_EnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "jobs", "1234")

	c := NewChecker()
	if err := c.EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir() unexpected error: %v", err)
	}
	if err := c.EnsureDir(dir); err != nil {
		t.Errorf("EnsureDir() on existing dir should not fail, got %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("expected %s to be a directory", dir)
	}
}
