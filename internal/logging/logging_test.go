package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRotatingFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	w, err := rotatingFile(dir)
	if err != nil {
		t.Fatalf("rotatingFile failed: %v", err)
	}
	defer w.Close()

	if w.Filename != filepath.Join(dir, logFileName) {
		t.Errorf("Expected log file in %s, got %s", dir, w.Filename)
	}
	if _, err := os.Stat(filepath.Join(dir, ".write-test")); !os.IsNotExist(err) {
		t.Error("Expected the write probe to be removed")
	}

	if _, err := w.Write([]byte("hello\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := os.Stat(w.Filename); err != nil {
		t.Errorf("Expected log file to exist: %v", err)
	}
}

func TestRotatingFile_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := rotatingFile(file); err == nil {
		t.Error("Expected an error when the log path is a file")
	}
}
