package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRotatingWriterBasicWrite(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	w, err := NewRotatingFileWriter(logPath, 1024, 2)
	if err != nil {
		t.Fatalf("NewRotatingFileWriter failed: %v", err)
	}
	defer func() { _ = w.Close() }()

	line := []byte("hello log\n")
	n, err := w.Write(line)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n != len(line) {
		t.Errorf("Write returned %d, want %d", n, len(line))
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if string(data) != "hello log\n" {
		t.Errorf("File content = %q", string(data))
	}
}

func TestRotatingWriterRotates(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	w, err := NewRotatingFileWriter(logPath, 32, 2)
	if err != nil {
		t.Fatalf("NewRotatingFileWriter failed: %v", err)
	}
	defer func() { _ = w.Close() }()

	first := strings.Repeat("a", 30) + "\n"
	if _, err := w.Write([]byte(first)); err != nil {
		t.Fatalf("First write failed: %v", err)
	}
	// This write exceeds maxSize, forcing rotation
	if _, err := w.Write([]byte("bbbb\n")); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	backup, err := os.ReadFile(logPath + ".1")
	if err != nil {
		t.Fatalf("Backup file missing: %v", err)
	}
	if string(backup) != first {
		t.Errorf("Backup content = %q, want first write", string(backup))
	}

	current, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read current file: %v", err)
	}
	if string(current) != "bbbb\n" {
		t.Errorf("Current content = %q, want second write", string(current))
	}
}

func TestRotatingWriterDropsOldestBackup(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	w, err := NewRotatingFileWriter(logPath, 8, 2)
	if err != nil {
		t.Fatalf("NewRotatingFileWriter failed: %v", err)
	}
	defer func() { _ = w.Close() }()

	// Each write rotates; four writes mean two rotated files survive
	// and the first is gone.
	for _, chunk := range []string{"11111111", "22222222", "33333333", "44444444"} {
		if _, err := w.Write([]byte(chunk)); err != nil {
			t.Fatalf("Write %q failed: %v", chunk, err)
		}
	}

	if _, err := os.Stat(logPath + ".3"); !os.IsNotExist(err) {
		t.Error("Backup beyond maxBackups should not exist")
	}
	if _, err := os.Stat(logPath + ".1"); err != nil {
		t.Errorf("Most recent backup missing: %v", err)
	}
	if _, err := os.Stat(logPath + ".2"); err != nil {
		t.Errorf("Second backup missing: %v", err)
	}
}

func TestRotatingWriterResumesExistingFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	if err := os.WriteFile(logPath, []byte("existing\n"), 0600); err != nil {
		t.Fatalf("Failed to seed log file: %v", err)
	}

	w, err := NewRotatingFileWriter(logPath, 1024, 1)
	if err != nil {
		t.Fatalf("NewRotatingFileWriter failed: %v", err)
	}
	defer func() { _ = w.Close() }()

	if _, err := w.Write([]byte("appended\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if string(data) != "existing\nappended\n" {
		t.Errorf("File content = %q", string(data))
	}
}

func TestRotatingWriterImplementsWriteCloser(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	w, err := NewRotatingFileWriter(logPath, 64, 1)
	if err != nil {
		t.Fatalf("NewRotatingFileWriter failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
