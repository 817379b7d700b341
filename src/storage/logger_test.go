package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoggerWritesEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := NewLogger(path)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.now = func() time.Time { return time.Date(2022, 3, 1, 8, 30, 0, 0, time.UTC) }

	logger.Info("cache miss")
	logger.Warning("dropped 3 rows")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	want := "[2022-03-01 08:30:00] INFO: cache miss\n[2022-03-01 08:30:00] WARNING: dropped 3 rows\n"
	if string(b) != want {
		t.Fatalf("log = %q, want %q", b, want)
	}
}

func TestNilLoggerIsNoop(t *testing.T) {
	var logger *Logger
	logger.Info("ignored")
	if err := logger.CheckRotate("1"); err != nil {
		t.Fatalf("CheckRotate on nil: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close on nil: %v", err)
	}
}

func TestCheckRotate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	logger, err := NewLogger(path)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer logger.Close()
	logger.now = func() time.Time { return time.Date(2022, 3, 1, 8, 30, 0, 0, time.UTC) }

	logger.Info(strings.Repeat("x", 64))
	if err := logger.CheckRotate("2 * 16"); err != nil {
		t.Fatalf("CheckRotate: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "app.20220301083000.log")); err != nil {
		t.Fatalf("rotated file missing: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("new log missing: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("new log size = %d", info.Size())
	}
}

func TestReopen(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(filepath.Join(dir, "a.log"))
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer logger.Close()

	next := filepath.Join(dir, "b.log")
	if err := logger.Reopen(next); err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	logger.Error("after reopen")

	b, err := os.ReadFile(next)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "ERROR: after reopen") {
		t.Fatalf("reopened log = %q", b)
	}
}

func TestParseSize(t *testing.T) {
	cases := map[string]int64{
		"10 * 1024 * 1024": 10 * 1024 * 1024,
		"512":              512,
		"":                 0,
		"ten":              0,
	}
	for in, want := range cases {
		if got := ParseSize(in); got != want {
			t.Errorf("ParseSize(%q) = %d, want %d", in, got, want)
		}
	}
}
