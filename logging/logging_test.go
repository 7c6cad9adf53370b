package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRotatingWriter_RotatesPastMaxSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.log")
	w, err := OpenRotating(path, 16)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer w.Close()

	if _, err := w.Write([]byte("first line of log\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := w.Write([]byte("second\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	backup, err := os.ReadFile(path + ".1")
	if err != nil {
		t.Fatalf("expected backup file: %v", err)
	}
	if string(backup) != "first line of log\n" {
		t.Fatalf("unexpected backup contents %q", backup)
	}
	current, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read current: %v", err)
	}
	if string(current) != "second\n" {
		t.Fatalf("unexpected current contents %q", current)
	}
}

func TestRotatingWriter_ReportsFailedRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.log")
	if err := os.Mkdir(path+".1", 0755); err != nil {
		t.Fatalf("seed backup dir: %v", err)
	}
	w, err := OpenRotating(path, 8)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer w.Close()

	n, err := w.Write([]byte("too long for one file\n"))
	if err == nil {
		t.Fatalf("expected rotation error")
	}
	if n != 22 {
		t.Fatalf("expected the line to be written before rotating, got %d bytes", n)
	}
	if _, err := w.Write([]byte("next\n")); err == nil {
		t.Fatalf("expected rotation to keep failing while the backup is blocked")
	}

	current, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read current: %v", err)
	}
	if string(current) != "too long for one file\nnext\n" {
		t.Fatalf("writes should stay in the current file, got %q", current)
	}
}

func TestOpenRotating_TruncatesOversizedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.log")
	if err := os.WriteFile(path, bytes.Repeat([]byte("x"), 64), 0644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	w, err := OpenRotating(path, 32)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer w.Close()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("expected truncated file, got %d bytes", info.Size())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewHandler_LevelAndNoColor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, slog.LevelWarn, true))

	logger.Info("hidden")
	logger.Warn("export finished", "city", "Orlando")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "export finished") || !strings.Contains(out, "city=Orlando") {
		t.Fatalf("missing warn line: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no ANSI codes: %q", out)
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) != slog.Default() {
		t.Fatalf("expected default logger without a scoped one")
	}
	scoped := slog.New(NewHandler(&bytes.Buffer{}, slog.LevelInfo, true))
	ctx := WithLogger(context.Background(), scoped)
	if FromContext(ctx) != scoped {
		t.Fatalf("expected scoped logger")
	}
}
