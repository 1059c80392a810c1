package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bd2mods/internal/config"
	"bd2mods/internal/logging"
	"bd2mods/internal/services"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	var console bytes.Buffer
	logger, err := logging.NewFromConfig(&cfg, &console)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("catalog synced", logging.Int("characters", 3))
	if !strings.Contains(console.String(), "catalog synced") {
		t.Fatalf("console writer missed the record: %q", console.String())
	}

	content, err := os.ReadFile(cfg.LogFilePath())
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &record); err != nil {
		t.Fatalf("log file is not JSON lines: %v (%q)", err, content)
	}
	if record["msg"] != "catalog synced" || record["level"] != "info" {
		t.Fatalf("unexpected record: %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", record)
	}
}

func TestConsoleLoggerFormatsComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.NewComponentLogger(logger, "scan").Info("rescan complete",
		logging.Int("scanned_dirs", 4),
		logging.String("root", "/mods library"),
	)

	line := buf.String()
	for _, want := range []string{" INFO scan: rescan complete", "scanned_dirs=4", `root="/mods library"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", line)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("selector set chosen")
	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Fatalf("expected caller in debug output, got %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "loud", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithRunID(context.Background(), "run-1")
	ctx = services.WithOperation(ctx, "scrape")
	ctx = services.WithSource(ctx, "https://example.test/costumes")
	logging.WithContext(ctx, logger).Info("fetched")

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record[logging.FieldRunID] != "run-1" {
		t.Fatalf("expected run id, got %v", record)
	}
	if record[logging.FieldOperation] != "scrape" {
		t.Fatalf("expected operation, got %v", record)
	}
	if record[logging.FieldSource] != "https://example.test/costumes" {
		t.Fatalf("expected source, got %v", record)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "entry unreadable", "scan_entry_failed",
		logging.Error(errors.New("permission denied")),
		logging.String(logging.FieldImpact, "mod skipped"),
	)

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record[logging.FieldEventType] != "scan_entry_failed" {
		t.Fatalf("unexpected event type: %v", record)
	}
	if record[logging.FieldImpact] != "mod skipped" {
		t.Fatalf("explicit impact should be kept: %v", record)
	}
	if record[logging.FieldErrorHint] == nil {
		t.Fatalf("expected default error hint: %v", record)
	}
}

func TestTeeHandlerDuplicatesRecords(t *testing.T) {
	var first, second bytes.Buffer
	a, _ := logging.New(logging.Options{Format: "console", Writer: &first})
	b, _ := logging.New(logging.Options{Format: "json", Level: "warn", Writer: &second})
	tee := logging.TeeHandler(a.Handler(), b.Handler())
	teeLogger := logging.NewComponentLogger(slog.New(tee), "catalog")
	teeLogger.Info("info only")
	teeLogger.Warn("both")

	if !strings.Contains(first.String(), "info only") || !strings.Contains(first.String(), "both") {
		t.Fatalf("console handler missed records: %q", first.String())
	}
	if strings.Contains(second.String(), "info only") || !strings.Contains(second.String(), "both") {
		t.Fatalf("json handler level filtering broken: %q", second.String())
	}
	if !strings.Contains(second.String(), `"component":"catalog"`) {
		t.Fatalf("expected component attr in json copy: %q", second.String())
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "bd2mods-2024.log")
	active := filepath.Join(dir, "bd2mods.log")
	fresh := filepath.Join(dir, "bd2mods-recent.log")
	other := filepath.Join(dir, "notes.txt")
	for _, path := range []string{old, active, fresh, other} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	past := time.Now().AddDate(0, 0, -40)
	for _, path := range []string{old, active, other} {
		if err := os.Chtimes(path, past, past); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}

	removed := logging.CleanupOldLogs(logging.NewNop(), 30, logging.RetentionTarget{
		Dir:     dir,
		Pattern: "bd2mods*.log",
		Exclude: []string{active},
	})
	if removed != 1 {
		t.Fatalf("expected one removal, got %d", removed)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatalf("expected old log removed, err=%v", err)
	}
	for _, path := range []string{active, fresh, other} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s kept: %v", path, err)
		}
	}
	if got := logging.CleanupOldLogs(logging.NewNop(), 0, logging.RetentionTarget{Dir: dir}); got != 0 {
		t.Fatalf("retention 0 should disable pruning, removed %d", got)
	}
}
