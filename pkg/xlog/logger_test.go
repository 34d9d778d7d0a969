package xlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// swapConsole redirects console output to a buffer for the duration of a test.
func swapConsole(t *testing.T) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	oldStdout, oldStderr := stdout, stderr
	stdout, stderr = buf, buf
	t.Cleanup(func() {
		stdout, stderr = oldStdout, oldStderr
	})
	return buf
}

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{
			name:   "defaults",
			config: Config{},
		},
		{
			name: "text format",
			config: Config{
				Name:    "svc",
				Level:   "info",
				Format:  "text",
				Console: "stdout",
			},
		},
		{
			name: "json format",
			config: Config{
				Name:    "svc",
				Level:   "debug",
				Format:  "json",
				Console: "stderr",
			},
		},
		{
			name: "uppercase level",
			config: Config{
				Level: "DEBUG",
			},
		},
		{
			name: "uppercase format",
			config: Config{
				Format: "JSON",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.config)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			defer log.Close()
			if log == nil {
				t.Fatal("New() returned nil logger")
			}
			if log.Logger == nil {
				t.Error("Logger field is nil")
			}
		})
	}
}

func TestNewInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{
			name:   "unknown level",
			config: Config{Level: "verbose"},
		},
		{
			name:   "unknown format",
			config: Config{Format: "xml"},
		},
		{
			name:   "unknown console target",
			config: Config{Console: "syslog"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.config); err == nil {
				t.Error("New() should fail")
			}
		})
	}
}

func TestNewUnwritableFile(t *testing.T) {
	dir := t.TempDir()
	// a regular file where a directory is needed
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := New(Config{
		File: filepath.Join(blocker, "app.log"),
	})
	if err == nil {
		t.Error("New() should fail for an unwritable file path")
	}
}

func TestTextFormat(t *testing.T) {
	buf := swapConsole(t)

	log := MustNew(Config{
		Name:    "svc",
		Level:   "debug",
		Format:  "text",
		Console: "stdout",
	})

	log.Info("service started")
	log.Warn("low memory")

	// "<timestamp> - <name> - <LEVEL> - <message>"
	pattern := regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} - svc - (INFO|WARNING) - .+$`)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), buf.String())
	}
	for _, line := range lines {
		if !pattern.MatchString(line) {
			t.Errorf("line does not match text template: %q", line)
		}
	}
	if !strings.HasSuffix(lines[0], "service started") {
		t.Errorf("unexpected message in %q", lines[0])
	}
}

func TestTextFormatRootName(t *testing.T) {
	buf := swapConsole(t)

	log := MustNew(Config{Format: "text"})
	log.Info("hello")

	if !strings.Contains(buf.String(), " - root - INFO - hello") {
		t.Errorf("root logger should render as 'root':\n%s", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	buf := swapConsole(t)

	log := MustNew(Config{
		Name:    "svc",
		Level:   "debug",
		Format:  "json",
		Console: "stdout",
	})

	log.Info("started", "version", "1.0.0")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	for _, key := range []string{"timestamp", "level", "message", "module", "function", "line"} {
		if _, ok := record[key]; !ok {
			t.Errorf("missing required key %q in %v", key, record)
		}
	}

	if record["level"] != "INFO" {
		t.Errorf("expected level INFO, got %v", record["level"])
	}
	if record["message"] != "started" {
		t.Errorf("expected message 'started', got %v", record["message"])
	}
	if record["version"] != "1.0.0" {
		t.Errorf("extra field not passed through: %v", record)
	}
	if record["module"] != "logger_test" {
		t.Errorf("expected module 'logger_test', got %v", record["module"])
	}
	if line, ok := record["line"].(float64); !ok || line <= 0 {
		t.Errorf("expected positive line number, got %v", record["line"])
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := swapConsole(t)

	log := MustNew(Config{
		Level:   "warning",
		Format:  "text",
		Console: "stdout",
	})

	log.Debug("drop me")
	log.Info("drop me too")
	log.Warn("keep me")
	log.Error("keep me too")

	output := buf.String()
	if strings.Contains(output, "drop me") {
		t.Errorf("records below level should be dropped:\n%s", output)
	}
	if !strings.Contains(output, "keep me") {
		t.Errorf("records at or above level should be kept:\n%s", output)
	}
}

func TestCritical(t *testing.T) {
	buf := swapConsole(t)

	log := MustNew(Config{Format: "json", Console: "stdout"})
	log.Critical("disk failure", "disk", "sda")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if record["level"] != "CRITICAL" {
		t.Errorf("expected level CRITICAL, got %v", record["level"])
	}
	if record["function"] != "TestCritical" {
		t.Errorf("expected caller function TestCritical, got %v", record["function"])
	}
}

func TestCriticalContext(t *testing.T) {
	buf := swapConsole(t)

	log := MustNew(Config{Format: "json", Console: "stdout"})
	log.CriticalContext(context.Background(), "disk failure")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if record["level"] != "CRITICAL" {
		t.Errorf("expected level CRITICAL, got %v", record["level"])
	}
	if record["function"] != "TestCriticalContext" {
		t.Errorf("expected caller function TestCriticalContext, got %v", record["function"])
	}
}

func TestException(t *testing.T) {
	buf := swapConsole(t)

	log := MustNew(Config{Format: "json", Console: "stdout"})

	cause := errors.New("connection refused")
	err := fmt.Errorf("load user: %w", cause)
	log.Exception("request failed", err, "user_id", 42)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if record["level"] != "ERROR" {
		t.Errorf("expected level ERROR, got %v", record["level"])
	}
	exc, _ := record["exception"].(string)
	if !strings.Contains(exc, "load user") || !strings.Contains(exc, "caused by: connection refused") {
		t.Errorf("exception chain not captured: %q", exc)
	}
	if record["user_id"] != float64(42) {
		t.Errorf("extra field lost: %v", record)
	}
}

func TestErrorChain(t *testing.T) {
	if got := ErrorChain(nil); got != "" {
		t.Errorf("ErrorChain(nil) = %q, want empty", got)
	}

	inner := errors.New("inner")
	outer := fmt.Errorf("outer: %w", inner)
	got := ErrorChain(outer)
	want := "outer: inner\ncaused by: inner"
	if got != want {
		t.Errorf("ErrorChain() = %q, want %q", got, want)
	}
}

func TestWith(t *testing.T) {
	buf := swapConsole(t)

	log := MustNew(Config{Format: "json", Console: "stdout"})
	child := log.With("component", "cache", "version", "1.0")
	child.Info("test message")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if record["component"] != "cache" {
		t.Error("component field not found")
	}
	if record["version"] != "1.0" {
		t.Error("version field not found")
	}
}

func TestConsoleNone(t *testing.T) {
	buf := swapConsole(t)

	log := MustNew(Config{Console: "none"})
	log.Info("invisible")

	if buf.Len() != 0 {
		t.Errorf("console disabled but output written:\n%s", buf.String())
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log := MustNew(Config{
		Format:  "json",
		Console: "none",
		File:    path,
	})
	log.Info("to file")
	if err := log.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), `"message":"to file"`) {
		t.Errorf("record not written to file:\n%s", content)
	}
}

func TestConsoleAndFile(t *testing.T) {
	buf := swapConsole(t)
	path := filepath.Join(t.TempDir(), "app.log")

	log := MustNew(Config{
		Format:  "text",
		Console: "stdout",
		File:    path,
	})
	log.Info("both sinks")
	log.Close()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "both sinks") {
		t.Error("record missing from file")
	}
	if !strings.Contains(buf.String(), "both sinks") {
		t.Error("record missing from console")
	}
}

func TestMustNewPanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustNew() should panic with invalid config")
		}
	}()

	MustNew(Config{Level: "invalid"})
}

func TestCloseWithNil(t *testing.T) {
	var log *Logger
	// 应该不会 panic
	if err := log.Close(); err != nil {
		t.Errorf("Close() on nil Logger should return nil error, got: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"debug", false},
		{"INFO", false},
		{"warn", false},
		{"WARNING", false},
		{"error", false},
		{"critical", false},
		{"fatal", false},
		{"", false},
		{"trace", true},
		{"42", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnknownLevel) {
				t.Errorf("error should wrap ErrUnknownLevel, got %v", err)
			}
		})
	}
}

var _ io.Closer = (*Logger)(nil)
