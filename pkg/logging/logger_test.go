package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func decodeEntries(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()

	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("Failed to unmarshal log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"DEBUG", DebugLevel, false},
		{"debug", DebugLevel, false},
		{"Info", InfoLevel, false},
		{"", InfoLevel, false},
		{"warn", WarnLevel, false},
		{"WARNING", WarnLevel, false},
		{" error ", ErrorLevel, false},
		{"verbose", InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFieldConstructors(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"RunID", RunID("abc"), "run_id", "abc"},
		{"Depth", Depth(3), "level", 3},
		{"Communities", Communities(7), "communities", 7},
		{"Quality", Quality(0.25), "quality", 0.25},
		{"Seed", Seed(42), "seed", int64(42)},
		{"Nodes", Nodes(10), "nodes", 10},
		{"Edges", Edges(12), "edges", 12},
		{"Duration", Duration("timeout", 5*time.Second), "timeout", "5s"},
		{"Error", Error(errors.New("boom")), "error", "boom"},
		{"ErrorNil", Error(nil), "error", nil},
		{"Component", Component("optimizer"), "component", "optimizer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key || tt.field.Value != tt.value {
				t.Errorf("%s = %+v, want {Key:%v Value:%v}", tt.name, tt.field, tt.key, tt.value)
			}
		})
	}
}

func TestJSONLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)
	logger.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	logger.Info("level complete", Depth(1), Communities(4))

	entries := decodeEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]

	if entry.Level != "INFO" {
		t.Errorf("Level = %v, want INFO", entry.Level)
	}
	if entry.Message != "level complete" {
		t.Errorf("Message = %v, want 'level complete'", entry.Message)
	}
	if entry.Fields["communities"] != float64(4) { // JSON numbers decode as float64
		t.Errorf("Fields[communities] = %v, want 4", entry.Fields["communities"])
	}
	if entry.Time != "2024-05-01T12:00:00Z" {
		t.Errorf("Time = %q", entry.Time)
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	entries := decodeEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 log entries, got %d", len(entries))
	}
	if entries[0].Level != "WARN" || entries[1].Level != "ERROR" {
		t.Errorf("Levels = %s, %s, want WARN, ERROR", entries[0].Level, entries[1].Level)
	}

	if logger.Enabled(InfoLevel) {
		t.Error("Enabled(InfoLevel) = true for a WARN logger")
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(RunID("run-1"), Component("dendrogram"))
	child.Info("started", Component("optimizer"))
	logger.Info("parent")

	entries := decodeEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Fields["run_id"] != "run-1" {
		t.Errorf("run_id = %v, want run-1", entries[0].Fields["run_id"])
	}
	if entries[0].Fields["component"] != "optimizer" {
		t.Errorf("call-site field should override preset, got %v", entries[0].Fields["component"])
	}
	if entries[1].Fields != nil {
		t.Errorf("parent logger picked up child fields: %v", entries[1].Fields)
	}
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	op := StartTimer(logger, "detect", RunID("r"))
	op.End(Communities(2))

	op = StartTimer(logger, "detect", RunID("r"))
	op.EndError(errors.New("degenerate"))

	entries := decodeEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if _, ok := entries[0].Fields["latency"]; !ok {
		t.Error("End() did not record latency")
	}
	if entries[0].Fields["communities"] != float64(2) {
		t.Errorf("End() fields = %v", entries[0].Fields)
	}
	if entries[1].Level != "ERROR" || entries[1].Fields["error"] != "degenerate" {
		t.Errorf("EndError() entry = %+v", entries[1])
	}
}

func TestNopLogger(t *testing.T) {
	var logger Logger = NewNopLogger()
	logger.With(RunID("x")).Info("ignored")
	if logger.Enabled(ErrorLevel) {
		t.Error("NopLogger should never be enabled")
	}
	if OrNop(nil) == nil {
		t.Error("OrNop(nil) returned nil")
	}
}
