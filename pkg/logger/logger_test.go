package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_JSONIncludesServiceAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{
		Level:   INFO,
		Format:  JSON,
		Output:  &buf,
		Service: "contacts",
	})

	log.Info("contact created", "id", "abc", "scope", "user")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "contact created" {
		t.Errorf("msg = %v, want %q", entry["msg"], "contact created")
	}
	if entry[SERVICE] != "contacts" {
		t.Errorf("service = %v, want %q", entry[SERVICE], "contacts")
	}
	if entry["id"] != "abc" || entry["scope"] != "user" {
		t.Errorf("expected key/value fields in entry, got %v", entry)
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		logFn   func(l *Logger)
		wantOut bool
	}{
		{"debug dropped at info", INFO, func(l *Logger) { l.Debug("x") }, false},
		{"info kept at info", INFO, func(l *Logger) { l.Info("x") }, true},
		{"info dropped at warn", WARN, func(l *Logger) { l.Info("x") }, false},
		{"error kept at warn", WARN, func(l *Logger) { l.Error("x") }, true},
		{"unknown level falls back to info", "verbose", func(l *Logger) { l.Info("x") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(Config{Level: tt.level, Output: &buf})
			tt.logFn(l)
			if got := buf.Len() > 0; got != tt.wantOut {
				t.Errorf("output written = %v, want %v (%q)", got, tt.wantOut, buf.String())
			}
		})
	}
}

func TestWith_CarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf}).With("request_id", "r-1")
	l.Warn("slow")

	if !strings.Contains(buf.String(), `"request_id":"r-1"`) {
		t.Errorf("expected request_id in output, got %q", buf.String())
	}
}
