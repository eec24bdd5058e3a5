package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{in: "debug", want: zapcore.DebugLevel},
		{in: "INFO", want: zapcore.InfoLevel},
		{in: "warning", want: zapcore.WarnLevel},
		{in: " error ", want: zapcore.ErrorLevel},
		{in: "", want: zapcore.InfoLevel},
		{in: "verbose", want: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_WritesJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bizdoc.log")
	l, err := New(Config{Level: "warn", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Info("dropped")
	l.Warn("kept")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("log output %q is not a single JSON entry: %v", data, err)
	}
	if entry["msg"] != "kept" || entry["level"] != "warn" {
		t.Errorf("entry = %v, want the warn entry only", entry)
	}
}
