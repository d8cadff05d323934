package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tc.in, got, err)
		}
	}
}

func TestPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Output: &buf, Level: LevelInfo})

	l.WithComponent("tui").WithFields(map[string]any{"rows": 24, "cols": 80}).Info("resized")
	l.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, "[INFO] [tui] resized cols=80 rows=24") {
		t.Errorf("unexpected line: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Output: &buf, JSONMode: true, Component: "report"})
	l.WithField("section", "screens").Errorf("enumerate: %s", "no display")

	var e Entry
	if err := json.Unmarshal(buf.Bytes(), &e); err != nil {
		t.Fatalf("not JSON: %v: %q", err, buf.String())
	}
	if e.Level != "ERROR" || e.Component != "report" || e.Message != "enumerate: no display" {
		t.Errorf("entry = %+v", e)
	}
	if e.Fields["section"] != "screens" {
		t.Errorf("fields = %v", e.Fields)
	}
	if e.Caller == "" {
		t.Error("error lines should carry the caller")
	}
}

func TestFileRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "envdiag.log")
	l, err := New(Config{FilePath: path, MaxBackups: 2})
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	l.sink.maxSize = 64

	for i := 0; i < 10; i++ {
		l.Info("a line long enough to push the file over the limit")
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("current log missing: %v", err)
	}
	backups := Backups(path)
	if len(backups) != 2 {
		t.Fatalf("backups = %v; want 2", backups)
	}
	if l.LogPath() != path {
		t.Errorf("LogPath() = %q", l.LogPath())
	}
}

func TestUnwritableFileDiscards(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	l, err := New(Config{FilePath: filepath.Join(blocker, "envdiag.log")})
	if err == nil {
		t.Fatal("expected an open error")
	}
	if l == nil {
		t.Fatal("logger should stay usable")
	}
	if l.sink.output != io.Discard {
		t.Errorf("output = %T; want io.Discard so nothing reaches the terminal", l.sink.output)
	}
	l.Error("still safe to call")
}

func TestDefaultDiscardsBeforeInit(t *testing.T) {
	// must not panic or write to the terminal
	Default().Info("before init")
}
