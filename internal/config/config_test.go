package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("cfg = %+v; want defaults", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `# envdiag
ENVDIAG_SHELL=/bin/zsh
ENVDIAG_EXTRA_VARS="XCURSOR_SIZE, SDL_VIDEODRIVER,,"
export ENVDIAG_COMMAND_TIMEOUT=750ms
ENVDIAG_LOG_FILE='/tmp/envdiag test.log'
ENVDIAG_UNKNOWN=1
`)
	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Shell != "/bin/zsh" {
		t.Errorf("Shell = %q", cfg.Shell)
	}
	if want := []string{"XCURSOR_SIZE", "SDL_VIDEODRIVER"}; !reflect.DeepEqual(cfg.ExtraVars, want) {
		t.Errorf("ExtraVars = %v; want %v", cfg.ExtraVars, want)
	}
	if cfg.CommandTimeout != 750*time.Millisecond {
		t.Errorf("CommandTimeout = %v", cfg.CommandTimeout)
	}
	if cfg.LogFile != "/tmp/envdiag test.log" {
		t.Errorf("LogFile = %q", cfg.LogFile)
	}
}

func TestMismatchedQuotesRejected(t *testing.T) {
	path := writeConfig(t, "ENVDIAG_SHELL=\"/bin/zsh'\n")
	if _, err := Load(path, nil); err == nil {
		t.Fatal("unterminated quote accepted")
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "ENVDIAG_SHELL=sh\nENVDIAG_LOG_LEVEL=warn\n")
	env := map[string]string{
		"ENVDIAG_SHELL":           "bash",
		"ENVDIAG_COMMAND_TIMEOUT": "10",
	}
	cfg, err := Load(path, func(k string) string { return env[k] })
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogJSON {
		t.Error("LogJSON should default to false")
	}
	if cfg.Shell != "bash" || cfg.LogLevel != "warn" || cfg.CommandTimeout != 10*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestInvalidTimeout(t *testing.T) {
	path := writeConfig(t, "ENVDIAG_COMMAND_TIMEOUT=soon\n")
	_, err := Load(path, nil)
	if err == nil || !strings.Contains(err.Error(), "ENVDIAG_COMMAND_TIMEOUT") {
		t.Fatalf("err = %v; want error naming the key", err)
	}
	if _, err := parseTimeout("0"); err == nil {
		t.Error("zero timeout accepted")
	}
}

func TestLogJSON(t *testing.T) {
	path := writeConfig(t, "ENVDIAG_LOG_JSON=true\n")
	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.LogJSON {
		t.Error("ENVDIAG_LOG_JSON=true not applied")
	}

	cfg, err = Load(path, func(k string) string {
		if k == "ENVDIAG_LOG_JSON" {
			return "0"
		}
		return ""
	})
	if err != nil || cfg.LogJSON {
		t.Errorf("environment override: LogJSON = %v, err = %v", cfg != nil && cfg.LogJSON, err)
	}

	if _, err := Load(writeConfig(t, "ENVDIAG_LOG_JSON=sometimes\n"), nil); err == nil {
		t.Error("invalid boolean accepted")
	}
}
