// Package config handles envdiag settings
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds envdiag settings
type Config struct {
	Shell          string        // shell used for the env grep and DMI probe
	ExtraVars      []string      // printed after the built-in variable list
	CommandTimeout time.Duration // per subprocess
	LogLevel       string        // debug, info, warn, error
	LogFile        string        // empty means the default cache path
	LogJSON        bool          // JSON lines instead of plain text
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Shell:          "bash",
		CommandTimeout: 3 * time.Second,
		LogLevel:       "info",
	}
}

// Path returns the config file location
func Path() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "envdiag", "config")
}

// Load reads the config file at path and applies ENVDIAG_* environment
// overrides. An empty path means Path(). A missing file is not an error.
func Load(path string, getenv func(string) string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := Default()

	values, err := godotenv.Read(path)
	switch {
	case err == nil:
		for _, key := range keys {
			v, ok := values[key]
			if !ok {
				continue
			}
			if err := set(cfg, key, v); err != nil {
				return nil, fmt.Errorf("%s: %s: %w", path, key, err)
			}
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if getenv != nil {
		for _, key := range keys {
			if v := getenv(key); v != "" {
				if err := set(cfg, key, v); err != nil {
					return nil, fmt.Errorf("environment %s: %w", key, err)
				}
			}
		}
	}
	return cfg, nil
}

var keys = []string{
	"ENVDIAG_SHELL",
	"ENVDIAG_EXTRA_VARS",
	"ENVDIAG_COMMAND_TIMEOUT",
	"ENVDIAG_LOG_LEVEL",
	"ENVDIAG_LOG_FILE",
	"ENVDIAG_LOG_JSON",
}

func set(cfg *Config, key, value string) error {
	switch key {
	case "ENVDIAG_SHELL":
		cfg.Shell = value
	case "ENVDIAG_EXTRA_VARS":
		cfg.ExtraVars = nil
		for _, v := range strings.Split(value, ",") {
			if v = strings.TrimSpace(v); v != "" {
				cfg.ExtraVars = append(cfg.ExtraVars, v)
			}
		}
	case "ENVDIAG_COMMAND_TIMEOUT":
		d, err := parseTimeout(value)
		if err != nil {
			return err
		}
		cfg.CommandTimeout = d
	case "ENVDIAG_LOG_LEVEL":
		cfg.LogLevel = value
	case "ENVDIAG_LOG_FILE":
		cfg.LogFile = value
	case "ENVDIAG_LOG_JSON":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		cfg.LogJSON = b
	}
	return nil
}

// parseTimeout accepts plain seconds ("5") or a Go duration ("750ms")
func parseTimeout(value string) (time.Duration, error) {
	if secs, err := strconv.Atoi(value); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("command timeout must be positive, got %d", secs)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid command timeout %q", value)
	}
	if d <= 0 {
		return 0, fmt.Errorf("command timeout must be positive, got %s", d)
	}
	return d, nil
}
