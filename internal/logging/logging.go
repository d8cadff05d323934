// Package logging provides the leveled file logger for envdiag.
// The TUI owns the terminal, so log lines go to a rotating file and never
// to the screen.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents log severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps debug|info|warn|error to a Level
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Entry is a single log line
type Entry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Component string         `json:"component,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
	Caller    string         `json:"caller,omitempty"`
}

// sink is the destination shared by a logger and all loggers derived from it
type sink struct {
	mu         sync.Mutex
	output     io.Writer
	file       *os.File
	filePath   string
	maxSize    int64
	maxBackups int
}

// Logger writes leveled, structured lines
type Logger struct {
	sink      *sink
	level     Level
	component string
	fields    map[string]any
	jsonMode  bool
}

// Config holds logger configuration
type Config struct {
	Level      Level
	FilePath   string    // empty means Output
	Output     io.Writer // used when FilePath is empty, defaults to stderr
	MaxSizeMB  int       // rotate when the file grows past this, default 5
	MaxBackups int       // rotated files kept, default 3
	JSONMode   bool
	Component  string
}

// DefaultPath is the log file under the user cache directory
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".cache")
	}
	return filepath.Join(dir, "envdiag", "envdiag.log")
}

// DefaultConfig returns the file logger used by the CLI
func DefaultConfig() Config {
	return Config{
		Level:      LevelInfo,
		FilePath:   DefaultPath(),
		MaxSizeMB:  5,
		MaxBackups: 3,
		Component:  "envdiag",
	}
}

var (
	defaultLogger *Logger
	defaultMu     sync.Mutex
)

// Init replaces the default logger. An error from New still installs the
// discarding logger it returned.
func Init(cfg Config) error {
	l, err := New(cfg)
	if l == nil {
		return err
	}
	defaultMu.Lock()
	old := defaultLogger
	defaultLogger = l
	defaultMu.Unlock()
	if old != nil {
		old.Close()
	}
	return err
}

// Default returns the default logger. Before Init it discards everything.
func Default() *Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger, _ = New(Config{Output: io.Discard})
	}
	return defaultLogger
}

// New creates a logger. When the file cannot be opened the logger still
// works but discards its output, since stderr belongs to the TUI, and the
// open error is returned alongside it.
func New(cfg Config) (*Logger, error) {
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 5
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 3
	}

	s := &sink{
		filePath:   cfg.FilePath,
		maxSize:    int64(cfg.MaxSizeMB) * 1024 * 1024,
		maxBackups: cfg.MaxBackups,
		output:     cfg.Output,
	}
	if s.output == nil {
		s.output = os.Stderr
	}
	var openErr error
	if cfg.FilePath != "" {
		if openErr = s.openFile(); openErr != nil {
			s.output = io.Discard
		}
	}

	l := &Logger{
		sink:      s,
		level:     cfg.Level,
		component: cfg.Component,
		jsonMode:  cfg.JSONMode,
		fields:    map[string]any{},
	}
	if openErr != nil {
		return l, fmt.Errorf("open log file: %w", openErr)
	}
	return l, nil
}

func (s *sink) openFile() error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(s.filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	s.file = f
	s.output = f
	return nil
}

// Close closes the log file, if any
func (l *Logger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	if l.sink.file != nil {
		err := l.sink.file.Close()
		l.sink.file = nil
		l.sink.output = io.Discard
		return err
	}
	return nil
}

// LogPath returns the path of the log file, empty when logging to a writer
func (l *Logger) LogPath() string {
	return l.sink.filePath
}

func (l *Logger) derive(component string, extra map[string]any) *Logger {
	fields := make(map[string]any, len(l.fields)+len(extra))
	for k, v := range l.fields {
		fields[k] = v
	}
	for k, v := range extra {
		fields[k] = v
	}
	return &Logger{
		sink:      l.sink,
		level:     l.level,
		component: component,
		fields:    fields,
		jsonMode:  l.jsonMode,
	}
}

// WithComponent returns a logger tagged with component
func (l *Logger) WithComponent(component string) *Logger {
	return l.derive(component, nil)
}

// WithField returns a logger carrying key=value on every line
func (l *Logger) WithField(key string, value any) *Logger {
	return l.derive(l.component, map[string]any{key: value})
}

// WithFields returns a logger carrying all fields on every line
func (l *Logger) WithFields(fields map[string]any) *Logger {
	return l.derive(l.component, fields)
}

func (l *Logger) Debug(msg string) { l.log(LevelDebug, msg) }
func (l *Logger) Info(msg string)  { l.log(LevelInfo, msg) }
func (l *Logger) Warn(msg string)  { l.log(LevelWarn, msg) }
func (l *Logger) Error(msg string) { l.log(LevelError, msg) }

func (l *Logger) Debugf(format string, args ...any) { l.log(LevelDebug, fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...any)  { l.log(LevelInfo, fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...any)  { l.log(LevelWarn, fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...any) { l.log(LevelError, fmt.Sprintf(format, args...)) }

func (l *Logger) log(level Level, msg string) {
	if level < l.level {
		return
	}

	entry := Entry{
		Timestamp: time.Now().UTC(),
		Level:     level.String(),
		Message:   msg,
		Component: l.component,
	}
	if len(l.fields) > 0 {
		entry.Fields = l.fields
	}
	// Caller is only worth the cost on debug and error lines
	if level == LevelDebug || level == LevelError {
		if _, file, line, ok := runtime.Caller(2); ok {
			entry.Caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
		}
	}

	var line string
	if l.jsonMode {
		data, _ := json.Marshal(entry)
		line = string(data)
	} else {
		line = formatPlain(entry)
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.rotateIfNeeded()
	fmt.Fprintln(l.sink.output, line)
}

func formatPlain(e Entry) string {
	var b strings.Builder
	b.WriteString("[" + e.Timestamp.Format("2006-01-02 15:04:05") + "] [" + e.Level + "]")
	if e.Component != "" {
		b.WriteString(" [" + e.Component + "]")
	}
	b.WriteString(" " + e.Message)

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Fields[k])
	}
	if e.Caller != "" {
		b.WriteString(" (" + e.Caller + ")")
	}
	return b.String()
}

// rotateIfNeeded shifts envdiag.log to envdiag.log.1 and so on, dropping
// files past maxBackups. Caller holds s.mu.
func (s *sink) rotateIfNeeded() {
	if s.file == nil || s.maxSize <= 0 {
		return
	}
	stat, err := s.file.Stat()
	if err != nil || stat.Size() < s.maxSize {
		return
	}

	s.file.Close()
	s.file = nil
	os.Remove(fmt.Sprintf("%s.%d", s.filePath, s.maxBackups))
	for i := s.maxBackups - 1; i >= 1; i-- {
		os.Rename(fmt.Sprintf("%s.%d", s.filePath, i), fmt.Sprintf("%s.%d", s.filePath, i+1))
	}
	os.Rename(s.filePath, s.filePath+".1")

	if err := s.openFile(); err != nil {
		s.output = io.Discard
	}
}

// Backups lists the rotated files that exist for path, newest first
func Backups(path string) []string {
	var out []string
	for i := 1; ; i++ {
		p := fmt.Sprintf("%s.%d", path, i)
		if _, err := os.Stat(p); err != nil {
			return out
		}
		out = append(out, p)
	}
}

// WithComponent returns a default logger tagged with component
func WithComponent(component string) *Logger {
	return Default().WithComponent(component)
}
