package sysinfo

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds every subprocess started by ExecRunner
const DefaultTimeout = 3 * time.Second

// Runner runs a command to completion and returns its stdout line by line
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]string, error)
}

// ExecRunner runs real processes
type ExecRunner struct {
	Timeout time.Duration
}

// Run starts name with args and reads its output to completion.
// Lines read before a failure are returned together with the error.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) ([]string, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	lines := splitLines(out)
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return lines, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return lines, fmt.Errorf("%s: %w", name, err)
	}
	return lines, nil
}

func splitLines(out []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

// exitCode reports the exit status carried by err, if any
func exitCode(err error) (int, bool) {
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode(), true
	}
	return 0, false
}
