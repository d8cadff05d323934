package sysinfo

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// fakeRunner answers commands from a table keyed by the joined command line
type fakeRunner struct {
	out   map[string][]string
	errs  map[string]error
	calls []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]string, error) {
	line := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, line)
	if err, ok := f.errs[line]; ok {
		return f.out[line], err
	}
	if out, ok := f.out[line]; ok {
		return out, nil
	}
	return nil, fmt.Errorf("%s: %w", name, errNotFound)
}

var errNotFound = errors.New("executable file not found")

// exitErr mimics *exec.ExitError
type exitErr int

func (e exitErr) Error() string { return fmt.Sprintf("exit status %d", int(e)) }
func (e exitErr) ExitCode() int { return int(e) }
