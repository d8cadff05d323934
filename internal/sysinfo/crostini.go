package sysinfo

import (
	"context"
	"fmt"
	"strings"
)

const productNameScript = "grep -i chrome /sys/devices/virtual/dmi/id/product_name 2>/dev/null || echo 'Not found'"

// Crostini is the outcome of the ChromeOS Linux container heuristic
type Crostini struct {
	KernelVersion string `json:"kernel_version" yaml:"kernel_version"`
	Likely        bool   `json:"likely" yaml:"likely"`
	Hardware      string `json:"hardware" yaml:"hardware"`
}

// DetectCrostini guesses whether the process runs in the ChromeOS Linux
// container. The kernel banner of Crostini mentions chrome; the DMI product
// name is printed as a second hint.
func DetectCrostini(ctx context.Context, r Runner, shell string) (Crostini, error) {
	var c Crostini

	lines, err := r.Run(ctx, "cat", "/proc/version")
	if err != nil {
		return c, fmt.Errorf("read kernel version: %w", err)
	}
	if len(lines) > 0 {
		c.KernelVersion = lines[0]
	}
	c.Likely = strings.Contains(strings.ToLower(c.KernelVersion), "chrome")

	if shell == "" {
		shell = "bash"
	}
	lines, err = r.Run(ctx, shell, "-c", productNameScript)
	if err != nil {
		return c, fmt.Errorf("read product name: %w", err)
	}
	if len(lines) > 0 {
		c.Hardware = lines[0]
	}
	return c, nil
}
