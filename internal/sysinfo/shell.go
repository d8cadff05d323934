package sysinfo

import (
	"context"
	"fmt"
)

// DesktopGrep is the shell pipeline listing desktop related variables
const DesktopGrep = "env | grep -E 'XDG_|DESKTOP|GNOME|KDE|WAYLAND'"

// ShellDesktopEnv asks a login-less shell for its desktop variables.
// The shell sees the variables as exported to children, which can differ
// from what this process reads directly.
func ShellDesktopEnv(ctx context.Context, r Runner, shell string) ([]string, error) {
	if shell == "" {
		shell = "bash"
	}
	lines, err := r.Run(ctx, shell, "-c", DesktopGrep)
	if err != nil {
		// grep exits 1 when nothing matched
		if code, ok := exitCode(err); ok && code == 1 && len(lines) == 0 {
			return nil, nil
		}
		return lines, fmt.Errorf("shell desktop env: %w", err)
	}
	return lines, nil
}
