//go:build unix

package window

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/wattfource/envdiag/internal/geometry"
)

// Terminal knows only what the tty reports: the size in cells and, for
// terminals that fill it in, the size in pixels
type Terminal struct {
	// Fd defaults to stdout
	Fd int
}

func (t *Terminal) Name() string { return "terminal" }

func (t *Terminal) fd() int {
	if t.Fd > 0 {
		return t.Fd
	}
	return int(os.Stdout.Fd())
}

// Geometry issues TIOCGWINSZ on the terminal
func (t *Terminal) Geometry(ctx context.Context) (geometry.Geometry, error) {
	ws, err := unix.IoctlGetWinsize(t.fd(), unix.TIOCGWINSZ)
	if err != nil {
		return geometry.Geometry{}, fmt.Errorf("TIOCGWINSZ: %w", err)
	}
	return fromWinsize(int(ws.Col), int(ws.Row), int(ws.Xpixel), int(ws.Ypixel)), nil
}

// Maximize is not something a tty can ask for
func (t *Terminal) Maximize(ctx context.Context) error {
	return ErrUnsupported
}
