// Package window finds the window hosting envdiag and asks the window
// manager to maximize it.
package window

import (
	"context"
	"errors"
	"strconv"

	"github.com/wattfource/envdiag/internal/geometry"
	"github.com/wattfource/envdiag/internal/sysinfo"
)

// ErrUnsupported is returned by locators that cannot perform an operation
var ErrUnsupported = errors.New("not supported by this window system")

// Locator reads and changes the state of the hosting window
type Locator interface {
	Name() string
	Geometry(ctx context.Context) (geometry.Geometry, error)
	Maximize(ctx context.Context) error
}

// Detect picks a locator for the running session: Hyprland first, then
// X11 when the terminal exports WINDOWID, else the terminal itself.
func Detect(env sysinfo.Env, r sysinfo.Runner) Locator {
	if sysinfo.Get(env, "HYPRLAND_INSTANCE_SIGNATURE") != "" {
		return &Hyprland{Runner: r}
	}
	display := sysinfo.Get(env, "DISPLAY")
	if id, err := strconv.ParseUint(sysinfo.Get(env, "WINDOWID"), 10, 32); err == nil && display != "" {
		return &X11{Display: display, WindowID: uint32(id)}
	}
	return &Terminal{}
}
