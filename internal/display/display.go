// Package display enumerates the monitors attached to the current session.
package display

import (
	"context"
	"errors"

	"github.com/wattfource/envdiag/internal/geometry"
	"github.com/wattfource/envdiag/internal/sysinfo"
)

// ErrNoDisplay is returned when no windowing system can be reached
var ErrNoDisplay = errors.New("no display server detected")

// Insets are the screen edges reserved by panels and docks
type Insets struct {
	Top    int `json:"top" yaml:"top"`
	Left   int `json:"left" yaml:"left"`
	Bottom int `json:"bottom" yaml:"bottom"`
	Right  int `json:"right" yaml:"right"`
}

// Monitor is a single display device
type Monitor struct {
	Index     int           `json:"index" yaml:"index"`
	ID        string        `json:"id" yaml:"id"`
	Bounds    geometry.Rect `json:"bounds" yaml:"bounds"`
	Insets    Insets        `json:"insets" yaml:"insets"`
	ScaleX    float64       `json:"scale_x" yaml:"scale_x"`
	ScaleY    float64       `json:"scale_y" yaml:"scale_y"`
	BitDepth  int           `json:"bit_depth" yaml:"bit_depth"`
	RefreshHz float64       `json:"refresh_hz" yaml:"refresh_hz"`
}

// Usable returns the bounds minus the insets
func (m Monitor) Usable() geometry.Rect {
	return geometry.Rect{
		X:      m.Bounds.X + m.Insets.Left,
		Y:      m.Bounds.Y + m.Insets.Top,
		Width:  m.Bounds.Width - m.Insets.Left - m.Insets.Right,
		Height: m.Bounds.Height - m.Insets.Top - m.Insets.Bottom,
	}
}

// Enumerator lists monitors
type Enumerator interface {
	Name() string
	Monitors(ctx context.Context) ([]Monitor, error)
}

// Detect picks the enumerator matching the running session.
// Hyprland is preferred because XWayland only exposes a partial view.
func Detect(env sysinfo.Env, r sysinfo.Runner) Enumerator {
	if sysinfo.Get(env, "HYPRLAND_INSTANCE_SIGNATURE") != "" {
		return &Hyprland{Runner: r}
	}
	if d := sysinfo.Get(env, "DISPLAY"); d != "" {
		return &X11{Display: d, Env: env}
	}
	return none{}
}

type none struct{}

func (none) Name() string { return "none" }

func (none) Monitors(ctx context.Context) ([]Monitor, error) {
	return nil, ErrNoDisplay
}
