package window

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/wattfource/envdiag/internal/geometry"
	"github.com/wattfource/envdiag/internal/sysinfo"
)

// Hyprland uses hyprctl against the focused window. While envdiag has
// focus that is the terminal it runs in.
type Hyprland struct {
	Runner sysinfo.Runner
}

func (h *Hyprland) Name() string { return "hyprland" }

type hyprWindow struct {
	Address    string          `json:"address"`
	At         []int           `json:"at"`
	Size       []int           `json:"size"`
	Floating   bool            `json:"floating"`
	Fullscreen json.RawMessage `json:"fullscreen"`
	Class      string          `json:"class"`
}

// Geometry runs `hyprctl activewindow -j`
func (h *Hyprland) Geometry(ctx context.Context) (geometry.Geometry, error) {
	lines, err := h.Runner.Run(ctx, "hyprctl", "activewindow", "-j")
	if err != nil {
		return geometry.Geometry{}, fmt.Errorf("hyprctl activewindow: %w", err)
	}
	return parseHyprWindow([]byte(strings.Join(lines, "\n")))
}

func parseHyprWindow(data []byte) (geometry.Geometry, error) {
	var w hyprWindow
	if err := json.Unmarshal(data, &w); err != nil {
		return geometry.Geometry{}, fmt.Errorf("decode hyprctl activewindow: %w", err)
	}
	if w.Address == "" || len(w.At) != 2 || len(w.Size) != 2 {
		return geometry.Geometry{}, errors.New("hyprland reports no active window")
	}

	level := fullscreenLevel(w.Fullscreen)
	g := geometry.Geometry{
		Width:    w.Size[0],
		Height:   w.Size[1],
		Bounds:   geometry.Rect{X: w.At[0], Y: w.At[1], Width: w.Size[0], Height: w.Size[1]},
		Unit:     geometry.UnitPixels,
		Source:   "hyprland",
		RawState: fmt.Sprintf("fullscreen=%d floating=%t class=%s", level, w.Floating, w.Class),
	}
	if level > 0 {
		g.State = geometry.StateMaximized
	}
	return g, nil
}

// fullscreenLevel accepts both the boolean of older Hyprland releases and
// the numeric mode of newer ones
func fullscreenLevel(raw json.RawMessage) int {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		if b {
			return 1
		}
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	return 0
}

// Maximize switches to fullscreen mode 1, which keeps bars and gaps. The
// dispatcher toggles, so an already maximized window is left alone.
func (h *Hyprland) Maximize(ctx context.Context) error {
	if g, err := h.Geometry(ctx); err == nil && g.State == geometry.StateMaximized {
		return nil
	}
	lines, err := h.Runner.Run(ctx, "hyprctl", "dispatch", "fullscreen", "1")
	if err != nil {
		return fmt.Errorf("hyprctl dispatch: %w", err)
	}
	reply := strings.TrimSpace(strings.Join(lines, " "))
	if reply != "" && reply != "ok" {
		return fmt.Errorf("hyprctl dispatch: %s", reply)
	}
	return nil
}
