package display

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wattfource/envdiag/internal/geometry"
	"github.com/wattfource/envdiag/internal/sysinfo"
)

// Hyprland reads monitors from hyprctl
type Hyprland struct {
	Runner sysinfo.Runner
}

func (h *Hyprland) Name() string { return "hyprland" }

type hyprMonitor struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	RefreshRate   float64 `json:"refreshRate"`
	X             int     `json:"x"`
	Y             int     `json:"y"`
	Reserved      []int   `json:"reserved"`
	Scale         float64 `json:"scale"`
	Transform     int     `json:"transform"`
	CurrentFormat string  `json:"currentFormat"`
}

// Monitors runs `hyprctl monitors -j`
func (h *Hyprland) Monitors(ctx context.Context) ([]Monitor, error) {
	lines, err := h.Runner.Run(ctx, "hyprctl", "monitors", "-j")
	if err != nil {
		return nil, fmt.Errorf("hyprctl monitors: %w", err)
	}
	return parseHyprMonitors([]byte(strings.Join(lines, "\n")))
}

func parseHyprMonitors(data []byte) ([]Monitor, error) {
	var raw []hyprMonitor
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode hyprctl monitors: %w", err)
	}

	monitors := make([]Monitor, 0, len(raw))
	for i, m := range raw {
		w, h := m.Width, m.Height
		// Odd transforms rotate the output by 90 or 270 degrees
		if m.Transform%2 == 1 {
			w, h = h, w
		}
		scale := m.Scale
		if scale <= 0 {
			scale = 1
		}
		mon := Monitor{
			Index: i,
			ID:    m.Name,
			// Hyprland positions outputs in logical, scaled coordinates
			Bounds: geometry.Rect{
				X:      m.X,
				Y:      m.Y,
				Width:  int(float64(w)/scale + 0.5),
				Height: int(float64(h)/scale + 0.5),
			},
			ScaleX:    scale,
			ScaleY:    scale,
			BitDepth:  bitDepth(m.CurrentFormat),
			RefreshHz: m.RefreshRate,
		}
		if m.Description != "" {
			mon.ID = m.Name + " (" + m.Description + ")"
		}
		// reserved is [left, top, right, bottom]
		if len(m.Reserved) == 4 {
			mon.Insets = Insets{
				Left:   m.Reserved[0],
				Top:    m.Reserved[1],
				Right:  m.Reserved[2],
				Bottom: m.Reserved[3],
			}
		}
		monitors = append(monitors, mon)
	}
	return monitors, nil
}

// bitDepth maps a DRM format name to bits per pixel of color
func bitDepth(format string) int {
	f := strings.ToUpper(format)
	switch {
	case strings.Contains(f, "2101010"):
		return 30
	case strings.Contains(f, "16161616"):
		return 48
	case strings.HasPrefix(f, "RGB565"), strings.HasPrefix(f, "BGR565"):
		return 16
	default:
		return 24
	}
}
