package display

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/wattfource/envdiag/internal/geometry"
	"github.com/wattfource/envdiag/internal/sysinfo"
	"github.com/wattfource/envdiag/internal/xutil"
)

// X11 reads monitors through RandR, falling back to Xinerama and finally
// to the root window of the default screen
type X11 struct {
	Display string
	Env     sysinfo.Env
}

func (x *X11) Name() string { return "x11" }

// Monitors connects to the X server and lists active outputs
func (x *X11) Monitors(ctx context.Context) ([]Monitor, error) {
	conn, err := xutil.Connect(x.Display)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	screen := xproto.Setup(conn).DefaultScreen(conn)

	monitors, err := randrMonitors(conn, screen.Root)
	if err != nil || len(monitors) == 0 {
		monitors = xineramaMonitors(conn)
	}
	if len(monitors) == 0 {
		monitors = []Monitor{{
			ID: "screen-0",
			Bounds: geometry.Rect{
				Width:  int(screen.WidthInPixels),
				Height: int(screen.HeightInPixels),
			},
		}}
	}

	work, workErr := workArea(conn, screen.Root)
	scale := gdkScale(x.Env)
	for i := range monitors {
		monitors[i].Index = i
		monitors[i].BitDepth = int(screen.RootDepth)
		monitors[i].ScaleX = scale
		monitors[i].ScaleY = scale
		if workErr == nil {
			monitors[i].Insets = insetsWithin(monitors[i].Bounds, work)
		}
	}
	return monitors, nil
}

func randrMonitors(conn *xgb.Conn, root xproto.Window) ([]Monitor, error) {
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr: %w", err)
	}
	res, err := randr.GetScreenResourcesCurrent(conn, root).Reply()
	if err != nil {
		return nil, fmt.Errorf("randr screen resources: %w", err)
	}

	modes := make(map[uint32]randr.ModeInfo, len(res.Modes))
	for _, m := range res.Modes {
		modes[m.Id] = m
	}

	var monitors []Monitor
	for _, crtc := range res.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			return nil, fmt.Errorf("randr crtc %d: %w", crtc, err)
		}
		// Disabled CRTCs have no mode
		if info.Mode == 0 || len(info.Outputs) == 0 {
			continue
		}

		mon := Monitor{
			ID: fmt.Sprintf("crtc-%d", crtc),
			Bounds: geometry.Rect{
				X:      int(info.X),
				Y:      int(info.Y),
				Width:  int(info.Width),
				Height: int(info.Height),
			},
		}
		if out, err := randr.GetOutputInfo(conn, info.Outputs[0], res.ConfigTimestamp).Reply(); err == nil {
			mon.ID = string(out.Name)
		}
		if mi, ok := modes[uint32(info.Mode)]; ok {
			mon.RefreshHz = refreshRate(mi)
		}
		monitors = append(monitors, mon)
	}
	return monitors, nil
}

func xineramaMonitors(conn *xgb.Conn) []Monitor {
	if err := xinerama.Init(conn); err != nil {
		return nil
	}
	reply, err := xinerama.QueryScreens(conn).Reply()
	if err != nil {
		return nil
	}
	monitors := make([]Monitor, 0, len(reply.ScreenInfo))
	for i, s := range reply.ScreenInfo {
		monitors = append(monitors, Monitor{
			ID: fmt.Sprintf("xinerama-%d", i),
			Bounds: geometry.Rect{
				X:      int(s.XOrg),
				Y:      int(s.YOrg),
				Width:  int(s.Width),
				Height: int(s.Height),
			},
		})
	}
	return monitors
}

// workArea reads the EWMH work area of the current desktop
func workArea(conn *xgb.Conn, root xproto.Window) (geometry.Rect, error) {
	vals, err := xutil.Property32(conn, root, "_NET_WORKAREA", xproto.AtomCardinal)
	if err != nil {
		return geometry.Rect{}, err
	}
	desktop := 0
	if cur, err := xutil.Property32(conn, root, "_NET_CURRENT_DESKTOP", xproto.AtomCardinal); err == nil && len(cur) > 0 {
		desktop = int(cur[0])
	}
	if len(vals) < (desktop+1)*4 {
		desktop = 0
	}
	if len(vals) < 4 {
		return geometry.Rect{}, fmt.Errorf("_NET_WORKAREA has %d values", len(vals))
	}
	v := vals[desktop*4:]
	return geometry.Rect{X: int(int32(v[0])), Y: int(int32(v[1])), Width: int(v[2]), Height: int(v[3])}, nil
}

// insetsWithin derives per-monitor insets from a work area spanning the
// whole root window. Edges the work area does not reach are zero.
func insetsWithin(bounds, work geometry.Rect) Insets {
	clamp := func(v, limit int) int {
		if v < 0 {
			return 0
		}
		if v > limit {
			return limit
		}
		return v
	}
	// Monitors outside the work area get no insets
	if work.X >= bounds.X+bounds.Width || work.X+work.Width <= bounds.X ||
		work.Y >= bounds.Y+bounds.Height || work.Y+work.Height <= bounds.Y {
		return Insets{}
	}
	return Insets{
		Left:   clamp(work.X-bounds.X, bounds.Width),
		Top:    clamp(work.Y-bounds.Y, bounds.Height),
		Right:  clamp(bounds.X+bounds.Width-(work.X+work.Width), bounds.Width),
		Bottom: clamp(bounds.Y+bounds.Height-(work.Y+work.Height), bounds.Height),
	}
}

// refreshRate computes the vertical refresh of a mode, rounded to 0.01 Hz
func refreshRate(mi randr.ModeInfo) float64 {
	if mi.Htotal == 0 || mi.Vtotal == 0 {
		return 0
	}
	rate := float64(mi.DotClock) / (float64(mi.Htotal) * float64(mi.Vtotal))
	if mi.ModeFlags&randr.ModeFlagDoubleScan != 0 {
		rate /= 2
	}
	if mi.ModeFlags&randr.ModeFlagInterlace != 0 {
		rate *= 2
	}
	return math.Round(rate*100) / 100
}

func gdkScale(env sysinfo.Env) float64 {
	if env == nil {
		return 1
	}
	if v, err := strconv.ParseFloat(sysinfo.Get(env, "GDK_SCALE"), 64); err == nil && v > 0 {
		return v
	}
	return 1
}
