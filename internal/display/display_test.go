package display

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/BurntSushi/xgb/randr"

	"github.com/wattfource/envdiag/internal/geometry"
	"github.com/wattfource/envdiag/internal/sysinfo"
)

const hyprMonitorsJSON = `[{
	"id": 0,
	"name": "eDP-1",
	"description": "BOE 0x0BCA",
	"width": 2256,
	"height": 1504,
	"refreshRate": 59.99900,
	"x": 0,
	"y": 0,
	"reserved": [0, 32, 0, 0],
	"scale": 1.50,
	"transform": 0,
	"currentFormat": "XRGB8888"
}, {
	"id": 1,
	"name": "DP-3",
	"width": 2560,
	"height": 1440,
	"refreshRate": 143.91200,
	"x": 1504,
	"y": -200,
	"reserved": [0, 0, 0, 0],
	"scale": 1.00,
	"transform": 1,
	"currentFormat": "XRGB2101010"
}]`

type stubRunner struct {
	lines []string
	err   error
}

func (s stubRunner) Run(ctx context.Context, name string, args ...string) ([]string, error) {
	return s.lines, s.err
}

func TestHyprlandMonitors(t *testing.T) {
	h := &Hyprland{Runner: stubRunner{lines: strings.Split(hyprMonitorsJSON, "\n")}}
	monitors, err := h.Monitors(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(monitors) != 2 {
		t.Fatalf("got %d monitors, want 2", len(monitors))
	}

	laptop := monitors[0]
	if laptop.ID != "eDP-1 (BOE 0x0BCA)" {
		t.Errorf("ID = %q", laptop.ID)
	}
	if want := (geometry.Rect{X: 0, Y: 0, Width: 1504, Height: 1003}); laptop.Bounds != want {
		t.Errorf("Bounds = %v; want %v", laptop.Bounds, want)
	}
	if laptop.Insets.Top != 32 {
		t.Errorf("Insets = %+v; want top=32", laptop.Insets)
	}
	if laptop.ScaleX != 1.5 || laptop.BitDepth != 24 {
		t.Errorf("scale=%v depth=%d", laptop.ScaleX, laptop.BitDepth)
	}

	rotated := monitors[1]
	if rotated.Index != 1 || rotated.Bounds.Width != 1440 || rotated.Bounds.Height != 2560 {
		t.Errorf("rotated bounds = %v", rotated.Bounds)
	}
	if rotated.BitDepth != 30 {
		t.Errorf("BitDepth = %d; want 30", rotated.BitDepth)
	}
	if rotated.RefreshHz != 143.912 {
		t.Errorf("RefreshHz = %v", rotated.RefreshHz)
	}
}

func TestHyprlandMonitorsError(t *testing.T) {
	h := &Hyprland{Runner: stubRunner{err: errors.New("exit status 1")}}
	if _, err := h.Monitors(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	h = &Hyprland{Runner: stubRunner{lines: []string{"HYPRLAND_INSTANCE_SIGNATURE not set!"}}}
	if _, err := h.Monitors(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestUsable(t *testing.T) {
	m := Monitor{
		Bounds: geometry.Rect{X: 1920, Y: 0, Width: 2560, Height: 1440},
		Insets: Insets{Top: 27, Left: 64, Bottom: 0, Right: 10},
	}
	want := geometry.Rect{X: 1984, Y: 27, Width: 2486, Height: 1413}
	if got := m.Usable(); got != want {
		t.Fatalf("Usable() = %v; want %v", got, want)
	}
}

func TestInsetsWithin(t *testing.T) {
	tests := []struct {
		name   string
		bounds geometry.Rect
		work   geometry.Rect
		want   Insets
	}{
		{
			name:   "top panel",
			bounds: geometry.Rect{Width: 1920, Height: 1080},
			work:   geometry.Rect{Y: 32, Width: 1920, Height: 1048},
			want:   Insets{Top: 32},
		},
		{
			name:   "work area spanning two monitors",
			bounds: geometry.Rect{X: 1920, Width: 1920, Height: 1080},
			work:   geometry.Rect{X: 0, Y: 0, Width: 3840, Height: 1040},
			want:   Insets{Bottom: 40},
		},
		{
			name:   "monitor outside work area",
			bounds: geometry.Rect{X: 3840, Width: 1280, Height: 1024},
			work:   geometry.Rect{Width: 3840, Height: 1080},
			want:   Insets{},
		},
	}
	for _, tc := range tests {
		if got := insetsWithin(tc.bounds, tc.work); got != tc.want {
			t.Errorf("%s: insetsWithin() = %+v; want %+v", tc.name, got, tc.want)
		}
	}
}

func TestRefreshRate(t *testing.T) {
	// 1920x1080@60 CEA mode
	mi := randr.ModeInfo{DotClock: 148500000, Htotal: 2200, Vtotal: 1125}
	if got := refreshRate(mi); got != 60 {
		t.Errorf("refreshRate() = %v; want 60", got)
	}
	mi.ModeFlags = randr.ModeFlagInterlace
	if got := refreshRate(mi); got != 120 {
		t.Errorf("interlaced refreshRate() = %v; want 120", got)
	}
	if got := refreshRate(randr.ModeInfo{}); got != 0 {
		t.Errorf("empty mode refreshRate() = %v", got)
	}
}

func TestBitDepth(t *testing.T) {
	for format, want := range map[string]int{
		"XRGB8888":    24,
		"XBGR2101010": 30,
		"RGB565":      16,
		"":            24,
	} {
		if got := bitDepth(format); got != want {
			t.Errorf("bitDepth(%q) = %d; want %d", format, got, want)
		}
	}
}

func TestDetect(t *testing.T) {
	r := stubRunner{}
	if e := Detect(sysinfo.MapEnv{"HYPRLAND_INSTANCE_SIGNATURE": "abc", "DISPLAY": ":1"}, r); e.Name() != "hyprland" {
		t.Errorf("Detect() = %s; want hyprland", e.Name())
	}
	if e := Detect(sysinfo.MapEnv{"DISPLAY": ":1"}, r); e.Name() != "x11" {
		t.Errorf("Detect() = %s; want x11", e.Name())
	}
	e := Detect(sysinfo.MapEnv{}, r)
	if _, err := e.Monitors(context.Background()); !errors.Is(err, ErrNoDisplay) {
		t.Errorf("err = %v; want ErrNoDisplay", err)
	}
}
