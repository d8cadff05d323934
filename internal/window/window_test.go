package window

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wattfource/envdiag/internal/geometry"
	"github.com/wattfource/envdiag/internal/sysinfo"
)

type recordRunner struct {
	lines   []string
	err     error
	replies map[string][]string // per command line, overrides lines
	calls   []string
}

func (r *recordRunner) Run(ctx context.Context, name string, args ...string) ([]string, error) {
	call := strings.Join(append([]string{name}, args...), " ")
	r.calls = append(r.calls, call)
	if lines, ok := r.replies[call]; ok {
		return lines, nil
	}
	return r.lines, r.err
}

func TestHyprlandGeometry(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		state geometry.State
	}{
		{
			name:  "tiled, numeric fullscreen",
			json:  `{"address": "0x55d1c1a2e0f0", "at": [12, 44], "size": [1256, 700], "floating": false, "fullscreen": 0, "class": "kitty"}`,
			state: geometry.StateNormal,
		},
		{
			name:  "maximized",
			json:  `{"address": "0x55d1c1a2e0f0", "at": [12, 44], "size": [1256, 700], "floating": false, "fullscreen": 1, "class": "kitty"}`,
			state: geometry.StateMaximized,
		},
		{
			name:  "older release with boolean fullscreen",
			json:  `{"address": "0x55d1c1a2e0f0", "at": [12, 44], "size": [1256, 700], "floating": true, "fullscreen": true, "class": "foot"}`,
			state: geometry.StateMaximized,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := &Hyprland{Runner: &recordRunner{lines: []string{tc.json}}}
			g, err := h.Geometry(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			want := geometry.Rect{X: 12, Y: 44, Width: 1256, Height: 700}
			if g.Bounds != want || g.Width != 1256 || g.Height != 700 {
				t.Errorf("geometry = %+v", g)
			}
			if g.State != tc.state {
				t.Errorf("State = %v; want %v", g.State, tc.state)
			}
			if g.Unit != geometry.UnitPixels {
				t.Errorf("Unit = %q", g.Unit)
			}
		})
	}
}

func TestHyprlandNoActiveWindow(t *testing.T) {
	h := &Hyprland{Runner: &recordRunner{lines: []string{"{}"}}}
	if _, err := h.Geometry(context.Background()); err == nil {
		t.Fatal("expected error for empty reply")
	}
}

const (
	hyprTiled     = `{"address": "0x55d1c1a2e0f0", "at": [12, 44], "size": [1256, 700], "floating": false, "fullscreen": 0, "class": "kitty"}`
	hyprMaximized = `{"address": "0x55d1c1a2e0f0", "at": [0, 30], "size": [1920, 1050], "floating": false, "fullscreen": 1, "class": "kitty"}`
)

func TestHyprlandMaximize(t *testing.T) {
	r := &recordRunner{replies: map[string][]string{
		"hyprctl activewindow -j":       {hyprTiled},
		"hyprctl dispatch fullscreen 1": {"ok"},
	}}
	h := &Hyprland{Runner: r}
	if err := h.Maximize(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := []string{"hyprctl activewindow -j", "hyprctl dispatch fullscreen 1"}
	if strings.Join(r.calls, "|") != strings.Join(want, "|") {
		t.Errorf("calls = %v; want %v", r.calls, want)
	}

	h = &Hyprland{Runner: &recordRunner{replies: map[string][]string{
		"hyprctl activewindow -j":       {hyprTiled},
		"hyprctl dispatch fullscreen 1": {"Invalid dispatcher"},
	}}}
	if err := h.Maximize(context.Background()); err == nil {
		t.Error("expected error for a non-ok reply")
	}
}

func TestHyprlandMaximizeIsIdempotent(t *testing.T) {
	r := &recordRunner{replies: map[string][]string{
		"hyprctl activewindow -j":       {hyprMaximized},
		"hyprctl dispatch fullscreen 1": {"ok"},
	}}
	h := &Hyprland{Runner: r}
	for i := 0; i < 2; i++ {
		if err := h.Maximize(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	for _, c := range r.calls {
		if strings.HasPrefix(c, "hyprctl dispatch") {
			t.Fatalf("maximized window was toggled: calls = %v", r.calls)
		}
	}
}

func TestStateFromAtoms(t *testing.T) {
	if s := stateFromAtoms([]string{"_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_FOCUSED"}); s != geometry.StateMaximized {
		t.Errorf("both maximized atoms: got %v", s)
	}
	if s := stateFromAtoms([]string{"_NET_WM_STATE_MAXIMIZED_VERT"}); s != geometry.StateNormal {
		t.Errorf("vertical only: got %v", s)
	}
}

func TestDecorations(t *testing.T) {
	tests := []struct {
		name  string
		frame []uint32
		motif []uint32
		want  geometry.Decorations
	}{
		{"frame extents", []uint32{2, 2, 28, 2}, nil, geometry.DecorationsDecorated},
		{"zero frame", []uint32{0, 0, 0, 0}, nil, geometry.DecorationsUndecorated},
		{"motif opt-out wins", []uint32{2, 2, 28, 2}, []uint32{2, 0, 0, 0, 0}, geometry.DecorationsUndecorated},
		{"motif opt-in only", nil, []uint32{2, 0, 1, 0, 0}, geometry.DecorationsDecorated},
		{"motif without decorations flag", nil, []uint32{1, 0, 0, 0, 0}, geometry.DecorationsUnknown},
		{"nothing published", nil, nil, geometry.DecorationsUnknown},
	}
	for _, tc := range tests {
		if got := decorations(tc.frame, tc.motif); got != tc.want {
			t.Errorf("%s: decorations = %q; want %q", tc.name, got, tc.want)
		}
	}
}

func TestFromWinsize(t *testing.T) {
	g := fromWinsize(120, 40, 1200, 840)
	if g.Unit != geometry.UnitPixels || g.Width != 1200 || g.Bounds.Height != 840 {
		t.Errorf("pixel geometry = %+v", g)
	}
	g = fromWinsize(120, 40, 0, 0)
	if g.Unit != geometry.UnitCells || g.Width != 120 || g.Height != 40 {
		t.Errorf("cell geometry = %+v", g)
	}
}

func TestDetect(t *testing.T) {
	r := &recordRunner{}
	tests := []struct {
		env  sysinfo.MapEnv
		want string
	}{
		{sysinfo.MapEnv{"HYPRLAND_INSTANCE_SIGNATURE": "v0.41"}, "hyprland"},
		{sysinfo.MapEnv{"DISPLAY": ":0", "WINDOWID": "71303179"}, "x11"},
		{sysinfo.MapEnv{"DISPLAY": ":0"}, "terminal"},
		{sysinfo.MapEnv{"WINDOWID": "not-a-number", "DISPLAY": ":0"}, "terminal"},
	}
	for _, tc := range tests {
		if got := Detect(tc.env, r).Name(); got != tc.want {
			t.Errorf("Detect(%v) = %s; want %s", tc.env, got, tc.want)
		}
	}
}

func TestTerminalMaximizeUnsupported(t *testing.T) {
	if err := (&Terminal{}).Maximize(context.Background()); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v; want ErrUnsupported", err)
	}
}
