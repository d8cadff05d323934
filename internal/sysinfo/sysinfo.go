// Package sysinfo queries the process environment, the platform and a few
// shell commands for the diagnostics dump.
// Every query is read-only and nothing is cached between calls.
package sysinfo

// NotSet is printed in place of a variable or property that has no value
const NotSet = "[not set]"

// KV is a single name/value pair of the dump
type KV struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
	Set   bool   `json:"set" yaml:"set"`
}

// DesktopVars are the variables describing the desktop session
var DesktopVars = []string{"XDG_SESSION_TYPE", "XDG_CURRENT_DESKTOP", "DESKTOP_SESSION"}

// RelevantVars are the variables that influence windowing and scaling
var RelevantVars = []string{
	// X11
	"DISPLAY", "XAUTHORITY", "GNOME_DESKTOP_SESSION_ID", "KDE_FULL_SESSION",
	// Wayland
	"WAYLAND_DISPLAY", "MOZ_ENABLE_WAYLAND",
	// Scaling
	"GDK_SCALE", "GDK_DPI_SCALE", "QT_SCALE_FACTOR", "QT_AUTO_SCREEN_SCALE_FACTOR",
	"QT_SCREEN_SCALE_FACTORS", "_JAVA_OPTIONS", "JAVA_TOOL_OPTIONS",
	// Crostini
	"SOMMELIER_VERSION", "SOMMELIER_ACCELERATED", "SOMMELIER_DRM_DEVICE",
	// General
	"LANG", "SHELL", "TERM", "HOME", "USER",
}

// WithExtra appends extra names to base, skipping blanks and duplicates
func WithExtra(base []string, extra []string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, name := range append(append([]string{}, base...), extra...) {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
