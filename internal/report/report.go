// Package report collects the environment and resolution diagnostics and
// renders them for the console.
//
// The output is meant for people reading a terminal. The JSON and YAML
// renderings expose the same fields but are not a stable schema.
package report

import (
	"context"
	"time"

	"github.com/wattfource/envdiag/internal/display"
	"github.com/wattfource/envdiag/internal/geometry"
	"github.com/wattfource/envdiag/internal/logging"
	"github.com/wattfource/envdiag/internal/sysinfo"
	"github.com/wattfource/envdiag/internal/window"
)

// Sources are the things a report queries
type Sources struct {
	Locator   window.Locator
	Displays  display.Enumerator
	Env       sysinfo.Env
	Runner    sysinfo.Runner
	HostInfo  sysinfo.HostInfoFunc
	Shell     string
	ExtraVars []string
	// Fallback is used for the window section when the locator fails,
	// typically the size the TUI last received
	Fallback *geometry.Geometry
	Now      func() time.Time
	Log      *logging.Logger
}

// WindowSection describes the hosting window
type WindowSection struct {
	Geometry *geometry.Geometry `json:"geometry,omitempty" yaml:"geometry,omitempty"`
	Error    string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// ScreenSection lists the monitors
type ScreenSection struct {
	Source   string            `json:"source" yaml:"source"`
	Monitors []display.Monitor `json:"monitors" yaml:"monitors"`
	Error    string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// ShellSection holds raw lines printed by a shell pipeline
type ShellSection struct {
	Lines []string `json:"lines" yaml:"lines"`
	Error string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// CrostiniSection is the ChromeOS container heuristic
type CrostiniSection struct {
	sysinfo.Crostini `yaml:",inline"`
	Error            string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report is a single diagnostics dump
type Report struct {
	Time         time.Time       `json:"time" yaml:"time"`
	Window       WindowSection   `json:"window" yaml:"window"`
	Screens      ScreenSection   `json:"screens" yaml:"screens"`
	Desktop      []sysinfo.KV    `json:"desktop" yaml:"desktop"`
	DesktopShell ShellSection    `json:"desktop_shell" yaml:"desktop_shell"`
	Variables    []sysinfo.KV    `json:"variables" yaml:"variables"`
	Properties   []sysinfo.KV    `json:"properties" yaml:"properties"`
	Crostini     CrostiniSection `json:"crostini" yaml:"crostini"`
}

// Collect runs every query in order. Failures are recorded in the
// section they belong to; Collect itself never fails.
func Collect(ctx context.Context, src Sources) *Report {
	if src.Env == nil {
		src.Env = sysinfo.OSEnv{}
	}
	if src.Runner == nil {
		src.Runner = sysinfo.ExecRunner{}
	}
	if src.Now == nil {
		src.Now = time.Now
	}
	log := src.Log
	if log == nil {
		log = logging.Default()
	}
	log = log.WithComponent("report")

	r := &Report{Time: src.Now()}

	r.Window = collectWindow(ctx, src, log)

	if src.Displays != nil {
		r.Screens.Source = src.Displays.Name()
		monitors, err := src.Displays.Monitors(ctx)
		if err != nil {
			log.Warnf("enumerate displays via %s: %v", src.Displays.Name(), err)
			r.Screens.Error = err.Error()
		}
		r.Screens.Monitors = monitors
	} else {
		r.Screens.Error = display.ErrNoDisplay.Error()
	}

	r.Desktop = sysinfo.Lookup(src.Env, sysinfo.DesktopVars)

	lines, err := sysinfo.ShellDesktopEnv(ctx, src.Runner, src.Shell)
	r.DesktopShell.Lines = lines
	if err != nil {
		log.Warnf("shell desktop env: %v", err)
		r.DesktopShell.Error = err.Error()
	}

	r.Variables = sysinfo.Lookup(src.Env, sysinfo.WithExtra(sysinfo.RelevantVars, src.ExtraVars))
	r.Properties = sysinfo.Properties(ctx, src.Env, src.HostInfo)

	c, err := sysinfo.DetectCrostini(ctx, src.Runner, src.Shell)
	r.Crostini.Crostini = c
	if err != nil {
		log.Warnf("crostini detection: %v", err)
		r.Crostini.Error = err.Error()
	}

	log.WithFields(map[string]any{
		"screens":  len(r.Screens.Monitors),
		"crostini": r.Crostini.Likely,
	}).Info("report collected")
	return r
}

func collectWindow(ctx context.Context, src Sources, log *logging.Logger) WindowSection {
	if src.Locator == nil {
		if src.Fallback != nil {
			return WindowSection{Geometry: src.Fallback}
		}
		return WindowSection{Error: "no window locator"}
	}
	g, err := src.Locator.Geometry(ctx)
	if err == nil {
		return WindowSection{Geometry: &g}
	}
	log.Warnf("window geometry via %s: %v", src.Locator.Name(), err)
	if src.Fallback != nil {
		return WindowSection{Geometry: src.Fallback, Error: err.Error()}
	}
	return WindowSection{Error: err.Error()}
}
