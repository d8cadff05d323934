package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wattfource/envdiag/internal/display"
	"github.com/wattfource/envdiag/internal/sysinfo"
)

const (
	banner  = "====== ENVIRONMENT & RESOLUTION DIAGNOSTICS ======"
	divider = "============================================"
)

// Text renders the console dump
func Text(r *Report) string {
	var b strings.Builder

	b.WriteString("\n" + banner + "\n")
	b.WriteString("Time: " + r.Time.Format(time.UnixDate) + "\n")

	section(&b, "WINDOW INFORMATION")
	writeWindow(&b, r.Window)

	section(&b, "SCREEN INFORMATION")
	writeScreens(&b, r.Screens)

	section(&b, "DESKTOP ENVIRONMENT")
	writeColon(&b, r.Desktop)

	section(&b, "DESKTOP ENVIRONMENT (Shell)")
	for _, line := range r.DesktopShell.Lines {
		b.WriteString(line + "\n")
	}
	if r.DesktopShell.Error != "" {
		b.WriteString("Error getting shell desktop info: " + r.DesktopShell.Error + "\n")
	}

	section(&b, "ENVIRONMENT VARIABLES")
	writePairs(&b, r.Variables)

	section(&b, "PLATFORM PROPERTIES")
	writePairs(&b, r.Properties)

	section(&b, "CROSTINI DETECTION")
	writeCrostini(&b, r.Crostini)

	b.WriteString("\n" + divider + "\n")
	return b.String()
}

// ScreensText renders only the screen section
func ScreensText(s ScreenSection) string {
	var b strings.Builder
	writeScreens(&b, s)
	return b.String()
}

func section(b *strings.Builder, title string) {
	b.WriteString("\n----- " + title + " -----\n")
}

func writeWindow(b *strings.Builder, w WindowSection) {
	if w.Geometry == nil {
		b.WriteString("Window query failed: " + w.Error + "\n")
		return
	}
	g := w.Geometry
	b.WriteString("Window Size: " + g.SizeString() + "\n")
	b.WriteString("Window Bounds: " + g.Bounds.String() + "\n")
	if g.RawState != "" {
		fmt.Fprintf(b, "Extended State: %s (%s)\n", g.RawState, g.State)
	} else {
		fmt.Fprintf(b, "Extended State: %s\n", g.State)
	}
	fmt.Fprintf(b, "Window Decorations: %s\n", g.Decorations)
	fmt.Fprintf(b, "Window Source: %s (%s)\n", g.Source, g.Unit)
	if w.Error != "" {
		b.WriteString("Window query failed, showing terminal size: " + w.Error + "\n")
	}
}

func writeScreens(b *strings.Builder, s ScreenSection) {
	fmt.Fprintf(b, "Number of screens: %d\n", len(s.Monitors))
	if s.Error != "" {
		b.WriteString("Error enumerating screens: " + s.Error + "\n")
	}
	for _, m := range s.Monitors {
		writeMonitor(b, m)
	}
}

func writeMonitor(b *strings.Builder, m display.Monitor) {
	usable := m.Usable()
	fmt.Fprintf(b, "\nScreen #%d:\n", m.Index+1)
	fmt.Fprintf(b, "  Display ID: %s\n", m.ID)
	fmt.Fprintf(b, "  Bounds: %s\n", m.Bounds)
	fmt.Fprintf(b, "  Screen Insets: top=%d, left=%d, bottom=%d, right=%d\n",
		m.Insets.Top, m.Insets.Left, m.Insets.Bottom, m.Insets.Right)
	fmt.Fprintf(b, "  Usable Bounds: %s\n", usable)
	fmt.Fprintf(b, "  Transform Scale: scaleX=%s, scaleY=%s\n", decimal(m.ScaleX), decimal(m.ScaleY))
	fmt.Fprintf(b, "  Bits per pixel: %d\n", m.BitDepth)
	fmt.Fprintf(b, "  Refresh rate: %sHz\n", strconv.FormatFloat(m.RefreshHz, 'f', -1, 64))
}

func writeColon(b *strings.Builder, kvs []sysinfo.KV) {
	for _, kv := range kvs {
		b.WriteString(kv.Key + ": " + kv.Value + "\n")
	}
}

func writePairs(b *strings.Builder, kvs []sysinfo.KV) {
	for _, kv := range kvs {
		b.WriteString(kv.Key + "=" + kv.Value + "\n")
	}
}

func writeCrostini(b *strings.Builder, c CrostiniSection) {
	if c.KernelVersion != "" || c.Error == "" {
		b.WriteString("Kernel version: " + c.KernelVersion + "\n")
		fmt.Fprintf(b, "Likely running in Crostini: %t\n", c.Likely)
	}
	if c.Hardware != "" {
		b.WriteString("ChromeOS hardware detection: " + c.Hardware + "\n")
	}
	if c.Error != "" {
		b.WriteString("Error detecting Crostini: " + c.Error + "\n")
	}
}

// decimal always keeps one fractional digit, so 1 prints as 1.0
func decimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}
