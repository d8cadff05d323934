// Package tui provides the terminal window of envdiag: a status label that
// follows the window geometry and two buttons.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wattfource/envdiag/internal/geometry"
	"github.com/wattfource/envdiag/internal/logging"
	"github.com/wattfource/envdiag/internal/window"
)

// Colors
var (
	primaryColor   = lipgloss.Color("212") // Pink/magenta
	secondaryColor = lipgloss.Color("39")  // Cyan
	successColor   = lipgloss.Color("82")  // Green
	errorColor     = lipgloss.Color("196") // Red
	mutedColor     = lipgloss.Color("245") // Gray
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("250")).
			Align(lipgloss.Center).
			Border(lipgloss.NormalBorder()).
			BorderForeground(secondaryColor).
			Padding(1, 4)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 2)

	focusedButtonStyle = buttonStyle.Copy().
				Foreground(primaryColor).
				BorderForeground(primaryColor).
				Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)
)

// Button identifies one of the two buttons
type Button int

const (
	ButtonDetails Button = iota
	ButtonMaximize
)

var buttonLabels = []string{
	ButtonDetails:  "Print Details to Console",
	ButtonMaximize: "Maximize Window",
}

// CollectFunc produces the console dump. fallback is the last known
// geometry, for when the window system cannot be queried.
type CollectFunc func(ctx context.Context, fallback *geometry.Geometry) string

// Options wires the model to the outside world
type Options struct {
	Locator window.Locator
	Collect CollectFunc
	Log     *logging.Logger
	// Timeout bounds each window query and each dump
	Timeout time.Duration
}

// Model represents the TUI state
type Model struct {
	opts Options
	log  *logging.Logger
	keys keyMap
	help help.Model

	width  int
	height int

	geometry *geometry.Geometry
	status   string
	focus    Button

	// Messages
	message      string
	messageStyle lipgloss.Style

	// seq numbers geometry queries so a late reply cannot overwrite a newer one
	seq int

	printing bool
	quitting bool
}

type geometryMsg struct {
	seq      int
	geometry geometry.Geometry
	err      error
}

type reportMsg struct {
	text string
}

type maximizeMsg struct {
	err error
}

// NewModel creates a new TUI model
func NewModel(opts Options) Model {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	log := opts.Log
	if log == nil {
		log = logging.Default()
	}
	return Model{
		opts:   opts,
		log:    log.WithComponent("tui"),
		keys:   defaultKeyMap(),
		help:   help.New(),
		status: geometry.Placeholder,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKeys(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		cells := geometry.Cells(msg.Width, msg.Height)
		m.setGeometry(cells)
		cmd := m.queryGeometry()
		return m, cmd

	case geometryMsg:
		if msg.seq != m.seq {
			m.log.Debugf("dropping stale geometry reply %d, latest is %d", msg.seq, m.seq)
			return m, nil
		}
		if msg.err != nil {
			m.log.Debugf("window geometry: %v", msg.err)
			return m, nil
		}
		m.setGeometry(msg.geometry)
		m.log.WithFields(map[string]any{
			"size":   msg.geometry.SizeString(),
			"bounds": msg.geometry.Bounds.String(),
			"state":  msg.geometry.State.String(),
		}).Debug("window resized")
		return m, nil

	case reportMsg:
		m.printing = false
		m.message = "Details printed to console"
		m.messageStyle = successStyle
		return m, tea.Println(msg.text)

	case maximizeMsg:
		if msg.err != nil {
			m.log.Warnf("maximize: %v", msg.err)
			m.message = "Cannot maximize: " + msg.err.Error()
			m.messageStyle = errorStyle
			return m, nil
		}
		m.message = "Maximize requested"
		m.messageStyle = successStyle
		cmd := m.queryGeometry()
		return m, cmd
	}

	return m, nil
}

func (m *Model) setGeometry(g geometry.Geometry) {
	m.geometry = &g
	m.status = geometry.FormatStatus(g)
}

// Geometry returns the geometry shown in the label, nil before the first resize
func (m Model) Geometry() *geometry.Geometry {
	return m.geometry
}

// Status returns the label text
func (m Model) Status() string {
	return m.status
}

func (m *Model) queryGeometry() tea.Cmd {
	loc := m.opts.Locator
	if loc == nil {
		return nil
	}
	m.seq++
	seq, timeout := m.seq, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		g, err := loc.Geometry(ctx)
		return geometryMsg{seq: seq, geometry: g, err: err}
	}
}

func (m Model) press(b Button) (tea.Model, tea.Cmd) {
	m.focus = b
	switch b {
	case ButtonDetails:
		if m.printing || m.opts.Collect == nil {
			return m, nil
		}
		m.printing = true
		m.message = "Collecting details..."
		m.messageStyle = lipgloss.NewStyle().Foreground(mutedColor)

		collect, timeout := m.opts.Collect, m.opts.Timeout
		var fallback *geometry.Geometry
		if m.geometry != nil {
			g := *m.geometry
			fallback = &g
		}
		return m, func() tea.Msg {
			// shell probes run sequentially, give the dump room for several
			ctx, cancel := context.WithTimeout(context.Background(), 4*timeout)
			defer cancel()
			return reportMsg{text: collect(ctx, fallback)}
		}

	case ButtonMaximize:
		loc := m.opts.Locator
		if loc == nil {
			return m, func() tea.Msg { return maximizeMsg{err: window.ErrUnsupported} }
		}
		timeout := m.opts.Timeout
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			return maximizeMsg{err: loc.Maximize(ctx)}
		}
	}
	return m, nil
}

// Run starts the TUI inline, so printed details stay in the scrollback
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
