// Package geometry describes the window envdiag runs in and formats the
// status label shown on every resize.
package geometry

import (
	"fmt"
	"strings"
)

// Placeholder is the label shown before the first resize event arrives.
const Placeholder = "Resize the window to see dimensions"

// State is the window manager state of a window
type State int

const (
	StateNormal State = iota
	StateMaximized
)

func (s State) String() string {
	if s == StateMaximized {
		return "MAXIMIZED"
	}
	return "NORMAL"
}

// MarshalText keeps the state readable in JSON and YAML reports
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Unit is the measure the numbers of a Geometry are expressed in
type Unit string

const (
	UnitPixels Unit = "px"
	UnitCells  Unit = "cells"
)

// Decorations tells whether the window manager draws a frame around the
// window. The zero value means the window system does not say.
type Decorations string

const (
	DecorationsUnknown     Decorations = ""
	DecorationsDecorated   Decorations = "decorated"
	DecorationsUndecorated Decorations = "undecorated"
)

func (d Decorations) String() string {
	if d == DecorationsUnknown {
		return "unknown"
	}
	return string(d)
}

func (d Decorations) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Rect is a screen rectangle
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", r.X, r.Y, r.Width, r.Height)
}

// Geometry is a snapshot of the window position, size and state
type Geometry struct {
	Width    int    `json:"width" yaml:"width"`
	Height   int    `json:"height" yaml:"height"`
	Bounds   Rect   `json:"bounds" yaml:"bounds"`
	State    State  `json:"state" yaml:"state"`
	Unit     Unit   `json:"unit" yaml:"unit"`
	Source   string `json:"source" yaml:"source"`
	RawState string `json:"raw_state,omitempty" yaml:"raw_state,omitempty"`

	Decorations Decorations `json:"decorations" yaml:"decorations"`
}

// Cells builds a geometry from a terminal size in character cells.
// The origin is unknown and reported as (0, 0).
func Cells(cols, rows int) Geometry {
	return Geometry{
		Width:  cols,
		Height: rows,
		Bounds: Rect{Width: cols, Height: rows},
		State:  StateNormal,
		Unit:   UnitCells,
		Source: "terminal",
	}
}

// SizeString renders "W × H", with the unit when it is not pixels
func (g Geometry) SizeString() string {
	s := fmt.Sprintf("%d × %d", g.Width, g.Height)
	if g.Unit == UnitCells {
		s += " (cells)"
	}
	return s
}

// FormatStatus renders the three line status label
func FormatStatus(g Geometry) string {
	var b strings.Builder
	b.WriteString("Window Size: " + g.SizeString() + "\n")
	b.WriteString("Window Bounds: " + g.Bounds.String() + "\n")
	b.WriteString("State: " + g.State.String())
	return b.String()
}
