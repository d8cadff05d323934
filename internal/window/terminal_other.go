//go:build !unix

package window

import (
	"context"

	"github.com/wattfource/envdiag/internal/geometry"
)

// Terminal has no size query outside unix; the TUI falls back to the
// size bubbletea reports
type Terminal struct {
	Fd int
}

func (t *Terminal) Name() string { return "terminal" }

func (t *Terminal) Geometry(ctx context.Context) (geometry.Geometry, error) {
	return geometry.Geometry{}, ErrUnsupported
}

func (t *Terminal) Maximize(ctx context.Context) error {
	return ErrUnsupported
}
