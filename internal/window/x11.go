package window

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/wattfource/envdiag/internal/geometry"
	"github.com/wattfource/envdiag/internal/xutil"
)

// EWMH _NET_WM_STATE actions and source indication
const (
	netWMStateAdd     = 1
	sourceApplication = 1
)

// X11 inspects the top-level window containing WindowID, as exported by
// the terminal emulator in WINDOWID
type X11 struct {
	Display  string
	WindowID uint32
}

func (x *X11) Name() string { return "x11" }

// Geometry reads position, size and _NET_WM_STATE of the client window
func (x *X11) Geometry(ctx context.Context) (geometry.Geometry, error) {
	conn, err := xutil.Connect(x.Display)
	if err != nil {
		return geometry.Geometry{}, err
	}
	defer conn.Close()

	win := clientWindow(conn, xproto.Window(x.WindowID))
	geo, err := xproto.GetGeometry(conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return geometry.Geometry{}, fmt.Errorf("get geometry of 0x%x: %w", uint32(win), err)
	}
	pos, err := xproto.TranslateCoordinates(conn, win, geo.Root, 0, 0).Reply()
	if err != nil {
		return geometry.Geometry{}, fmt.Errorf("translate coordinates of 0x%x: %w", uint32(win), err)
	}

	g := geometry.Geometry{
		Width:  int(geo.Width),
		Height: int(geo.Height),
		Bounds: geometry.Rect{
			X:      int(pos.DstX),
			Y:      int(pos.DstY),
			Width:  int(geo.Width),
			Height: int(geo.Height),
		},
		Unit:   geometry.UnitPixels,
		Source: "x11",
	}

	frame, frameErr := xutil.Property32(conn, win, "_NET_FRAME_EXTENTS", xproto.AtomCardinal)
	motif, motifErr := xutil.Property32(conn, win, "_MOTIF_WM_HINTS", xproto.GetPropertyTypeAny)
	if frameErr != nil {
		frame = nil
	}
	if motifErr != nil {
		motif = nil
	}
	g.Decorations = decorations(frame, motif)

	atoms, err := xutil.Atoms(conn, win, "_NET_WM_STATE")
	if err != nil {
		// Windows without EWMH state are plain normal windows
		return g, nil
	}
	names := make([]string, 0, len(atoms))
	for _, a := range atoms {
		if name, err := xutil.AtomName(conn, a); err == nil {
			names = append(names, name)
		}
	}
	g.RawState = strings.Join(names, " ")
	g.State = stateFromAtoms(names)
	return g, nil
}

func stateFromAtoms(names []string) geometry.State {
	var vert, horz bool
	for _, n := range names {
		switch n {
		case "_NET_WM_STATE_MAXIMIZED_VERT":
			vert = true
		case "_NET_WM_STATE_MAXIMIZED_HORZ":
			horz = true
		}
	}
	if vert && horz {
		return geometry.StateMaximized
	}
	return geometry.StateNormal
}

// _MOTIF_WM_HINTS flag announcing that the decorations field is valid
const motifHintsDecorations = 1 << 1

// decorations prefers an explicit Motif opt-out, then the frame extents
// the window manager publishes, then a Motif opt-in
func decorations(frame, motif []uint32) geometry.Decorations {
	motifSet := len(motif) >= 3 && motif[0]&motifHintsDecorations != 0
	if motifSet && motif[2] == 0 {
		return geometry.DecorationsUndecorated
	}
	if len(frame) == 4 {
		for _, v := range frame {
			if v != 0 {
				return geometry.DecorationsDecorated
			}
		}
		return geometry.DecorationsUndecorated
	}
	if motifSet {
		return geometry.DecorationsDecorated
	}
	return geometry.DecorationsUnknown
}

// Maximize asks the window manager to add both maximized states
func (x *X11) Maximize(ctx context.Context) error {
	conn, err := xutil.Connect(x.Display)
	if err != nil {
		return err
	}
	defer conn.Close()

	state, err := xutil.Atom(conn, "_NET_WM_STATE")
	if err != nil {
		return fmt.Errorf("window manager without EWMH support: %w", err)
	}
	vert, err := xutil.Atom(conn, "_NET_WM_STATE_MAXIMIZED_VERT")
	if err != nil {
		return err
	}
	horz, err := xutil.Atom(conn, "_NET_WM_STATE_MAXIMIZED_HORZ")
	if err != nil {
		return err
	}

	win := clientWindow(conn, xproto.Window(x.WindowID))
	root := xproto.Setup(conn).DefaultScreen(conn).Root
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   state,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			netWMStateAdd, uint32(vert), uint32(horz), sourceApplication, 0,
		}),
	}
	mask := uint32(xproto.EventMaskSubstructureNotify | xproto.EventMaskSubstructureRedirect)
	if err := xproto.SendEventChecked(conn, false, root, mask, string(ev.Bytes())).Check(); err != nil {
		return fmt.Errorf("send _NET_WM_STATE: %w", err)
	}
	return nil
}

// clientWindow walks up from win to the window carrying WM_STATE, which is
// the one the window manager manages. Terminals often export an inner
// widget in WINDOWID.
func clientWindow(conn *xgb.Conn, win xproto.Window) xproto.Window {
	wmState, err := xutil.Atom(conn, "WM_STATE")
	if err != nil {
		return win
	}
	cur := win
	for i := 0; i < 8; i++ {
		prop, err := xproto.GetProperty(conn, false, cur, wmState, xproto.GetPropertyTypeAny, 0, 0).Reply()
		if err == nil && prop.Type != xproto.AtomNone {
			return cur
		}
		tree, err := xproto.QueryTree(conn, cur).Reply()
		if err != nil || tree.Parent == tree.Root || tree.Parent == 0 {
			return cur
		}
		cur = tree.Parent
	}
	return win
}
