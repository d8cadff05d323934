// Package xutil wraps the few X11 property reads shared by the display and
// window queries.
package xutil

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// Connect opens a connection to the given X display, e.g. ":0"
func Connect(display string) (*xgb.Conn, error) {
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("connect to X display %q: %w", display, err)
	}
	return conn, nil
}

// Atom interns name without creating it
func Atom(conn *xgb.Conn, name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(conn, true, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("intern %s: %w", name, err)
	}
	if reply.Atom == xproto.AtomNone {
		return 0, fmt.Errorf("atom %s is not defined", name)
	}
	return reply.Atom, nil
}

// AtomName resolves an atom back to its name
func AtomName(conn *xgb.Conn, atom xproto.Atom) (string, error) {
	reply, err := xproto.GetAtomName(conn, atom).Reply()
	if err != nil {
		return "", err
	}
	return reply.Name, nil
}

// Property32 reads a 32 bit list property of win
func Property32(conn *xgb.Conn, win xproto.Window, name string, typ xproto.Atom) ([]uint32, error) {
	atom, err := Atom(conn, name)
	if err != nil {
		return nil, err
	}
	reply, err := xproto.GetProperty(conn, false, win, atom, typ, 0, 4096).Reply()
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", name, err)
	}
	if reply.Format != 32 {
		return nil, fmt.Errorf("%s is not set", name)
	}
	vals := make([]uint32, reply.ValueLen)
	for i := range vals {
		vals[i] = xgb.Get32(reply.Value[i*4:])
	}
	return vals, nil
}

// Atoms reads an ATOM[] property, such as _NET_WM_STATE
func Atoms(conn *xgb.Conn, win xproto.Window, name string) ([]xproto.Atom, error) {
	vals, err := Property32(conn, win, name, xproto.AtomAtom)
	if err != nil {
		return nil, err
	}
	atoms := make([]xproto.Atom, len(vals))
	for i, v := range vals {
		atoms[i] = xproto.Atom(v)
	}
	return atoms, nil
}
