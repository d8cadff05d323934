package window

import "github.com/wattfource/envdiag/internal/geometry"

// fromWinsize prefers pixels when the terminal reports them
func fromWinsize(cols, rows, xpixel, ypixel int) geometry.Geometry {
	if xpixel > 0 && ypixel > 0 {
		return geometry.Geometry{
			Width:  xpixel,
			Height: ypixel,
			Bounds: geometry.Rect{Width: xpixel, Height: ypixel},
			Unit:   geometry.UnitPixels,
			Source: "terminal",
		}
	}
	return geometry.Cells(cols, rows)
}
