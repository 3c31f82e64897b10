// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package compositor

import (
	"image"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/danielhkuo/tipper/media"
)

// quarterTurn returns exact cos and sin for a multiple of 90 degrees.
func quarterTurn(deg int) (cos, sin float64) {
	switch deg {
	case 90:
		return 0, 1
	case 180:
		return -1, 0
	case 270:
		return 0, -1
	default:
		return 1, 0
	}
}

// sourceToCanvas maps source pixels onto a w x h canvas: centre the frame,
// rotate, mirror, then zoom, all about the canvas centre.
func sourceToCanvas(src image.Rectangle, w, h int, g media.Geometry) f64.Aff3 {
	cos, sin := quarterTurn(g.NormalizedRotation())
	sx := g.Zoom
	if g.FlipH {
		sx = -sx
	}
	sy := g.Zoom

	// A = R * S
	a00, a01 := cos*sx, -sin*sy
	a10, a11 := sin*sx, cos*sy

	cx, cy := float64(w)/2, float64(h)/2
	ox := float64(src.Min.X) + float64(src.Dx())/2
	oy := float64(src.Min.Y) + float64(src.Dy())/2

	return f64.Aff3{
		a00, a01, cx - a00*ox - a01*oy,
		a10, a11, cy - a10*ox - a11*oy,
	}
}

func drawTransformed(dst *image.RGBA, src image.Image, g media.Geometry) {
	b := src.Bounds()
	if g.Identity() {
		xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
		return
	}

	var interp xdraw.Transformer = xdraw.NearestNeighbor
	if g.Zoom != 1 {
		interp = xdraw.BiLinear
	}
	m := sourceToCanvas(b, dst.Bounds().Dx(), dst.Bounds().Dy(), g)
	interp.Transform(dst, m, src, b, xdraw.Over, nil)
}
