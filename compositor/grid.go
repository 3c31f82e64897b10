// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package compositor

import (
	"image"
	"image/draw"

	"github.com/gogpu/gg"
)

// GridSpacing is the distance between grid lines in pixels.
const GridSpacing = 50

// drawGrid strokes translucent white lines every spacing pixels.
func drawGrid(dst *image.RGBA, spacing int) {
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	if w == 0 || h == 0 || spacing <= 0 {
		return
	}
	dc := gg.NewContext(w, h)
	defer dc.Close()

	dc.SetRGBA(1, 1, 1, 0.35)
	dc.SetLineWidth(1)
	for x := spacing; x < w; x += spacing {
		dc.DrawLine(float64(x)+0.5, 0, float64(x)+0.5, float64(h))
	}
	for y := spacing; y < h; y += spacing {
		dc.DrawLine(0, float64(y)+0.5, float64(w), float64(y)+0.5)
	}
	if err := dc.Stroke(); err != nil {
		return
	}
	_ = dc.FlushGPU()

	draw.Draw(dst, dst.Bounds(), dc.Image(), image.Point{}, draw.Over)
}
