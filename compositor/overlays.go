// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package compositor

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/danielhkuo/tipper/media"
)

// parseColor reads a hex colour, defaulting to white.
func parseColor(hex string) color.Color {
	if strings.TrimPrefix(hex, "#") == "" {
		return color.White
	}
	return gg.Hex(hex).Color()
}

// drawText paints t with its top-left corner at (X, Y). Newlines start a new
// line one line-height down.
func (c *Compositor) drawText(dst *image.RGBA, t media.TextOverlay) {
	if t.Text == "" || c.fonts == nil {
		return
	}
	face := c.fonts.Face(t.FontFamily, StyleOf(t.Bold, t.Italic), t.FontSize)
	if face == nil {
		return
	}
	m := face.Metrics()
	col := parseColor(t.Color)
	baseline := t.Y + m.Ascent
	for _, line := range strings.Split(t.Text, "\n") {
		text.Draw(dst, line, face, t.X, baseline, col)
		baseline += m.LineHeight()
	}
}

// drawSticker paints the emoji centred on (X, Y), rotated about that point.
func (c *Compositor) drawSticker(dst *image.RGBA, s media.StickerOverlay) {
	if s.Emoji == "" || c.fonts == nil {
		return
	}
	face := c.fonts.Face(FamilyEmoji, StyleRegular, s.Size)
	if face == nil {
		return
	}

	side := int(math.Ceil(s.Size * 2))
	tile := image.NewRGBA(image.Rect(0, 0, side, side))
	m := face.Metrics()
	w, _ := text.Measure(s.Emoji, face)
	half := float64(side) / 2
	text.DrawWithEmoji(tile, s.Emoji, face, half-w/2, half+(m.Ascent-m.Descent)/2, color.Black)

	if math.Mod(s.Rotation, 360) == 0 {
		at := image.Pt(int(math.Round(s.X-half)), int(math.Round(s.Y-half)))
		xdraw.Draw(dst, tile.Bounds().Add(at), tile, image.Point{}, xdraw.Over)
		return
	}

	rad := s.Rotation * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	m2 := f64.Aff3{
		cos, -sin, s.X - cos*half + sin*half,
		sin, cos, s.Y - sin*half - cos*half,
	}
	xdraw.BiLinear.Transform(dst, m2, tile, tile.Bounds(), xdraw.Over, nil)
}
