// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package media

const (
	MinZoom = 0.1
	MaxZoom = 3.0
)

// Geometry is the transform applied to the source frame.
// Rotation accumulates in quarter turns and is never wrapped; use
// NormalizedRotation for drawing. Pan is a viewport offset for the client
// preview and is not baked into the composited output.
type Geometry struct {
	Rotation int     `json:"rotation"`
	FlipH    bool    `json:"flip_horizontal"`
	Zoom     float64 `json:"zoom"`
	PanX     float64 `json:"pan_x"`
	PanY     float64 `json:"pan_y"`
}

func DefaultGeometry() Geometry {
	return Geometry{Zoom: 1}
}

func (g *Geometry) RotateRight() { g.Rotation += 90 }
func (g *Geometry) RotateLeft()  { g.Rotation -= 90 }
func (g *Geometry) ToggleFlip()  { g.FlipH = !g.FlipH }

func (g *Geometry) SetZoom(z float64) { g.Zoom = clamp(z, MinZoom, MaxZoom) }

func (g *Geometry) SetPan(x, y float64) {
	g.PanX, g.PanY = x, y
}

// NormalizedRotation folds Rotation into [0, 360).
func (g Geometry) NormalizedRotation() int {
	r := g.Rotation % 360
	if r < 0 {
		r += 360
	}
	return r
}

// Identity reports whether drawing with g is a plain copy.
func (g Geometry) Identity() bool {
	return g.NormalizedRotation() == 0 && !g.FlipH && g.Zoom == 1
}
