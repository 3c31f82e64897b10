// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package compositor

import (
	"image"
	"math/rand/v2"

	"github.com/danielhkuo/tipper/media"
)

// Options tune a single Render call.
type Options struct {
	// ShowGrid lays the framing grid over the result. Preview only.
	ShowGrid bool
	// Rand drives grain. nil uses the global source.
	Rand *rand.Rand
}

// Output is a composited frame. It is never modified after Render returns.
type Output struct {
	Image *image.RGBA
}

// Empty reports whether nothing was drawn.
func (o *Output) Empty() bool {
	return o == nil || o.Image == nil || o.Image.Bounds().Empty()
}

func (o *Output) Width() int  { return o.Image.Bounds().Dx() }
func (o *Output) Height() int { return o.Image.Bounds().Dy() }

type Compositor struct {
	fonts *FontBook
}

func New(fonts *FontBook) *Compositor {
	return &Compositor{fonts: fonts}
}

func (c *Compositor) Fonts() *FontBook { return c.fonts }

// Render produces the flattened frame for raw under st.
func (c *Compositor) Render(raw *media.RawMedia, st media.State, opts Options) *Output {
	if !raw.Drawable() {
		return &Output{Image: image.NewRGBA(image.Rectangle{})}
	}

	canvas := image.NewRGBA(image.Rect(0, 0, raw.Width, raw.Height))
	drawTransformed(canvas, raw.Pixels, st.Geometry)

	applyColorFilter(canvas, st.Adjustments)
	if st.Adjustments.Grain > 0 {
		applyGrain(canvas, st.Adjustments.Grain, opts.Rand)
	}

	for _, t := range st.Overlays.Texts() {
		c.drawText(canvas, t)
	}
	for _, s := range st.Overlays.Stickers() {
		c.drawSticker(canvas, s)
	}

	if opts.ShowGrid {
		drawGrid(canvas, GridSpacing)
	}
	return &Output{Image: canvas}
}
