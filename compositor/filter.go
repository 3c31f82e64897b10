// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package compositor

import (
	"image"
	"math"

	"github.com/danielhkuo/tipper/media"
)

// stage transforms one unpremultiplied pixel with channels in [0, 1].
type stage func(c *[3]float64)

// mat3 is a row-major colour matrix.
type mat3 [9]float64

func (m mat3) stage() stage {
	return func(c *[3]float64) {
		r, g, b := c[0], c[1], c[2]
		c[0] = m[0]*r + m[1]*g + m[2]*b
		c[1] = m[3]*r + m[4]*g + m[5]*b
		c[2] = m[6]*r + m[7]*g + m[8]*b
	}
}

func scaleStage(k float64) stage {
	return func(c *[3]float64) {
		c[0] *= k
		c[1] *= k
		c[2] *= k
	}
}

func contrastStage(k float64) stage {
	return func(c *[3]float64) {
		for i := range c {
			c[i] = (c[i]-0.5)*k + 0.5
		}
	}
}

func saturateMatrix(s float64) mat3 {
	return mat3{
		0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s,
		0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s,
		0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s,
	}
}

// sepiaMatrix blends towards sepia by amount in [0, 1].
func sepiaMatrix(amount float64) mat3 {
	k := 1 - amount
	return mat3{
		0.393 + 0.607*k, 0.769 - 0.769*k, 0.189 - 0.189*k,
		0.349 - 0.349*k, 0.686 + 0.314*k, 0.168 - 0.168*k,
		0.272 - 0.272*k, 0.534 - 0.534*k, 0.131 + 0.869*k,
	}
}

func hueRotateMatrix(deg float64) mat3 {
	rad := deg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return mat3{
		0.213 + cos*0.787 - sin*0.213, 0.715 - cos*0.715 - sin*0.715, 0.072 - cos*0.072 + sin*0.928,
		0.213 - cos*0.213 + sin*0.143, 0.715 + cos*0.285 + sin*0.140, 0.072 - cos*0.072 - sin*0.283,
		0.213 - cos*0.213 - sin*0.787, 0.715 - cos*0.715 + sin*0.715, 0.072 + cos*0.928 + sin*0.072,
	}
}

// toneStages are the per-pixel steps that run before blur. Identity values
// are skipped.
func toneStages(a media.Adjustments) []stage {
	var out []stage
	if a.Brightness != 100 {
		out = append(out, scaleStage(a.Brightness/100))
	}
	if a.Exposure != 0 {
		out = append(out, scaleStage(1+a.Exposure/100))
	}
	if a.Contrast != 100 {
		out = append(out, contrastStage(a.Contrast/100))
	}
	if a.Saturation != 100 {
		out = append(out, saturateMatrix(a.Saturation/100).stage())
	}
	return out
}

// warmthStages run after blur.
func warmthStages(a media.Adjustments) []stage {
	switch {
	case a.Warmth > 0:
		return []stage{sepiaMatrix(a.Warmth / 100).stage()}
	case a.Warmth < 0:
		return []stage{hueRotateMatrix(a.Warmth).stage()}
	default:
		return nil
	}
}

// applyColorFilter runs the full filter chain over img in place.
func applyColorFilter(img *image.RGBA, a media.Adjustments) {
	applyStages(img, toneStages(a))
	if a.Blur > 0 {
		gaussianBlur(img, a.Blur)
	}
	applyStages(img, warmthStages(a))
}

// applyStages clamps after every stage. Colour is worked on unpremultiplied
// and written back premultiplied.
func applyStages(img *image.RGBA, stages []stage) {
	if len(stages) == 0 {
		return
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			a := row[i+3]
			if a == 0 {
				continue
			}
			alpha := float64(a) / 255
			c := [3]float64{
				float64(row[i]) / 255 / alpha,
				float64(row[i+1]) / 255 / alpha,
				float64(row[i+2]) / 255 / alpha,
			}
			for _, s := range stages {
				s(&c)
				for k := range c {
					c[k] = clamp01(c[k])
				}
			}
			row[i] = to8(c[0] * alpha)
			row[i+1] = to8(c[1] * alpha)
			row[i+2] = to8(c[2] * alpha)
		}
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}
