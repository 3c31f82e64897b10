// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package compositor

import (
	"image"
	"math"
)

// gaussianKernel returns normalised weights for sigma, half-width ceil(3*sigma).
func gaussianKernel(sigma float64) []float64 {
	half := int(math.Ceil(sigma * 3))
	k := make([]float64, 2*half+1)
	var sum float64
	for i := -half; i <= half; i++ {
		w := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		k[i+half] = w
		sum += w
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// gaussianBlur blurs img in place with a separable kernel. Edges clamp.
// Premultiplied channels are blurred directly so transparent pixels do not
// bleed colour.
func gaussianBlur(img *image.RGBA, sigma float64) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || sigma <= 0 {
		return
	}
	k := gaussianKernel(sigma)
	half := len(k) / 2

	src := make([]float64, w*h*4)
	for y := 0; y < h; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < w*4; x++ {
			src[y*w*4+x] = float64(img.Pix[off+x])
		}
	}
	tmp := make([]float64, len(src))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc [4]float64
			for i, wt := range k {
				sx := min(max(x+i-half, 0), w-1)
				p := (y*w + sx) * 4
				acc[0] += src[p] * wt
				acc[1] += src[p+1] * wt
				acc[2] += src[p+2] * wt
				acc[3] += src[p+3] * wt
			}
			copy(tmp[(y*w+x)*4:], acc[:])
		}
	}

	for y := 0; y < h; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < w; x++ {
			var acc [4]float64
			for i, wt := range k {
				sy := min(max(y+i-half, 0), h-1)
				p := (sy*w + x) * 4
				acc[0] += tmp[p] * wt
				acc[1] += tmp[p+1] * wt
				acc[2] += tmp[p+2] * wt
				acc[3] += tmp[p+3] * wt
			}
			o := off + x*4
			a := math.Round(min(max(acc[3], 0), 255))
			img.Pix[o+3] = uint8(a)
			for c := 0; c < 3; c++ {
				img.Pix[o+c] = uint8(math.Round(min(max(acc[c], 0), a)))
			}
		}
	}
}
