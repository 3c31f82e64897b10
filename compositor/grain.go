// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package compositor

import (
	"image"
	"math"
	"math/rand/v2"
)

// applyGrain adds (u*2-1)*intensity to every colour channel, u uniform in
// [0, 1). Channels stay within [0, alpha].
func applyGrain(img *image.RGBA, intensity float64, rng *rand.Rand) {
	next := rand.Float64
	if rng != nil {
		next = rng.Float64
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			a := float64(row[i+3])
			if a == 0 {
				continue
			}
			for c := 0; c < 3; c++ {
				v := float64(row[i+c]) + (next()*2-1)*intensity
				row[i+c] = uint8(math.Round(min(max(v, 0), a)))
			}
		}
	}
}
