// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package compositor flattens a RawMedia and its edit state into one raster.

Render always runs the same steps in the same order:

 1. Allocate an RGBA canvas at the media's natural size.
 2. Draw the frame rotated, mirrored and zoomed about the canvas centre.
 3. Run the colour filter over the whole canvas: brightness, exposure,
    contrast and saturation, then a Gaussian blur, then warmth (a sepia tint
    when positive, a hue rotation when negative).
 4. Add grain, independent symmetric noise per channel.
 5. Paint text overlays in collection order.
 6. Paint stickers in collection order, each rotated about its centre.
 7. Optionally lay a translucent grid on top, for previews only.

Given equal inputs and zero grain the output is byte-for-byte identical.
Missing or zero-sized media produce an empty canvas, never an error.

Text goes through a FontBook of gogpu/gg text faces. The Go font families are
registered by default; Register adds more, for example an emoji font so
stickers render in colour.
*/
package compositor
