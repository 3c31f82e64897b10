// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package media holds the value types of the photo/video editor.

# Raw Media

RawMedia is the decoded, unedited capture or import. It is never mutated;
a retake or a new import replaces it wholesale:

	raw := media.NewImage(img, "image/jpeg", nil)

# Edit State

State groups everything that affects the composited output:

  - Adjustments: brightness, contrast, saturation, blur, grain, warmth, exposure
  - Geometry: rotation, horizontal flip, zoom, pan
  - Filter: the last selected preset
  - Overlays: text and sticker layers in paint order

Every setter clamps to its bound instead of rejecting the value:

	var a media.Adjustments
	a.SetBrightness(500) // a.Brightness == 200

# Presets

FilterID is a closed set. Selecting a preset overwrites every adjustment at
once; FilterNormal restores DefaultAdjustments:

	err := a.ApplyFilter(media.FilterVintage)

# History

History is a linear undo log of Snapshots. Commit discards any redo branch:

	h := media.NewHistory()
	h.Commit(state.Snapshot())
	snap, ok := h.Undo()

The first committed snapshot can never be undone past.
*/
package media
