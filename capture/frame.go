// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package capture

import (
	"context"
	"fmt"
	"image"
	"image/draw"

	"github.com/danielhkuo/tipper/media"
)

// CaptureFrame freezes the current frame of s at its native resolution.
// s is stopped before returning, whatever the outcome.
func CaptureFrame(ctx context.Context, s Stream) (*media.RawMedia, error) {
	defer s.Stop()

	frame, err := s.Frame(ctx)
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	b := frame.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("read frame: empty %v", b)
	}

	still := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(still, still.Bounds(), frame, b.Min, draw.Src)
	return media.NewImage(still, "image/png", nil), nil
}
