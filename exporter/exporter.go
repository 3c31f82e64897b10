// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package exporter encodes composited frames for upload.
//
// JPEG honours the quality hint; PNG and GIF ignore it. WebP has no encoder
// available, so a WebP request falls back to PNG and the result says so.
package exporter

import (
	"bytes"
	"errors"
	"fmt"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math"
	"strings"

	"github.com/danielhkuo/tipper/compositor"
)

var (
	ErrEncodeFailure = errors.New("encode failed")
	ErrNoOutput      = errors.New("nothing to export")
)

const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
	MIMEGIF  = "image/gif"
	MIMEWebP = "image/webp"
)

// DefaultQuality is used when the caller passes a hint outside [0, 1].
const DefaultQuality = 0.92

// Result is an encoded frame.
type Result struct {
	Bytes    []byte
	MIMEType string
}

// Export encodes out as mimeType. An empty mimeType means PNG.
func Export(out *compositor.Output, mimeType string, quality float64) (*Result, error) {
	if out.Empty() {
		return nil, ErrNoOutput
	}

	mimeType = normalize(mimeType)
	var buf bytes.Buffer
	var err error
	switch mimeType {
	case MIMEJPEG:
		err = jpeg.Encode(&buf, out.Image, &jpeg.Options{Quality: jpegQuality(quality)})
	case MIMEPNG, MIMEWebP:
		mimeType = MIMEPNG
		err = png.Encode(&buf, out.Image)
	case MIMEGIF:
		err = gif.Encode(&buf, out.Image, nil)
	default:
		return nil, fmt.Errorf("%w: unsupported type %q", ErrEncodeFailure, mimeType)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEncodeFailure, mimeType, err)
	}
	return &Result{Bytes: buf.Bytes(), MIMEType: mimeType}, nil
}

// Supported reports whether Export accepts mimeType.
func Supported(mimeType string) bool {
	switch normalize(mimeType) {
	case MIMEJPEG, MIMEPNG, MIMEGIF, MIMEWebP:
		return true
	}
	return false
}

// ForSource picks the export type that keeps the family of the source.
// Image sources keep their own type when it is supported, otherwise PNG.
func ForSource(sourceMIME string) string {
	if Supported(sourceMIME) {
		if m := normalize(sourceMIME); m != MIMEWebP {
			return m
		}
	}
	return MIMEPNG
}

func normalize(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	base = strings.ToLower(strings.TrimSpace(base))
	switch base {
	case "":
		return MIMEPNG
	case "image/jpg", "image/pjpeg":
		return MIMEJPEG
	}
	return base
}

// jpegQuality maps [0, 1] onto the encoder's 1..100. 0 is the smallest
// output, not "unset".
func jpegQuality(q float64) int {
	if math.IsNaN(q) || q < 0 || q > 1 {
		q = DefaultQuality
	}
	return max(int(math.Round(q*100)), 1)
}
