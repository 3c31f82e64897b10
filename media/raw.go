// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package media

import (
	"image"
	"strings"
)

// Kind tells photos and videos apart
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// RawMedia is an unedited capture or import. Treat it as immutable.
type RawMedia struct {
	Kind     Kind
	Pixels   image.Image // decoded frame, nil for videos without a poster frame
	Width    int
	Height   int
	MIMEType string
	Source   []byte // original file bytes, nil for camera captures
}

// NewImage wraps a decoded frame. source may be nil.
func NewImage(img image.Image, mimeType string, source []byte) *RawMedia {
	m := &RawMedia{
		Kind:     KindImage,
		Pixels:   img,
		MIMEType: mimeType,
		Source:   source,
	}
	if img != nil {
		m.Width = img.Bounds().Dx()
		m.Height = img.Bounds().Dy()
	}
	return m
}

// NewVideo wraps an imported video file. Videos are passed through untouched.
func NewVideo(source []byte, mimeType string) *RawMedia {
	return &RawMedia{
		Kind:     KindVideo,
		MIMEType: mimeType,
		Source:   source,
	}
}

// Drawable reports whether there is a frame the compositor can paint.
func (m *RawMedia) Drawable() bool {
	return m != nil && m.Pixels != nil && m.Width > 0 && m.Height > 0
}

// MIMEFamily returns the part before the slash ("image", "video").
func (m *RawMedia) MIMEFamily() string {
	if m == nil {
		return ""
	}
	family, _, _ := strings.Cut(m.MIMEType, "/")
	return family
}
