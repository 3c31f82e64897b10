// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"

	_ "golang.org/x/image/webp"

	"github.com/danielhkuo/tipper/media"
)

// File is an upload waiting to be decoded.
type File struct {
	Name string
	// MIMEType is what the client declared. The sniffed type wins when the
	// content is recognised.
	MIMEType string
	Body     io.Reader
}

// Limits bound an import. Zero fields mean no limit.
type Limits struct {
	MaxBytes int64
	// MaxPixels caps width*height of a still image, checked from the header
	// before any pixels are allocated.
	MaxPixels int64
}

// ImportFile reads and decodes f on its own goroutine. Every failure wraps
// ErrUnreadableFile.
func ImportFile(ctx context.Context, f File, lim Limits) *Task[*media.RawMedia] {
	return Go(ctx, func(ctx context.Context) (*media.RawMedia, error) {
		return decodeFile(ctx, f, lim)
	})
}

func decodeFile(ctx context.Context, f File, lim Limits) (*media.RawMedia, error) {
	maxBytes := lim.MaxBytes
	if f.Body == nil {
		return nil, fmt.Errorf("%w: no content", ErrUnreadableFile)
	}
	r := f.Body
	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrUnreadableFile, maxBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrUnreadableFile)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mimeType := sniff(data, f.MIMEType)
	switch {
	case strings.HasPrefix(mimeType, "video/"):
		return media.NewVideo(data, mimeType), nil
	case strings.HasPrefix(mimeType, "image/"):
		hdr, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", ErrUnreadableFile, mimeType, err)
		}
		if lim.MaxPixels > 0 && int64(hdr.Width)*int64(hdr.Height) > lim.MaxPixels {
			return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrUnreadableFile, hdr.Width, hdr.Height, lim.MaxPixels)
		}
		img, format, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", ErrUnreadableFile, mimeType, err)
		}
		return media.NewImage(img, "image/"+format, data), nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %q", ErrUnreadableFile, mimeType)
	}
}

// sniff prefers the content-derived type, falling back to declared.
func sniff(data []byte, declared string) string {
	detected := http.DetectContentType(data)
	if detected != "application/octet-stream" && !strings.HasPrefix(detected, "text/") {
		return stripParams(detected)
	}
	return stripParams(strings.ToLower(declared))
}

func stripParams(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.TrimSpace(base)
}
