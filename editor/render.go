// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package editor

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/danielhkuo/tipper/compositor"
	"github.com/danielhkuo/tipper/exporter"
	"github.com/danielhkuo/tipper/media"
)

// MediaType is the kind reported to save sinks.
type MediaType string

const (
	MediaPhoto MediaType = "photo"
	MediaVideo MediaType = "video"
)

// SavedMedia is handed to a SaveFunc once per successful save.
type SavedMedia struct {
	SessionID   string
	Bytes       []byte
	Description string
	Type        MediaType
	MIMEType    string
}

// SaveFunc persists or uploads a save. A returned error fails the save and
// leaves the session editable.
type SaveFunc func(ctx context.Context, m SavedMedia) error

// SaveRequest describes the export.
type SaveRequest struct {
	Description string
	// MIMEType overrides the export type. Empty keeps the source's type.
	MIMEType string
	// Quality is the lossy hint in [0, 1]. Nil means exporter.DefaultQuality.
	Quality *float64
}

// Render composites the current state. A panic inside the compositor is
// logged and reported as ErrRenderFailed.
func (s *Session) Render(opts compositor.Options) (*compositor.Output, error) {
	s.mu.Lock()
	if s.phase == PhaseClosed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	raw := s.raw
	st := s.state.Clone()
	s.mu.Unlock()

	if raw == nil {
		return nil, ErrNoMedia
	}
	return s.render(raw, st, opts)
}

func (s *Session) render(raw *media.RawMedia, st media.State, opts compositor.Options) (out *compositor.Output, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("render panic", "session_id", s.id, "panic", r, "stack", string(debug.Stack()))
			out, err = nil, ErrRenderFailed
		}
	}()
	if s.cfg.Compositor == nil {
		return nil, fmt.Errorf("%w: no compositor configured", ErrRenderFailed)
	}
	return s.cfg.Compositor.Render(raw, st, opts), nil
}

// Save exports the edited media and hands it to sink, or Config.OnSave when
// sink is nil. Videos are passed through unchanged. The session moves to
// Exported only when the sink succeeds.
func (s *Session) Save(ctx context.Context, req SaveRequest, sink SaveFunc) (*SavedMedia, error) {
	s.mu.Lock()
	if err := s.require(PhaseCaptured, PhaseEditing); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if s.raw == nil {
		s.mu.Unlock()
		return nil, ErrNoMedia
	}
	if s.saving {
		s.mu.Unlock()
		return nil, ErrSaveInProgress
	}
	s.saving = true
	raw := s.raw
	st := s.state.Clone()
	s.mu.Unlock()

	saved, err := s.export(ctx, raw, st, req, sink)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		return nil, err
	}
	if s.phase == PhaseClosed {
		return saved, nil
	}
	s.stopStream()
	s.phase = PhaseExported
	slog.Info("media saved", "session_id", s.id, "type", saved.Type, "mime_type", saved.MIMEType, "bytes", len(saved.Bytes))
	return saved, nil
}

func (s *Session) export(ctx context.Context, raw *media.RawMedia, st media.State, req SaveRequest, sink SaveFunc) (*SavedMedia, error) {
	saved := &SavedMedia{SessionID: s.id, Description: req.Description}

	if raw.Kind == media.KindVideo {
		if req.MIMEType != "" && req.MIMEType != raw.MIMEType {
			return nil, fmt.Errorf("%w: video cannot be exported as %q", exporter.ErrEncodeFailure, req.MIMEType)
		}
		saved.Type = MediaVideo
		saved.Bytes = raw.Source
		saved.MIMEType = raw.MIMEType
	} else {
		out, err := s.render(raw, st, compositor.Options{})
		if err != nil {
			return nil, err
		}
		mimeType := req.MIMEType
		if mimeType == "" {
			mimeType = exporter.ForSource(raw.MIMEType)
		}
		quality := exporter.DefaultQuality
		if req.Quality != nil {
			quality = *req.Quality
		}
		res, err := exporter.Export(out, mimeType, quality)
		if err != nil {
			return nil, err
		}
		saved.Type = MediaPhoto
		saved.Bytes = res.Bytes
		saved.MIMEType = res.MIMEType
	}

	if sink == nil {
		sink = s.cfg.OnSave
	}
	if sink != nil {
		if err := sink(ctx, *saved); err != nil {
			return nil, fmt.Errorf("save: %w", err)
		}
	}
	return saved, nil
}
