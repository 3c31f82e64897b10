// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package editor

import (
	"github.com/danielhkuo/tipper/capture"
	"github.com/danielhkuo/tipper/media"
)

// View is the client-facing picture of a session.
type View struct {
	SessionID   string                 `json:"session_id"`
	Phase       Phase                  `json:"phase"`
	Media       *MediaInfo             `json:"media,omitempty"`
	Adjustments media.Adjustments      `json:"adjustments"`
	Geometry    media.Geometry         `json:"geometry"`
	Filter      media.FilterID         `json:"filter"`
	Texts       []media.TextOverlay    `json:"texts"`
	Stickers    []media.StickerOverlay `json:"stickers"`
	History     HistoryInfo            `json:"history"`
	Camera      *CameraInfo            `json:"camera,omitempty"`
	LastError   string                 `json:"last_error,omitempty"`
}

type MediaInfo struct {
	Kind     media.Kind `json:"kind"`
	Width    int        `json:"width"`
	Height   int        `json:"height"`
	MIMEType string     `json:"mime_type"`
}

type HistoryInfo struct {
	Index   int  `json:"index"`
	Length  int  `json:"length"`
	CanUndo bool `json:"can_undo"`
	CanRedo bool `json:"can_redo"`
}

type CameraInfo struct {
	DeviceID string `json:"device_id"`
	Active   bool   `json:"active"`
}

// View returns the current session view.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	v := View{
		SessionID:   s.id,
		Phase:       s.phase,
		Adjustments: s.state.Adjustments,
		Geometry:    s.state.Geometry,
		Filter:      s.state.Filter,
		Texts:       s.state.Overlays.Texts(),
		Stickers:    s.state.Overlays.Stickers(),
		History: HistoryInfo{
			Index:   s.history.Index(),
			Length:  s.history.Len(),
			CanUndo: s.history.CanUndo(),
			CanRedo: s.history.CanRedo(),
		},
	}
	if s.raw != nil {
		v.Media = &MediaInfo{
			Kind:     s.raw.Kind,
			Width:    s.raw.Width,
			Height:   s.raw.Height,
			MIMEType: s.raw.MIMEType,
		}
	}
	if s.stream != nil {
		v.Camera = &CameraInfo{DeviceID: s.stream.DeviceID(), Active: s.stream.Active()}
	}
	if s.lastErr != nil {
		v.LastError = capture.UserMessage(s.lastErr)
	}
	return v
}
