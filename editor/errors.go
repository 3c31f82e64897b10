// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package editor

import "errors"

var (
	ErrNoMedia           = errors.New("no media loaded")
	ErrSessionClosed     = errors.New("session closed")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrNoStream          = errors.New("no camera stream open")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSuperseded        = errors.New("superseded by a newer capture or import")
	ErrSaveInProgress    = errors.New("save already in progress")
	ErrRenderFailed      = errors.New("render failed")
	ErrOverlayNotFound   = errors.New("overlay not found")
)
