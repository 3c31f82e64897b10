// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package editor

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/danielhkuo/tipper/capture"
	"github.com/danielhkuo/tipper/compositor"
	"github.com/danielhkuo/tipper/media"
)

// Config is shared by every session of a Store.
type Config struct {
	Acquirer       *capture.Acquirer
	Compositor     *compositor.Compositor
	AI             AIEditor
	AITimeout      time.Duration
	MaxUploadBytes int64
	MaxImagePixels int64
	// OnSave receives every successful save unless Save is given its own sink.
	OnSave SaveFunc
}

// Session is one editor dialog. All methods are safe for concurrent use.
type Session struct {
	id      string
	cfg     Config
	created time.Time

	mu       sync.Mutex
	phase    Phase
	raw      *media.RawMedia
	state    media.State
	history  *media.History
	stream   capture.Stream
	gen      uint64 // bumped whenever pending captures and imports go stale
	saving   bool
	lastErr  error
	lastUsed time.Time
}

func newSession(id string, cfg Config, now time.Time) *Session {
	return &Session{
		id:       id,
		cfg:      cfg,
		created:  now,
		phase:    PhaseIdle,
		state:    media.NewState(),
		history:  media.NewHistory(),
		lastUsed: now,
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// LastError is the most recent capture or import failure, cleared on success.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// require checks the current phase. Callers hold s.mu.
func (s *Session) require(phases ...Phase) error {
	if s.phase == PhaseClosed {
		return ErrSessionClosed
	}
	if slices.Contains(phases, s.phase) {
		return nil
	}
	return fmt.Errorf("%w: not allowed while %s", ErrInvalidTransition, s.phase)
}

// stopStream releases the open camera, if any. Callers hold s.mu.
func (s *Session) stopStream() {
	if s.stream != nil {
		s.stream.Stop()
		slog.Info("camera released", "session_id", s.id, "device_id", s.stream.DeviceID())
		s.stream = nil
	}
}

// StartCapture opens a camera through the fallback tiers. Any open stream is
// stopped first. The returned task resolves once the camera is open or every
// tier has failed; in the latter case the session stays in Capturing.
func (s *Session) StartCapture(deviceID string, facing capture.Facing) (*capture.Task[View], error) {
	s.mu.Lock()
	if err := s.require(PhaseIdle, PhaseCapturing); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	task := s.beginCaptureLocked(deviceID, facing)
	s.mu.Unlock()
	return task, nil
}

// Retake drops the current media and edits and starts capturing again.
func (s *Session) Retake(deviceID string, facing capture.Facing) (*capture.Task[View], error) {
	s.mu.Lock()
	if err := s.require(PhaseCaptured, PhaseEditing); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.raw = nil
	s.state = media.NewState()
	s.history.Reset()
	task := s.beginCaptureLocked(deviceID, facing)
	s.mu.Unlock()
	return task, nil
}

func (s *Session) beginCaptureLocked(deviceID string, facing capture.Facing) *capture.Task[View] {
	s.stopStream()
	s.gen++
	gen := s.gen
	s.phase = PhaseCapturing
	s.lastErr = nil
	slog.Info("capture started", "session_id", s.id, "device_id", deviceID, "facing", facing)

	// Acquisition is not aborted by the caller going away; a late stream is
	// released below instead.
	ctx := context.Background()
	return capture.Go(ctx, func(ctx context.Context) (View, error) {
		if s.cfg.Acquirer == nil {
			return s.captureResolved(gen, nil, capture.ErrDeviceNotFound)
		}
		stream, err := s.cfg.Acquirer.Acquire(ctx, deviceID, facing)
		return s.captureResolved(gen, stream, err)
	})
}

func (s *Session) captureResolved(gen uint64, stream capture.Stream, err error) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseClosed || gen != s.gen || s.phase != PhaseCapturing {
		if stream != nil {
			stream.Stop()
			slog.Info("late camera stream released", "session_id", s.id, "device_id", stream.DeviceID())
		}
		if s.phase == PhaseClosed {
			return View{}, ErrSessionClosed
		}
		return View{}, ErrSuperseded
	}
	if err != nil {
		s.lastErr = err
		slog.Warn("capture failed", "session_id", s.id, "error", err)
		return s.viewLocked(), err
	}
	s.stream = stream
	return s.viewLocked(), nil
}

// TakePhoto freezes the current frame and releases the camera.
func (s *Session) TakePhoto(ctx context.Context) (View, error) {
	s.mu.Lock()
	if err := s.require(PhaseCapturing); err != nil {
		s.mu.Unlock()
		return View{}, err
	}
	stream := s.stream
	if stream == nil {
		s.mu.Unlock()
		return View{}, ErrNoStream
	}
	s.stream = nil
	gen := s.gen
	s.mu.Unlock()

	raw, err := capture.CaptureFrame(ctx, stream)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseClosed {
		return View{}, ErrSessionClosed
	}
	if gen != s.gen {
		return View{}, ErrSuperseded
	}
	if err != nil {
		s.lastErr = err
		slog.Warn("photo capture failed", "session_id", s.id, "error", err)
		return s.viewLocked(), err
	}
	s.setMediaLocked(raw)
	slog.Info("photo captured", "session_id", s.id, "width", raw.Width, "height", raw.Height)
	return s.viewLocked(), nil
}

// Import decodes f off the caller's goroutine. On success the imported media
// replaces whatever was loaded and any open stream is stopped. On failure the
// session is left as it was apart from LastError.
func (s *Session) Import(f capture.File) (*capture.Task[View], error) {
	s.mu.Lock()
	if err := s.require(PhaseIdle, PhaseCapturing, PhaseCaptured, PhaseEditing); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	gen := s.gen
	s.mu.Unlock()

	decode := capture.ImportFile(context.Background(), f, capture.Limits{
		MaxBytes:  s.cfg.MaxUploadBytes,
		MaxPixels: s.cfg.MaxImagePixels,
	})
	return capture.Go(context.Background(), func(ctx context.Context) (View, error) {
		raw, err := decode.Wait(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.phase == PhaseClosed {
			return View{}, ErrSessionClosed
		}
		if err != nil {
			s.lastErr = err
			slog.Warn("import failed", "session_id", s.id, "file", f.Name, "error", err)
			return s.viewLocked(), err
		}
		if gen != s.gen {
			return View{}, ErrSuperseded
		}
		s.stopStream()
		s.gen++
		s.setMediaLocked(raw)
		slog.Info("media imported", "session_id", s.id, "kind", raw.Kind, "mime_type", raw.MIMEType)
		return s.viewLocked(), nil
	}), nil
}

// setMediaLocked installs raw with a fresh edit state and history.
func (s *Session) setMediaLocked(raw *media.RawMedia) {
	s.raw = raw
	s.state = media.NewState()
	s.history.Reset()
	s.history.Commit(s.state.Snapshot())
	s.lastErr = nil
	s.phase = PhaseCaptured
}

// Media returns the loaded media, or nil.
func (s *Session) Media() *media.RawMedia {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raw
}

// Close releases everything. Calling it again is a no-op.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseClosed {
		return
	}
	s.stopStream()
	s.gen++
	s.phase = PhaseClosed
	s.raw = nil
	s.state = media.NewState()
	s.history.Reset()
	slog.Info("session closed", "session_id", s.id)
}
