// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package editor

import (
	"fmt"

	"github.com/danielhkuo/tipper/media"
)

// Direction is a rotation direction.
type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
)

// edit runs fn against the live state and moves the session to Editing.
// When commit is set the result is pushed onto the history.
func (s *Session) edit(commit bool, fn func(st *media.State) error) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require(PhaseCaptured, PhaseEditing); err != nil {
		return View{}, err
	}
	if s.raw == nil {
		return View{}, ErrNoMedia
	}
	if err := fn(&s.state); err != nil {
		return View{}, err
	}
	s.phase = PhaseEditing
	if commit {
		s.history.Commit(s.state.Snapshot())
	}
	return s.viewLocked(), nil
}

// SetAdjustments moves sliders. Values are clamped; nothing is committed.
func (s *Session) SetAdjustments(p media.AdjustmentPatch) (View, error) {
	return s.edit(false, func(st *media.State) error {
		st.Adjustments.Apply(p)
		return nil
	})
}

// ApplyFilter overwrites every slider with the preset and commits.
func (s *Session) ApplyFilter(id media.FilterID) (View, error) {
	return s.edit(true, func(st *media.State) error {
		if err := st.Adjustments.ApplyFilter(id); err != nil {
			return err
		}
		st.Filter = id
		return nil
	})
}

func (s *Session) Rotate(d Direction) (View, error) {
	return s.edit(true, func(st *media.State) error {
		switch d {
		case Left:
			st.Geometry.RotateLeft()
		case Right:
			st.Geometry.RotateRight()
		default:
			return fmt.Errorf("unknown direction %q", d)
		}
		return nil
	})
}

func (s *Session) Flip() (View, error) {
	return s.edit(true, func(st *media.State) error {
		st.Geometry.ToggleFlip()
		return nil
	})
}

// SetView changes zoom and pan without committing.
func (s *Session) SetView(zoom, panX, panY float64) (View, error) {
	return s.edit(false, func(st *media.State) error {
		st.Geometry.SetZoom(zoom)
		st.Geometry.SetPan(panX, panY)
		return nil
	})
}

// AddText appends a text overlay and commits. The new id is returned.
func (s *Session) AddText(t media.TextOverlay) (string, View, error) {
	var id string
	v, err := s.edit(true, func(st *media.State) error {
		id = st.Overlays.AddText(t)
		return nil
	})
	return id, v, err
}

func (s *Session) AddSticker(sticker media.StickerOverlay) (string, View, error) {
	var id string
	v, err := s.edit(true, func(st *media.State) error {
		id = st.Overlays.AddSticker(sticker)
		return nil
	})
	return id, v, err
}

// UpdateText patches an overlay in place. Unknown ids leave every overlay
// unchanged and are not an error.
func (s *Session) UpdateText(id string, p media.TextPatch) (View, error) {
	return s.edit(false, func(st *media.State) error {
		st.Overlays.UpdateText(id, p)
		return nil
	})
}

func (s *Session) UpdateSticker(id string, p media.StickerPatch) (View, error) {
	return s.edit(false, func(st *media.State) error {
		st.Overlays.UpdateSticker(id, p)
		return nil
	})
}

// RemoveOverlay deletes an overlay of either kind and commits.
func (s *Session) RemoveOverlay(id string) (View, error) {
	return s.edit(true, func(st *media.State) error {
		if !st.Overlays.Remove(id) {
			return fmt.Errorf("%w: %s", ErrOverlayNotFound, id)
		}
		return nil
	})
}

// Overlay looks an overlay up by id.
func (s *Session) Overlay(id string) (media.Overlay, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Overlays.Get(id)
}

// Commit records the current state, typically at the end of a slider drag.
func (s *Session) Commit() (View, error) {
	return s.edit(true, func(*media.State) error { return nil })
}

// Undo restores the previous snapshot. At the first snapshot it is a no-op.
func (s *Session) Undo() (View, error) {
	return s.travel((*media.History).Undo)
}

// Redo restores the next snapshot. With nothing to redo it is a no-op.
func (s *Session) Redo() (View, error) {
	return s.travel((*media.History).Redo)
}

func (s *Session) travel(step func(*media.History) (media.Snapshot, bool)) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.require(PhaseCaptured, PhaseEditing); err != nil {
		return View{}, err
	}
	if s.raw == nil {
		return View{}, ErrNoMedia
	}
	if snap, ok := step(s.history); ok {
		s.state = snap.State()
		s.phase = PhaseEditing
	}
	return s.viewLocked(), nil
}

// State returns a deep copy of the live edit state.
func (s *Session) State() media.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}
