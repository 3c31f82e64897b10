// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package media

// State is everything that feeds the compositor apart from the raw frame.
type State struct {
	Adjustments Adjustments
	Geometry    Geometry
	Filter      FilterID
	Overlays    Overlays
}

// NewState is the state of freshly captured media.
func NewState() State {
	return State{
		Adjustments: DefaultAdjustments(),
		Geometry:    DefaultGeometry(),
		Filter:      FilterNormal,
	}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	s.Overlays = s.Overlays.Clone()
	return s
}

// Snapshot is an immutable copy of State at a commit point.
type Snapshot struct {
	Adjustments Adjustments      `json:"adjustments"`
	Geometry    Geometry         `json:"geometry"`
	Filter      FilterID         `json:"filter"`
	Texts       []TextOverlay    `json:"texts"`
	Stickers    []StickerOverlay `json:"stickers"`
}

func (s State) Snapshot() Snapshot {
	return Snapshot{
		Adjustments: s.Adjustments,
		Geometry:    s.Geometry,
		Filter:      s.Filter,
		Texts:       s.Overlays.Texts(),
		Stickers:    s.Overlays.Stickers(),
	}
}

// State rebuilds an editable State from the snapshot.
func (snap Snapshot) State() State {
	return State{
		Adjustments: snap.Adjustments,
		Geometry:    snap.Geometry,
		Filter:      snap.Filter,
		Overlays:    NewOverlays(snap.Texts, snap.Stickers),
	}
}

// MaxHistory bounds the undo log; the oldest entries are dropped first.
const MaxHistory = 100

// History is a linear undo/redo log. index is -1 when empty and otherwise
// points at the entry matching the current state.
type History struct {
	entries []Snapshot
	index   int
}

func NewHistory() *History {
	return &History{index: -1}
}

// Commit appends snap after discarding everything past the current index.
func (h *History) Commit(snap Snapshot) {
	h.entries = append(h.entries[:h.index+1], snap)
	if len(h.entries) > MaxHistory {
		drop := len(h.entries) - MaxHistory
		h.entries = append([]Snapshot(nil), h.entries[drop:]...)
	}
	h.index = len(h.entries) - 1
}

// Undo steps back one entry. The first entry is never undone past.
func (h *History) Undo() (Snapshot, bool) {
	if !h.CanUndo() {
		return Snapshot{}, false
	}
	h.index--
	return h.entries[h.index], true
}

func (h *History) Redo() (Snapshot, bool) {
	if !h.CanRedo() {
		return Snapshot{}, false
	}
	h.index++
	return h.entries[h.index], true
}

func (h *History) CanUndo() bool { return h.index > 0 }
func (h *History) CanRedo() bool { return h.index < len(h.entries)-1 }
func (h *History) Index() int    { return h.index }
func (h *History) Len() int      { return len(h.entries) }

// Current returns the entry at the current index.
func (h *History) Current() (Snapshot, bool) {
	if h.index < 0 {
		return Snapshot{}, false
	}
	return h.entries[h.index], true
}

func (h *History) Reset() {
	h.entries = nil
	h.index = -1
}
