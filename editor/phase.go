// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package editor

// Phase is the lifecycle position of a Session.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseCapturing Phase = "capturing"
	PhaseCaptured  Phase = "captured"
	PhaseEditing   Phase = "editing"
	PhaseExported  Phase = "exported"
	PhaseClosed    Phase = "closed"
)

// Editable reports whether edits are accepted in p.
func (p Phase) Editable() bool {
	return p == PhaseCaptured || p == PhaseEditing
}
