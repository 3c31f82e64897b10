// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package editor holds the per-dialog editing session.

A Session moves through

	Idle -> Capturing -> Captured -> Editing -> Exported -> Closed

Captured may go back to Capturing (retake) or straight to Exported (save with
no edits). Close is valid from every phase and releases any open camera
stream, including one whose acquisition is still running: the acquisition
task stops the stream itself when it resolves into a closed or superseded
session.

Failed acquisition leaves the session in Capturing with LastError set, so the
client can retry or import a file instead. Failed imports are reported the
same way and never touch the media or edit state already loaded.

# History

Edits are recorded as full snapshots. The initial state is committed when
media arrives. Discrete actions commit on their own: filter selection, rotate,
flip, adding or removing an overlay, and an AI edit that matched something.
Continuous changes (sliders, overlay drags and text edits, zoom and pan) do
not; the client sends Commit when the gesture ends.

# AI edits

AIEdit hands the prompt to an AIEditor. KeywordEditor is the built-in,
simulated strategy: it matches keywords to presets and slider deltas after a
fixed delay. Every call is bounded by Config.AITimeout.

Sessions live in a Store, which expires idle ones.
*/
package editor
