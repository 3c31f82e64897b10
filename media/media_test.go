// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package media

import (
	"math"
	"testing"
)

func TestAdjustmentSettersClamp(t *testing.T) {
	tests := []struct {
		name string
		set  func(a *Adjustments, v float64)
		get  func(a Adjustments) float64
		in   float64
		want float64
	}{
		{"brightness below", (*Adjustments).SetBrightness, func(a Adjustments) float64 { return a.Brightness }, -10, 0},
		{"brightness above", (*Adjustments).SetBrightness, func(a Adjustments) float64 { return a.Brightness }, 500, 200},
		{"brightness inside", (*Adjustments).SetBrightness, func(a Adjustments) float64 { return a.Brightness }, 150, 150},
		{"contrast above", (*Adjustments).SetContrast, func(a Adjustments) float64 { return a.Contrast }, 201, 200},
		{"saturation below", (*Adjustments).SetSaturation, func(a Adjustments) float64 { return a.Saturation }, -1, 0},
		{"blur above", (*Adjustments).SetBlur, func(a Adjustments) float64 { return a.Blur }, 11, 10},
		{"grain above", (*Adjustments).SetGrain, func(a Adjustments) float64 { return a.Grain }, 80, 50},
		{"warmth below", (*Adjustments).SetWarmth, func(a Adjustments) float64 { return a.Warmth }, -90, -50},
		{"exposure above", (*Adjustments).SetExposure, func(a Adjustments) float64 { return a.Exposure }, 51, 50},
		{"NaN goes to lower bound", (*Adjustments).SetBrightness, func(a Adjustments) float64 { return a.Brightness }, math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := DefaultAdjustments()
			tt.set(&a, tt.in)
			if got := tt.get(a); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdjustmentPatch(t *testing.T) {
	a := DefaultAdjustments()
	b := 150.0
	g := 99.0
	a.Apply(AdjustmentPatch{Brightness: &b, Grain: &g})

	if a.Brightness != 150 {
		t.Errorf("Brightness = %v, want 150", a.Brightness)
	}
	if a.Grain != MaxGrain {
		t.Errorf("Grain = %v, want %v", a.Grain, MaxGrain)
	}
	if a.Contrast != 100 {
		t.Errorf("Contrast changed to %v", a.Contrast)
	}
}

func TestFilterThenNormalRestoresDefaults(t *testing.T) {
	for _, id := range Filters() {
		t.Run(string(id), func(t *testing.T) {
			a := DefaultAdjustments()
			if err := a.ApplyFilter(id); err != nil {
				t.Fatalf("ApplyFilter(%s) error = %v", id, err)
			}
			if err := a.ApplyFilter(FilterNormal); err != nil {
				t.Fatal(err)
			}
			want := Adjustments{Brightness: 100, Contrast: 100, Saturation: 100}
			if a != want {
				t.Errorf("after normal got %+v, want %+v", a, want)
			}
		})
	}
}

func TestApplyFilterOverwritesEveryField(t *testing.T) {
	a := Adjustments{Brightness: 10, Contrast: 20, Saturation: 30, Blur: 9, Grain: 40, Warmth: -40, Exposure: 40}
	if err := a.ApplyFilter(FilterBlackWhite); err != nil {
		t.Fatal(err)
	}
	want, _ := Preset(FilterBlackWhite)
	if a != want {
		t.Errorf("got %+v, want %+v", a, want)
	}
}

func TestApplyUnknownFilter(t *testing.T) {
	a := DefaultAdjustments()
	a.SetBrightness(120)
	before := a

	if err := a.ApplyFilter("sparkle"); err == nil {
		t.Fatal("expected error for unknown filter")
	}
	if a != before {
		t.Errorf("unknown filter changed state: %+v", a)
	}
	if FilterID("sparkle").Valid() {
		t.Error("Valid() true for unknown filter")
	}
}

func TestPresetsWithinBounds(t *testing.T) {
	for id, p := range presets {
		if p != p.Clamped() {
			t.Errorf("preset %s out of bounds: %+v", id, p)
		}
	}
}

func TestGeometry(t *testing.T) {
	g := DefaultGeometry()
	g.RotateLeft()
	if g.NormalizedRotation() != 270 {
		t.Errorf("NormalizedRotation() = %d, want 270", g.NormalizedRotation())
	}
	for i := 0; i < 5; i++ {
		g.RotateRight()
	}
	if g.Rotation != 360 {
		t.Errorf("Rotation = %d, want 360 (accumulated)", g.Rotation)
	}
	if !g.Identity() {
		t.Error("full turn should be identity")
	}

	g.SetZoom(0)
	if g.Zoom != MinZoom {
		t.Errorf("Zoom = %v, want %v", g.Zoom, MinZoom)
	}
	g.SetZoom(10)
	if g.Zoom != MaxZoom {
		t.Errorf("Zoom = %v, want %v", g.Zoom, MaxZoom)
	}
}

func TestOverlayIDStability(t *testing.T) {
	var o Overlays
	x := o.AddText(DefaultText(10, 10))
	y := o.AddText(DefaultText(20, 20))

	hi := "hi"
	if !o.UpdateText(x, TextPatch{Text: &hi}) {
		t.Fatal("UpdateText on existing id returned false")
	}

	texts := o.Texts()
	if texts[0].ID != x || texts[0].Text != "hi" {
		t.Errorf("first overlay = %+v", texts[0])
	}
	if texts[0].X != 10 || texts[0].FontSize != 32 {
		t.Errorf("update touched other fields: %+v", texts[0])
	}
	if texts[1].ID != y || texts[1].Text != "Tap to edit" {
		t.Errorf("second overlay changed: %+v", texts[1])
	}

	before := o.Texts()
	if o.UpdateText("nonexistent", TextPatch{Text: &hi}) {
		t.Error("UpdateText on unknown id returned true")
	}
	after := o.Texts()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("overlay %d changed by unknown-id update", i)
		}
	}
}

func TestOverlayRemoveKeepsOrder(t *testing.T) {
	var o Overlays
	a := o.AddSticker(DefaultSticker("🔥", 0, 0))
	b := o.AddSticker(DefaultSticker("⭐", 1, 1))
	c := o.AddSticker(DefaultSticker("💯", 2, 2))

	if !o.RemoveSticker(b) {
		t.Fatal("RemoveSticker returned false")
	}
	got := o.Stickers()
	if len(got) != 2 || got[0].ID != a || got[1].ID != c {
		t.Errorf("unexpected order after remove: %+v", got)
	}
	if o.RemoveSticker(b) {
		t.Error("second remove of same id returned true")
	}
}

func TestOverlayPatchClamps(t *testing.T) {
	var o Overlays
	id := o.AddText(DefaultText(0, 0))
	huge := 1000.0
	o.UpdateText(id, TextPatch{FontSize: &huge})
	if got := o.Texts()[0].FontSize; got != MaxFontSize {
		t.Errorf("FontSize = %v, want %v", got, MaxFontSize)
	}

	sid := o.AddSticker(StickerOverlay{Emoji: "x", Size: 1})
	ov, ok := o.Get(sid)
	if !ok || ov.OverlayKind() != OverlaySticker {
		t.Fatalf("Get(%s) = %v, %v", sid, ov, ok)
	}
	if ov.(StickerOverlay).Size != MinStickerSize {
		t.Errorf("sticker size not clamped: %v", ov.(StickerOverlay).Size)
	}
}

func TestOverlayCloneIsDeep(t *testing.T) {
	var o Overlays
	id := o.AddText(DefaultText(0, 0))
	clone := o.Clone()

	s := "changed"
	o.UpdateText(id, TextPatch{Text: &s})
	if clone.Texts()[0].Text == "changed" {
		t.Error("clone shares storage with original")
	}
}

func snap(brightness float64) Snapshot {
	st := NewState()
	st.Adjustments.SetBrightness(brightness)
	return st.Snapshot()
}

func TestHistoryUndoRedo(t *testing.T) {
	h := NewHistory()
	if h.Index() != -1 {
		t.Fatalf("Index() = %d, want -1", h.Index())
	}

	h.Commit(snap(10)) // A
	h.Commit(snap(20)) // B
	h.Commit(snap(30)) // C

	h.Undo()
	got, ok := h.Undo()
	if !ok || got.Adjustments.Brightness != 10 {
		t.Fatalf("undo twice = %v, %v; want A", got.Adjustments.Brightness, ok)
	}

	if _, ok := h.Undo(); ok {
		t.Error("undo past the first state succeeded")
	}

	got, ok = h.Redo()
	if !ok || got.Adjustments.Brightness != 20 {
		t.Fatalf("redo = %v, %v; want B", got.Adjustments.Brightness, ok)
	}

	h.Commit(snap(40)) // D discards C
	if _, ok := h.Redo(); ok {
		t.Error("redo after commit should be a no-op")
	}
	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (A, B, D)", h.Len())
	}
	cur, _ := h.Current()
	if cur.Adjustments.Brightness != 40 {
		t.Errorf("current = %v, want D", cur.Adjustments.Brightness)
	}
}

func TestHistoryEmpty(t *testing.T) {
	h := NewHistory()
	if _, ok := h.Undo(); ok {
		t.Error("Undo on empty history succeeded")
	}
	if _, ok := h.Redo(); ok {
		t.Error("Redo on empty history succeeded")
	}
	h.Commit(snap(1))
	if h.CanUndo() {
		t.Error("single entry must not be undoable")
	}
}

func TestHistoryBounded(t *testing.T) {
	h := NewHistory()
	for i := 0; i < MaxHistory+10; i++ {
		h.Commit(snap(float64(i % 200)))
	}
	if h.Len() != MaxHistory {
		t.Errorf("Len() = %d, want %d", h.Len(), MaxHistory)
	}
	if h.Index() != MaxHistory-1 {
		t.Errorf("Index() = %d, want %d", h.Index(), MaxHistory-1)
	}
}

func TestSnapshotIsValueCopy(t *testing.T) {
	st := NewState()
	id := st.Overlays.AddText(DefaultText(1, 1))
	s := st.Snapshot()

	txt := "later"
	st.Overlays.UpdateText(id, TextPatch{Text: &txt})
	if s.Texts[0].Text == "later" {
		t.Error("snapshot aliases live overlays")
	}

	restored := s.State()
	if restored.Overlays.Texts()[0].Text != "Tap to edit" {
		t.Errorf("restored text = %q", restored.Overlays.Texts()[0].Text)
	}
}
