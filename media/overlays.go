// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package media

import (
	"github.com/google/uuid"
)

// OverlayKind discriminates the Overlay variants.
type OverlayKind string

const (
	OverlayText    OverlayKind = "text"
	OverlaySticker OverlayKind = "sticker"
)

// Overlay is implemented by TextOverlay and StickerOverlay only.
type Overlay interface {
	OverlayID() string
	OverlayKind() OverlayKind
	overlay()
}

// Overlay size bounds
const (
	MinFontSize    = 8.0
	MaxFontSize    = 200.0
	MinStickerSize = 8.0
	MaxStickerSize = 512.0
)

type TextOverlay struct {
	ID         string  `json:"id"`
	Text       string  `json:"text"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	FontSize   float64 `json:"font_size"`
	Color      string  `json:"color"`
	FontFamily string  `json:"font_family"`
	Bold       bool    `json:"bold"`
	Italic     bool    `json:"italic"`
}

func (t TextOverlay) OverlayID() string        { return t.ID }
func (t TextOverlay) OverlayKind() OverlayKind { return OverlayText }
func (TextOverlay) overlay()                   {}

type StickerOverlay struct {
	ID       string  `json:"id"`
	Emoji    string  `json:"emoji"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Size     float64 `json:"size"`
	Rotation float64 `json:"rotation"`
}

func (s StickerOverlay) OverlayID() string        { return s.ID }
func (s StickerOverlay) OverlayKind() OverlayKind { return OverlaySticker }
func (StickerOverlay) overlay()                   {}

// DefaultText is what "add text" creates before the user edits it.
func DefaultText(x, y float64) TextOverlay {
	return TextOverlay{
		Text:       "Tap to edit",
		X:          x,
		Y:          y,
		FontSize:   32,
		Color:      "#ffffff",
		FontFamily: "sans-serif",
	}
}

func DefaultSticker(emoji string, x, y float64) StickerOverlay {
	return StickerOverlay{
		Emoji: emoji,
		X:     x,
		Y:     y,
		Size:  64,
	}
}

// TextPatch is a partial TextOverlay update.
type TextPatch struct {
	Text       *string  `json:"text,omitempty"`
	X          *float64 `json:"x,omitempty"`
	Y          *float64 `json:"y,omitempty"`
	FontSize   *float64 `json:"font_size,omitempty"`
	Color      *string  `json:"color,omitempty"`
	FontFamily *string  `json:"font_family,omitempty"`
	Bold       *bool    `json:"bold,omitempty"`
	Italic     *bool    `json:"italic,omitempty"`
}

// ApplyTo sets the fields present in p, clamping the font size.
func (p TextPatch) ApplyTo(t *TextOverlay) {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.X != nil {
		t.X = *p.X
	}
	if p.Y != nil {
		t.Y = *p.Y
	}
	if p.FontSize != nil {
		t.FontSize = clamp(*p.FontSize, MinFontSize, MaxFontSize)
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.FontFamily != nil {
		t.FontFamily = *p.FontFamily
	}
	if p.Bold != nil {
		t.Bold = *p.Bold
	}
	if p.Italic != nil {
		t.Italic = *p.Italic
	}
}

// StickerPatch is a partial StickerOverlay update.
type StickerPatch struct {
	Emoji    *string  `json:"emoji,omitempty"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Size     *float64 `json:"size,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
}

// ApplyTo sets the fields present in p, clamping the size.
func (p StickerPatch) ApplyTo(s *StickerOverlay) {
	if p.Emoji != nil {
		s.Emoji = *p.Emoji
	}
	if p.X != nil {
		s.X = *p.X
	}
	if p.Y != nil {
		s.Y = *p.Y
	}
	if p.Size != nil {
		s.Size = clamp(*p.Size, MinStickerSize, MaxStickerSize)
	}
	if p.Rotation != nil {
		s.Rotation = *p.Rotation
	}
}

// Layer keeps overlays of one kind in insertion (= paint) order.
type Layer[T Overlay] struct {
	items []T
}

func (l *Layer[T]) add(item T) {
	l.items = append(l.items, item)
}

func (l *Layer[T]) update(id string, fn func(*T)) bool {
	for i := range l.items {
		if l.items[i].OverlayID() == id {
			fn(&l.items[i])
			return true
		}
	}
	return false
}

// remove keeps the order of the remaining items.
func (l *Layer[T]) remove(id string) bool {
	for i := range l.items {
		if l.items[i].OverlayID() == id {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

func (l Layer[T]) get(id string) (T, bool) {
	for _, it := range l.items {
		if it.OverlayID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Items returns a copy in paint order.
func (l Layer[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

func (l Layer[T]) Len() int { return len(l.items) }

// Overlays is the text layer followed by the sticker layer.
type Overlays struct {
	texts    Layer[TextOverlay]
	stickers Layer[StickerOverlay]
}

// AddText appends t and returns its id. An empty t.ID gets a fresh one.
func (o *Overlays) AddText(t TextOverlay) string {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.FontSize = clamp(t.FontSize, MinFontSize, MaxFontSize)
	o.texts.add(t)
	return t.ID
}

// UpdateText applies p to the overlay with the given id. Unknown ids are ignored.
func (o *Overlays) UpdateText(id string, p TextPatch) bool {
	return o.texts.update(id, p.ApplyTo)
}

func (o *Overlays) RemoveText(id string) bool {
	return o.texts.remove(id)
}

func (o *Overlays) AddSticker(s StickerOverlay) string {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.Size = clamp(s.Size, MinStickerSize, MaxStickerSize)
	o.stickers.add(s)
	return s.ID
}

func (o *Overlays) UpdateSticker(id string, p StickerPatch) bool {
	return o.stickers.update(id, p.ApplyTo)
}

func (o *Overlays) RemoveSticker(id string) bool {
	return o.stickers.remove(id)
}

// Get finds an overlay of either kind.
func (o Overlays) Get(id string) (Overlay, bool) {
	if t, ok := o.texts.get(id); ok {
		return t, true
	}
	if s, ok := o.stickers.get(id); ok {
		return s, true
	}
	return nil, false
}

// Remove deletes an overlay of either kind.
func (o *Overlays) Remove(id string) bool {
	return o.texts.remove(id) || o.stickers.remove(id)
}

func (o Overlays) Texts() []TextOverlay       { return o.texts.Items() }
func (o Overlays) Stickers() []StickerOverlay { return o.stickers.Items() }

// Clone returns a deep copy.
func (o Overlays) Clone() Overlays {
	return Overlays{
		texts:    Layer[TextOverlay]{items: o.texts.Items()},
		stickers: Layer[StickerOverlay]{items: o.stickers.Items()},
	}
}

// NewOverlays builds a collection from existing layers, keeping their order.
func NewOverlays(texts []TextOverlay, stickers []StickerOverlay) Overlays {
	o := Overlays{}
	o.texts.items = append([]TextOverlay(nil), texts...)
	o.stickers.items = append([]StickerOverlay(nil), stickers...)
	return o
}
