// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package compositor

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// Style selects a face within a family.
type Style uint8

const (
	StyleRegular Style = iota
	StyleBold
	StyleItalic
	StyleBoldItalic
)

// StyleOf maps the overlay flags to a Style.
func StyleOf(bold, italic bool) Style {
	switch {
	case bold && italic:
		return StyleBoldItalic
	case bold:
		return StyleBold
	case italic:
		return StyleItalic
	default:
		return StyleRegular
	}
}

// Family names with special meaning.
const (
	FamilySans  = "sans-serif"
	FamilyMono  = "monospace"
	FamilyEmoji = "emoji"
)

// FontBook resolves CSS-like family lists to text faces.
type FontBook struct {
	mu       sync.RWMutex
	families map[string]map[Style]*text.FontSource
}

// NewFontBook returns a book with the Go fonts registered as sans-serif and
// monospace.
func NewFontBook() (*FontBook, error) {
	fb := &FontBook{families: make(map[string]map[Style]*text.FontSource)}
	builtin := []struct {
		family string
		style  Style
		ttf    []byte
	}{
		{FamilySans, StyleRegular, goregular.TTF},
		{FamilySans, StyleBold, gobold.TTF},
		{FamilySans, StyleItalic, goitalic.TTF},
		{FamilySans, StyleBoldItalic, gobolditalic.TTF},
		{FamilyMono, StyleRegular, gomono.TTF},
		{FamilyMono, StyleBold, gomonobold.TTF},
		{FamilyMono, StyleItalic, gomonoitalic.TTF},
		{FamilyMono, StyleBoldItalic, gomonobolditalic.TTF},
	}
	for _, b := range builtin {
		if err := fb.Register(b.family, b.style, b.ttf); err != nil {
			return nil, err
		}
	}
	return fb, nil
}

// Register parses ttf and adds it under family and style, replacing any
// earlier registration.
func (fb *FontBook) Register(family string, style Style, ttf []byte) error {
	src, err := text.NewFontSource(ttf)
	if err != nil {
		return fmt.Errorf("register font %q: %w", family, err)
	}
	key := normalizeFamily(family)

	fb.mu.Lock()
	defer fb.mu.Unlock()
	if fb.families[key] == nil {
		fb.families[key] = make(map[Style]*text.FontSource)
	}
	fb.families[key][style] = src
	return nil
}

// Has reports whether family has any registered face.
func (fb *FontBook) Has(family string) bool {
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	return len(fb.families[normalizeFamily(family)]) > 0
}

// Face resolves a family list such as `"Inter", Arial, sans-serif`. The
// first registered family wins; otherwise sans-serif is used. Within a
// family a missing style falls back to regular.
func (fb *FontBook) Face(families string, style Style, size float64) text.Face {
	fb.mu.RLock()
	defer fb.mu.RUnlock()

	for _, name := range strings.Split(families, ",") {
		if src := pick(fb.families[normalizeFamily(name)], style); src != nil {
			return src.Face(size)
		}
	}
	if src := pick(fb.families[FamilySans], style); src != nil {
		return src.Face(size)
	}
	return nil
}

func pick(styles map[Style]*text.FontSource, style Style) *text.FontSource {
	if src, ok := styles[style]; ok {
		return src
	}
	return styles[StyleRegular]
}

func normalizeFamily(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Trim(name, `"'`)
	return strings.ToLower(name)
}
