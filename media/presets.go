// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package media

import (
	"errors"
	"fmt"
)

var ErrUnknownFilter = errors.New("unknown filter")

// FilterID names a preset. The set is closed; see Filters.
type FilterID string

const (
	FilterNormal     FilterID = "normal"
	FilterVintage    FilterID = "vintage"
	FilterBlackWhite FilterID = "bw"
	FilterWarm       FilterID = "warm"
	FilterCool       FilterID = "cool"
	FilterDramatic   FilterID = "dramatic"
	FilterFade       FilterID = "fade"
	FilterVivid      FilterID = "vivid"
	FilterNoir       FilterID = "noir"
	FilterDreamy     FilterID = "dreamy"
)

// filterOrder is the order the client lists presets in.
var filterOrder = []FilterID{
	FilterNormal,
	FilterVintage,
	FilterBlackWhite,
	FilterWarm,
	FilterCool,
	FilterDramatic,
	FilterFade,
	FilterVivid,
	FilterNoir,
	FilterDreamy,
}

// presets never contains FilterNormal; normal restores the defaults.
var presets = map[FilterID]Adjustments{
	FilterVintage:    {Brightness: 110, Contrast: 90, Saturation: 70, Grain: 15, Warmth: 30},
	FilterBlackWhite: {Brightness: 100, Contrast: 120, Saturation: 0},
	FilterWarm:       {Brightness: 105, Contrast: 100, Saturation: 115, Warmth: 25},
	FilterCool:       {Brightness: 100, Contrast: 105, Saturation: 95, Warmth: -20},
	FilterDramatic:   {Brightness: 90, Contrast: 150, Saturation: 120, Exposure: -10},
	FilterFade:       {Brightness: 115, Contrast: 80, Saturation: 80, Exposure: 5},
	FilterVivid:      {Brightness: 105, Contrast: 115, Saturation: 160},
	FilterNoir:       {Brightness: 85, Contrast: 160, Saturation: 0, Grain: 25, Exposure: -15},
	FilterDreamy:     {Brightness: 110, Contrast: 90, Saturation: 110, Blur: 1.5, Warmth: 10, Exposure: 10},
}

// Filters lists every selectable preset, FilterNormal first.
func Filters() []FilterID {
	out := make([]FilterID, len(filterOrder))
	copy(out, filterOrder)
	return out
}

// Valid reports whether id is one of Filters.
func (id FilterID) Valid() bool {
	if id == FilterNormal {
		return true
	}
	_, ok := presets[id]
	return ok
}

// Preset returns the adjustment tuple of id.
func Preset(id FilterID) (Adjustments, bool) {
	if id == FilterNormal {
		return DefaultAdjustments(), true
	}
	a, ok := presets[id]
	return a, ok
}

// ApplyFilter overwrites every field with the preset values. On an unknown
// id nothing changes.
func (a *Adjustments) ApplyFilter(id FilterID) error {
	if id == FilterNormal {
		*a = DefaultAdjustments()
		return nil
	}
	p, ok := presets[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFilter, id)
	}
	*a = p.Clamped()
	return nil
}
