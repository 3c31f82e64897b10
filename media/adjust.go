// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package media

import "math"

// Adjustment bounds
const (
	MinPercent  = 0.0
	MaxPercent  = 200.0
	MinWarmth   = -50.0
	MaxWarmth   = 50.0
	MinExposure = -50.0
	MaxExposure = 50.0
	MinBlur     = 0.0
	MaxBlur     = 10.0
	MinGrain    = 0.0
	MaxGrain    = 50.0
)

// Adjustments are the slider values of the editor.
// Brightness, Contrast and Saturation are percentages (100 = unchanged),
// Blur is a radius in pixels.
type Adjustments struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`
	Blur       float64 `json:"blur"`
	Grain      float64 `json:"grain"`
	Warmth     float64 `json:"warmth"`
	Exposure   float64 `json:"exposure"`
}

// DefaultAdjustments is the identity edit.
func DefaultAdjustments() Adjustments {
	return Adjustments{
		Brightness: 100,
		Contrast:   100,
		Saturation: 100,
	}
}

func (a *Adjustments) SetBrightness(v float64) { a.Brightness = clamp(v, MinPercent, MaxPercent) }
func (a *Adjustments) SetContrast(v float64)   { a.Contrast = clamp(v, MinPercent, MaxPercent) }
func (a *Adjustments) SetSaturation(v float64) { a.Saturation = clamp(v, MinPercent, MaxPercent) }
func (a *Adjustments) SetBlur(v float64)       { a.Blur = clamp(v, MinBlur, MaxBlur) }
func (a *Adjustments) SetGrain(v float64)      { a.Grain = clamp(v, MinGrain, MaxGrain) }
func (a *Adjustments) SetWarmth(v float64)     { a.Warmth = clamp(v, MinWarmth, MaxWarmth) }
func (a *Adjustments) SetExposure(v float64)   { a.Exposure = clamp(v, MinExposure, MaxExposure) }

// Clamped returns a copy with every field forced into its bound.
func (a Adjustments) Clamped() Adjustments {
	var out Adjustments
	out.SetBrightness(a.Brightness)
	out.SetContrast(a.Contrast)
	out.SetSaturation(a.Saturation)
	out.SetBlur(a.Blur)
	out.SetGrain(a.Grain)
	out.SetWarmth(a.Warmth)
	out.SetExposure(a.Exposure)
	return out
}

// AdjustmentPatch carries a partial slider update; nil fields are left alone.
type AdjustmentPatch struct {
	Brightness *float64 `json:"brightness,omitempty"`
	Contrast   *float64 `json:"contrast,omitempty"`
	Saturation *float64 `json:"saturation,omitempty"`
	Blur       *float64 `json:"blur,omitempty"`
	Grain      *float64 `json:"grain,omitempty"`
	Warmth     *float64 `json:"warmth,omitempty"`
	Exposure   *float64 `json:"exposure,omitempty"`
}

// Apply runs the setter of every field present in p.
func (a *Adjustments) Apply(p AdjustmentPatch) {
	if p.Brightness != nil {
		a.SetBrightness(*p.Brightness)
	}
	if p.Contrast != nil {
		a.SetContrast(*p.Contrast)
	}
	if p.Saturation != nil {
		a.SetSaturation(*p.Saturation)
	}
	if p.Blur != nil {
		a.SetBlur(*p.Blur)
	}
	if p.Grain != nil {
		a.SetGrain(*p.Grain)
	}
	if p.Warmth != nil {
		a.SetWarmth(*p.Warmth)
	}
	if p.Exposure != nil {
		a.SetExposure(*p.Exposure)
	}
}

// clamp maps NaN to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
