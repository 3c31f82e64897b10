// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/danielhkuo/tipper/media"
)

var ErrEmptyPrompt = errors.New("prompt is empty")

// Delta is added to the current slider values. Results are clamped.
type Delta struct {
	Brightness float64 `json:"brightness,omitempty"`
	Contrast   float64 `json:"contrast,omitempty"`
	Saturation float64 `json:"saturation,omitempty"`
	Blur       float64 `json:"blur,omitempty"`
	Grain      float64 `json:"grain,omitempty"`
	Warmth     float64 `json:"warmth,omitempty"`
	Exposure   float64 `json:"exposure,omitempty"`
}

func (d Delta) add(o Delta) Delta {
	return Delta{
		Brightness: d.Brightness + o.Brightness,
		Contrast:   d.Contrast + o.Contrast,
		Saturation: d.Saturation + o.Saturation,
		Blur:       d.Blur + o.Blur,
		Grain:      d.Grain + o.Grain,
		Warmth:     d.Warmth + o.Warmth,
		Exposure:   d.Exposure + o.Exposure,
	}
}

// ApplyTo shifts a by d through the clamping setters.
func (d Delta) ApplyTo(a *media.Adjustments) {
	a.SetBrightness(a.Brightness + d.Brightness)
	a.SetContrast(a.Contrast + d.Contrast)
	a.SetSaturation(a.Saturation + d.Saturation)
	a.SetBlur(a.Blur + d.Blur)
	a.SetGrain(a.Grain + d.Grain)
	a.SetWarmth(a.Warmth + d.Warmth)
	a.SetExposure(a.Exposure + d.Exposure)
}

// AIEditResult is what an AIEditor wants done. Filter, when set, is applied
// before Delta.
type AIEditResult struct {
	Filter  media.FilterID `json:"filter,omitempty"`
	Delta   Delta          `json:"delta"`
	Matched []string       `json:"matched"`
	Message string         `json:"message"`
}

// Changed reports whether the result asks for any edit.
func (r AIEditResult) Changed() bool { return len(r.Matched) > 0 }

// AIEditor turns a free-text request into an edit.
type AIEditor interface {
	Edit(ctx context.Context, prompt string) (AIEditResult, error)
}

type keywordRule struct {
	phrases []string
	filter  media.FilterID
	delta   Delta
}

// keywordRules are checked in order; the last matching filter wins and
// every matching delta is summed.
var keywordRules = []keywordRule{
	{phrases: []string{"vintage", "retro", "old school"}, filter: media.FilterVintage},
	{phrases: []string{"black and white", "b&w", "monochrome", "grayscale", "greyscale"}, filter: media.FilterBlackWhite},
	{phrases: []string{"sunset", "golden", "cozy"}, filter: media.FilterWarm},
	{phrases: []string{"icy", "winter", "moody blue"}, filter: media.FilterCool},
	{phrases: []string{"dramatic", "epic"}, filter: media.FilterDramatic},
	{phrases: []string{"faded", "washed out", "matte"}, filter: media.FilterFade},
	{phrases: []string{"vivid", "vibrant", "pop"}, filter: media.FilterVivid},
	{phrases: []string{"noir", "film noir"}, filter: media.FilterNoir},
	{phrases: []string{"dreamy", "ethereal", "soft"}, filter: media.FilterDreamy},
	{phrases: []string{"brighter", "brighten", "lighter"}, delta: Delta{Brightness: 20}},
	{phrases: []string{"darker", "darken", "dimmer"}, delta: Delta{Brightness: -20}},
	{phrases: []string{"more contrast", "punchy", "crisp"}, delta: Delta{Contrast: 20}},
	{phrases: []string{"less contrast", "flat"}, delta: Delta{Contrast: -20}},
	{phrases: []string{"colorful", "colourful", "saturate"}, delta: Delta{Saturation: 30}},
	{phrases: []string{"desaturate", "muted"}, delta: Delta{Saturation: -30}},
	{phrases: []string{"warmer", "warm"}, delta: Delta{Warmth: 15}},
	{phrases: []string{"cooler", "cool"}, delta: Delta{Warmth: -15}},
	{phrases: []string{"blur", "blurry"}, delta: Delta{Blur: 2}},
	{phrases: []string{"grain", "grainy", "film"}, delta: Delta{Grain: 20}},
	{phrases: []string{"overexpose", "exposure up"}, delta: Delta{Exposure: 15}},
	{phrases: []string{"underexpose", "exposure down"}, delta: Delta{Exposure: -15}},
}

// KeywordEditor is a simulated AI edit: keyword lookup after a fixed delay.
type KeywordEditor struct {
	Latency time.Duration
}

func (k KeywordEditor) Edit(ctx context.Context, prompt string) (AIEditResult, error) {
	words := normalizePrompt(prompt)
	if strings.TrimSpace(words) == "" {
		return AIEditResult{}, ErrEmptyPrompt
	}

	if k.Latency > 0 {
		timer := time.NewTimer(k.Latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return AIEditResult{}, ctx.Err()
		}
	}

	var res AIEditResult
	for _, rule := range keywordRules {
		for _, p := range rule.phrases {
			if !strings.Contains(words, " "+p+" ") {
				continue
			}
			res.Matched = append(res.Matched, p)
			if rule.filter != "" {
				res.Filter = rule.filter
			}
			res.Delta = res.Delta.add(rule.delta)
			break
		}
	}

	if res.Changed() {
		res.Message = fmt.Sprintf("Applied: %s", strings.Join(res.Matched, ", "))
	} else {
		res.Message = "Couldn't work out an edit from that. Try words like vintage, brighter or black and white."
	}
	return res, nil
}

// normalizePrompt lowercases s, keeps letters, digits and '&', and pads with
// spaces so phrases can be matched on word boundaries.
func normalizePrompt(s string) string {
	var b strings.Builder
	b.WriteByte(' ')
	space := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '&' {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	if !space {
		b.WriteByte(' ')
	}
	return b.String()
}

// AIEdit asks the configured AIEditor for an edit and applies it. A result
// that matched nothing changes nothing and is not committed. The call is
// bounded by Config.AITimeout.
func (s *Session) AIEdit(ctx context.Context, prompt string) (AIEditResult, View, error) {
	s.mu.Lock()
	if err := s.require(PhaseCaptured, PhaseEditing); err != nil {
		s.mu.Unlock()
		return AIEditResult{}, View{}, err
	}
	if s.raw == nil {
		s.mu.Unlock()
		return AIEditResult{}, View{}, ErrNoMedia
	}
	gen := s.gen
	s.mu.Unlock()

	ai := s.cfg.AI
	if ai == nil {
		ai = KeywordEditor{}
	}
	if s.cfg.AITimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.AITimeout)
		defer cancel()
	}

	res, err := ai.Edit(ctx, prompt)
	if err != nil {
		slog.Warn("ai edit failed", "session_id", s.id, "error", err)
		return AIEditResult{}, s.View(), err
	}

	if !res.Changed() {
		return res, s.View(), nil
	}

	v, err := s.edit(true, func(st *media.State) error {
		if gen != s.gen {
			return ErrSuperseded
		}
		if res.Filter != "" {
			if err := st.Adjustments.ApplyFilter(res.Filter); err != nil {
				return err
			}
			st.Filter = res.Filter
		}
		res.Delta.ApplyTo(&st.Adjustments)
		return nil
	})
	if err != nil {
		return AIEditResult{}, v, err
	}
	slog.Info("ai edit applied", "session_id", s.id, "matched", res.Matched)
	return res, v, nil
}
