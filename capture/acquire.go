// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package capture

import (
	"context"
	"log/slog"
)

// Ideal capture size for the first tier.
const (
	IdealWidth  = 1920
	IdealHeight = 1080
)

type tier struct {
	name string
	c    Constraints
}

// Acquirer opens cameras with fallback.
type Acquirer struct {
	devices Devices
}

func NewAcquirer(d Devices) *Acquirer {
	return &Acquirer{devices: d}
}

// Devices returns the underlying device interface.
func (a *Acquirer) Devices() Devices { return a.devices }

// tiers lists the attempts in order. An empty facing means FacingUser.
func tiers(preferredID string, facing Facing) []tier {
	if facing == "" {
		facing = FacingUser
	}
	first := Constraints{
		Width:  Range{Ideal: IdealWidth},
		Height: Range{Ideal: IdealHeight},
	}
	if preferredID != "" {
		first.DeviceID = preferredID
	} else {
		first.Facing = facing
	}
	return []tier{
		{name: "preferred", c: first},
		{name: "relaxed", c: Constraints{}},
		{name: "opposite", c: Constraints{Facing: facing.Opposite()}},
	}
}

// Acquire opens a stream, trying the preferred device first, then any camera,
// then the opposite facing. A cancelled ctx stops between tiers.
func (a *Acquirer) Acquire(ctx context.Context, preferredID string, facing Facing) (Stream, error) {
	var attempts []TierError
	for _, t := range tiers(preferredID, facing) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, err := a.devices.Open(ctx, t.c)
		if err == nil {
			slog.Info("camera acquired", "tier", t.name, "device_id", s.DeviceID())
			return s, nil
		}
		slog.Warn("camera tier failed", "tier", t.name, "error", err)
		attempts = append(attempts, TierError{Tier: t.name, Constraints: t.c, Err: err})
	}
	return nil, &AcquireError{Attempts: attempts, Kind: classify(attempts)}
}
