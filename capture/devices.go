// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package capture

import (
	"context"
	"image"
)

// Facing is the direction a camera points.
type Facing string

const (
	FacingUser        Facing = "user"
	FacingEnvironment Facing = "environment"
)

// Opposite returns the other facing. Unknown values map to FacingUser.
func (f Facing) Opposite() Facing {
	if f == FacingUser {
		return FacingEnvironment
	}
	return FacingUser
}

// Range is a min/ideal/max size request. Zero fields are unconstrained.
type Range struct {
	Min   int `json:"min,omitempty"`
	Ideal int `json:"ideal,omitempty"`
	Max   int `json:"max,omitempty"`
}

// Satisfied reports whether v fits the hard bounds.
func (r Range) Satisfied(v int) bool {
	if r.Min > 0 && v < r.Min {
		return false
	}
	if r.Max > 0 && v > r.Max {
		return false
	}
	return true
}

// Constraints describe the stream a caller wants. DeviceID wins over Facing.
type Constraints struct {
	DeviceID string `json:"device_id,omitempty"`
	Facing   Facing `json:"facing,omitempty"`
	Width    Range  `json:"width"`
	Height   Range  `json:"height"`
	Audio    bool   `json:"audio"`
}

type DeviceInfo struct {
	ID     string `json:"device_id"`
	Label  string `json:"label"`
	Facing Facing `json:"facing,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Stream is an open camera. Stop releases the device and is safe to call
// more than once.
type Stream interface {
	DeviceID() string
	Frame(ctx context.Context) (image.Image, error)
	Stop()
	Active() bool
}

// Devices is the platform camera interface.
type Devices interface {
	Enumerate(ctx context.Context) ([]DeviceInfo, error)
	Open(ctx context.Context, c Constraints) (Stream, error)
}
