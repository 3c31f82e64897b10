// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package capture

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"
)

// VirtualCamera serves a still frame as its stream.
type VirtualCamera struct {
	ID     string
	Label  string
	Facing Facing
	Frame  image.Image
}

// VirtualDevices is an in-memory Devices. A camera can be opened by one
// stream at a time.
type VirtualDevices struct {
	mu      sync.Mutex
	cameras []VirtualCamera
	busy    map[string]bool
	denied  bool
}

func NewVirtualDevices(cameras ...VirtualCamera) *VirtualDevices {
	return &VirtualDevices{
		cameras: cameras,
		busy:    make(map[string]bool),
	}
}

// Deny makes every Open fail with ErrPermissionDenied until called with false.
func (v *VirtualDevices) Deny(denied bool) {
	v.mu.Lock()
	v.denied = denied
	v.mu.Unlock()
}

// Busy reports whether the camera has an open stream.
func (v *VirtualDevices) Busy(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.busy[id]
}

func (v *VirtualDevices) Enumerate(ctx context.Context) ([]DeviceInfo, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]DeviceInfo, 0, len(v.cameras))
	for _, c := range v.cameras {
		info := DeviceInfo{ID: c.ID, Label: c.Label, Facing: c.Facing}
		if c.Frame != nil {
			info.Width, info.Height = c.Frame.Bounds().Dx(), c.Frame.Bounds().Dy()
		}
		out = append(out, info)
	}
	return out, nil
}

func (v *VirtualDevices) Open(ctx context.Context, c Constraints) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.denied {
		return nil, ErrPermissionDenied
	}
	cam, err := v.pick(c)
	if err != nil {
		return nil, err
	}
	b := cam.Frame.Bounds()
	if !c.Width.Satisfied(b.Dx()) || !c.Height.Satisfied(b.Dy()) {
		return nil, fmt.Errorf("%w: %s is %dx%d", ErrUnconstrainable, cam.ID, b.Dx(), b.Dy())
	}
	if v.busy[cam.ID] {
		return nil, fmt.Errorf("%w: %s", ErrDeviceBusy, cam.ID)
	}
	v.busy[cam.ID] = true
	return &virtualStream{devices: v, cam: cam}, nil
}

func (v *VirtualDevices) pick(c Constraints) (VirtualCamera, error) {
	for _, cam := range v.cameras {
		if cam.Frame == nil {
			continue
		}
		switch {
		case c.DeviceID != "":
			if cam.ID == c.DeviceID {
				return cam, nil
			}
		case c.Facing != "":
			if cam.Facing == c.Facing {
				return cam, nil
			}
		default:
			return cam, nil
		}
	}
	switch {
	case c.DeviceID != "":
		return VirtualCamera{}, fmt.Errorf("%w: device %q", ErrDeviceNotFound, c.DeviceID)
	case c.Facing != "":
		return VirtualCamera{}, fmt.Errorf("%w: facing %s", ErrDeviceNotFound, c.Facing)
	default:
		return VirtualCamera{}, ErrDeviceNotFound
	}
}

func (v *VirtualDevices) release(id string) {
	v.mu.Lock()
	delete(v.busy, id)
	v.mu.Unlock()
}

type virtualStream struct {
	devices *VirtualDevices
	cam     VirtualCamera

	mu      sync.Mutex
	stopped bool
}

func (s *virtualStream) DeviceID() string { return s.cam.ID }

func (s *virtualStream) Frame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.Active() {
		return nil, fmt.Errorf("stream %s stopped", s.cam.ID)
	}
	return s.cam.Frame, nil
}

func (s *virtualStream) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	s.devices.release(s.cam.ID)
}

func (s *virtualStream) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.stopped
}

// TestPattern draws vertical colour bars over a horizontal grey ramp.
func TestPattern(w, h int) *image.RGBA {
	bars := []color.RGBA{
		{255, 255, 255, 255},
		{255, 255, 0, 255},
		{0, 255, 255, 255},
		{0, 255, 0, 255},
		{255, 0, 255, 255},
		{255, 0, 0, 255},
		{0, 0, 255, 255},
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	split := h * 3 / 4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if y < split {
				img.SetRGBA(x, y, bars[x*len(bars)/w])
				continue
			}
			g := uint8(x * 255 / max(w-1, 1))
			img.SetRGBA(x, y, color.RGBA{g, g, g, 255})
		}
	}
	return img
}
