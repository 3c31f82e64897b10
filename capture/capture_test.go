// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package capture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/tipper/media"
)

// scriptedDevices fails Open with the queued errors, then delegates.
type scriptedDevices struct {
	errs  []error
	calls []Constraints
	next  Devices
}

func (s *scriptedDevices) Enumerate(ctx context.Context) ([]DeviceInfo, error) {
	return s.next.Enumerate(ctx)
}

func (s *scriptedDevices) Open(ctx context.Context, c Constraints) (Stream, error) {
	s.calls = append(s.calls, c)
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return s.next.Open(ctx, c)
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func frontCamera() VirtualCamera {
	return VirtualCamera{ID: "front", Label: "Front", Facing: FacingUser, Frame: solid(64, 48, color.RGBA{255, 0, 0, 255})}
}

func TestAcquirePreferredDevice(t *testing.T) {
	d := NewVirtualDevices(frontCamera())
	s, err := NewAcquirer(d).Acquire(context.Background(), "front", "")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer s.Stop()
	if s.DeviceID() != "front" {
		t.Errorf("DeviceID() = %q, want front", s.DeviceID())
	}
	if !d.Busy("front") {
		t.Error("device should be busy while the stream is open")
	}
}

func TestAcquireFallsBackToRelaxed(t *testing.T) {
	d := &scriptedDevices{next: NewVirtualDevices(frontCamera())}
	s, err := NewAcquirer(d).Acquire(context.Background(), "missing-device", FacingUser)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer s.Stop()

	if len(d.calls) != 2 {
		t.Fatalf("Open called %d times, want 2", len(d.calls))
	}
	if d.calls[0].DeviceID != "missing-device" || d.calls[0].Width.Ideal != IdealWidth {
		t.Errorf("first tier = %+v", d.calls[0])
	}
	if d.calls[1] != (Constraints{}) {
		t.Errorf("second tier should be unconstrained, got %+v", d.calls[1])
	}
}

func TestAcquireFallsBackToOppositeFacing(t *testing.T) {
	d := &scriptedDevices{
		errs: []error{ErrUnconstrainable, ErrDeviceBusy},
		next: NewVirtualDevices(VirtualCamera{ID: "back", Facing: FacingEnvironment, Frame: solid(8, 8, color.RGBA{A: 255})}),
	}
	s, err := NewAcquirer(d).Acquire(context.Background(), "", FacingUser)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer s.Stop()

	if len(d.calls) != 3 {
		t.Fatalf("Open called %d times, want 3", len(d.calls))
	}
	if d.calls[2].Facing != FacingEnvironment {
		t.Errorf("third tier facing = %q, want environment", d.calls[2].Facing)
	}
}

func TestAcquireAllTiersFail(t *testing.T) {
	tests := []struct {
		name string
		errs []error
		want error
	}{
		{"no devices", []error{ErrDeviceNotFound, ErrDeviceNotFound, ErrDeviceNotFound}, ErrDeviceNotFound},
		{"permission wins", []error{ErrDeviceNotFound, ErrPermissionDenied, ErrDeviceNotFound}, ErrPermissionDenied},
		{"busy over not found", []error{ErrUnconstrainable, ErrDeviceBusy, ErrDeviceNotFound}, ErrDeviceBusy},
		{"unknown errors", []error{errors.New("x"), errors.New("y"), errors.New("z")}, ErrDeviceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &scriptedDevices{errs: tt.errs, next: NewVirtualDevices()}
			_, err := NewAcquirer(d).Acquire(context.Background(), "cam", "")
			if !errors.Is(err, tt.want) {
				t.Fatalf("Acquire() error = %v, want %v", err, tt.want)
			}
			var ae *AcquireError
			if !errors.As(err, &ae) {
				t.Fatalf("error is %T, want *AcquireError", err)
			}
			if len(ae.Attempts) != 3 {
				t.Errorf("attempts = %d, want 3", len(ae.Attempts))
			}
			if UserMessage(err) == "" {
				t.Error("UserMessage() is empty")
			}
		})
	}
}

func TestAcquireHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := &scriptedDevices{next: NewVirtualDevices(frontCamera())}
	if _, err := NewAcquirer(d).Acquire(ctx, "", ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("Acquire() error = %v, want context.Canceled", err)
	}
	if len(d.calls) != 0 {
		t.Errorf("Open called %d times after cancel", len(d.calls))
	}
}

func TestVirtualDevices(t *testing.T) {
	d := NewVirtualDevices(frontCamera())
	ctx := context.Background()

	s, err := d.Open(ctx, Constraints{DeviceID: "front"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Open(ctx, Constraints{DeviceID: "front"}); !errors.Is(err, ErrDeviceBusy) {
		t.Errorf("second Open error = %v, want ErrDeviceBusy", err)
	}
	s.Stop()
	s.Stop()

	if _, err := d.Open(ctx, Constraints{Width: Range{Min: 1000}}); !errors.Is(err, ErrUnconstrainable) {
		t.Errorf("Open with min width error = %v, want ErrUnconstrainable", err)
	}

	d.Deny(true)
	if _, err := d.Open(ctx, Constraints{}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("denied Open error = %v", err)
	}

	infos, _ := d.Enumerate(ctx)
	if len(infos) != 1 || infos[0].Width != 64 || infos[0].Height != 48 {
		t.Errorf("Enumerate() = %+v", infos)
	}
}

func TestCaptureFrameStopsStream(t *testing.T) {
	d := NewVirtualDevices(frontCamera())
	s, err := d.Open(context.Background(), Constraints{})
	if err != nil {
		t.Fatal(err)
	}

	raw, err := CaptureFrame(context.Background(), s)
	if err != nil {
		t.Fatalf("CaptureFrame() error = %v", err)
	}
	if s.Active() || d.Busy("front") {
		t.Error("stream still active after capture")
	}
	if raw.Kind != media.KindImage || raw.Width != 64 || raw.Height != 48 {
		t.Errorf("raw = %+v", raw)
	}
	if got := raw.Pixels.(*image.RGBA).RGBAAt(3, 3); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("pixel = %v", got)
	}
}

func TestCaptureFrameStopsOnError(t *testing.T) {
	d := NewVirtualDevices(frontCamera())
	s, _ := d.Open(context.Background(), Constraints{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := CaptureFrame(ctx, s); err == nil {
		t.Fatal("expected error with cancelled context")
	}
	if s.Active() {
		t.Error("stream should be stopped after a failed capture")
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(w, h, color.RGBA{0, 128, 255, 255})); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestImportFile(t *testing.T) {
	ctx := context.Background()
	data := pngBytes(t, 100, 100)

	tests := []struct {
		name     string
		file     File
		lim      Limits
		wantKind media.Kind
		wantMIME string
		wantErr  bool
	}{
		{"png", File{Body: bytes.NewReader(data)}, Limits{}, media.KindImage, "image/png", false},
		{"wrong declared type", File{MIMEType: "image/jpeg", Body: bytes.NewReader(data)}, Limits{}, media.KindImage, "image/png", false},
		{"video by declared type", File{MIMEType: "video/quicktime", Body: bytes.NewReader([]byte{0, 0, 0, 0x14, 'f', 't', 'y', 'p', 'q', 't'})}, Limits{}, media.KindVideo, "video/quicktime", false},
		{"text", File{MIMEType: "text/plain", Body: strings.NewReader("hello")}, Limits{}, "", "", true},
		{"empty", File{Body: bytes.NewReader(nil)}, Limits{}, "", "", true},
		{"truncated png", File{Body: bytes.NewReader(data[:40])}, Limits{}, "", "", true},
		{"too large", File{Body: bytes.NewReader(data)}, Limits{MaxBytes: 10}, "", "", true},
		{"too many pixels", File{Body: bytes.NewReader(data)}, Limits{MaxPixels: 100*100 - 1}, "", "", true},
		{"at pixel limit", File{Body: bytes.NewReader(data)}, Limits{MaxPixels: 100 * 100}, media.KindImage, "image/png", false},
		{"video ignores pixel limit", File{MIMEType: "video/mp4", Body: bytes.NewReader([]byte{0, 0, 0, 0x14, 'f', 't', 'y', 'p', 'i', 's'})}, Limits{MaxPixels: 1}, media.KindVideo, "video/mp4", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ImportFile(ctx, tt.file, tt.lim).Wait(ctx)
			if tt.wantErr {
				if !errors.Is(err, ErrUnreadableFile) {
					t.Fatalf("error = %v, want ErrUnreadableFile", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ImportFile() error = %v", err)
			}
			if raw.Kind != tt.wantKind || raw.MIMEType != tt.wantMIME {
				t.Errorf("got kind=%s mime=%s", raw.Kind, raw.MIMEType)
			}
		})
	}
}

func TestImportFileDimensions(t *testing.T) {
	ctx := context.Background()
	task := ImportFile(ctx, File{Body: bytes.NewReader(pngBytes(t, 30, 20))}, Limits{MaxBytes: 1 << 20})

	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("import did not resolve")
	}
	raw, err := task.Wait(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if raw.Width != 30 || raw.Height != 20 || !raw.Drawable() {
		t.Errorf("raw = %dx%d drawable=%v", raw.Width, raw.Height, raw.Drawable())
	}
}

// A small, highly compressed file that would expand to a huge frame.
func TestImportFileRejectsOversizedFrame(t *testing.T) {
	ctx := context.Background()
	data := pngBytes(t, 3000, 3000)
	if len(data) > 1<<20 {
		t.Fatalf("fixture is %d bytes, want it under the byte limit", len(data))
	}

	_, err := ImportFile(ctx, File{Body: bytes.NewReader(data)}, Limits{MaxBytes: 1 << 20, MaxPixels: 1 << 20}).Wait(ctx)
	if !errors.Is(err, ErrUnreadableFile) {
		t.Fatalf("error = %v, want ErrUnreadableFile", err)
	}
	if !strings.Contains(err.Error(), "3000x3000") {
		t.Errorf("error = %q, want the frame size", err)
	}
}

func TestTestPattern(t *testing.T) {
	img := TestPattern(70, 40)
	if img.Bounds().Dx() != 70 || img.Bounds().Dy() != 40 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("first bar = %v", got)
	}
	if got := img.RGBAAt(69, 0); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("last bar = %v", got)
	}
}

func TestFacingOpposite(t *testing.T) {
	if FacingUser.Opposite() != FacingEnvironment || FacingEnvironment.Opposite() != FacingUser {
		t.Error("Opposite() mismatch")
	}
}
