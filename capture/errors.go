// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package capture

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPermissionDenied = errors.New("camera permission denied")
	ErrDeviceNotFound   = errors.New("no camera found")
	ErrDeviceBusy       = errors.New("camera is in use")
	ErrUnconstrainable  = errors.New("camera cannot satisfy constraints")
	ErrUnreadableFile   = errors.New("file could not be read")
)

// TierError is the failure of one acquisition attempt.
type TierError struct {
	Tier        string
	Constraints Constraints
	Err         error
}

func (e TierError) Error() string {
	return fmt.Sprintf("%s: %v", e.Tier, e.Err)
}

// AcquireError is returned once every fallback tier has failed.
type AcquireError struct {
	Attempts []TierError
	Kind     error
}

func (e *AcquireError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = a.Error()
	}
	return fmt.Sprintf("acquire camera: %v (%s)", e.Kind, strings.Join(parts, "; "))
}

func (e *AcquireError) Unwrap() error { return e.Kind }

// kindPriority orders sentinels from most to least actionable for the user.
var kindPriority = []error{
	ErrPermissionDenied,
	ErrDeviceBusy,
	ErrUnconstrainable,
	ErrDeviceNotFound,
}

// classify picks the sentinel to surface for a set of tier failures.
// Failures that match no sentinel count as ErrDeviceNotFound.
func classify(attempts []TierError) error {
	for _, kind := range kindPriority {
		for _, a := range attempts {
			if errors.Is(a.Err, kind) {
				return kind
			}
		}
	}
	return ErrDeviceNotFound
}

// UserMessage maps a capture error to text the client can show as is.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPermissionDenied):
		return "Camera access was denied. Allow camera access or import a file instead."
	case errors.Is(err, ErrDeviceBusy):
		return "The camera is being used by another application."
	case errors.Is(err, ErrUnconstrainable):
		return "The camera does not support the requested settings."
	case errors.Is(err, ErrDeviceNotFound):
		return "No camera was found. Import a photo or video instead."
	case errors.Is(err, ErrUnreadableFile):
		return "That file could not be read. Try a different photo or video."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "The camera request was cancelled."
	default:
		return "Something went wrong with the camera."
	}
}
