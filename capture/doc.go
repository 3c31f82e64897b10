// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package capture turns cameras and uploaded files into media.RawMedia.

# Camera acquisition

Cameras are reached through the Devices interface, which enumerates inputs and
opens a Stream for a set of Constraints. Acquirer.Acquire walks three tiers
before giving up:

  - the preferred device (or facing mode) at an ideal 1920x1080
  - any camera with no constraints
  - the default camera facing the other way

Only when every tier fails does the caller see an error, an *AcquireError that
records each tier's failure and unwraps to the most relevant sentinel
(ErrPermissionDenied, ErrDeviceBusy, ErrUnconstrainable, ErrDeviceNotFound).
UserMessage turns any of them into text suitable for the client.

CaptureFrame freezes the current frame at the stream's native resolution and
stops the stream right after, so the device is released even when the frame
read fails.

# File import

ImportFile reads and decodes an upload on its own goroutine and hands back a
Task. Images (PNG, JPEG, GIF, WebP) are decoded into pixels; videos are kept as
opaque bytes. Anything else fails with ErrUnreadableFile, as does an upload
over Limits. The pixel cap is read from the image header, so an oversized
frame is refused before it is decoded.

# Virtual devices

VirtualDevices implements Devices with in-memory cameras that serve a still
frame. It backs headless servers and tests; TestPattern generates a frame when
no image is supplied.
*/
package capture
