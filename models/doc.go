// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - RegisterRequest: username, email, firstName, lastName, password, dateOfBirth
  - CaptureRequest: device_id, facing
  - FilterRequest: filter_id
  - RotateRequest: direction
  - ViewRequest: zoom, pan_x, pan_y
  - AddOverlayRequest: kind plus text or sticker fields
  - AIEditRequest: prompt
  - SaveRequest: description, mime_type, quality

Partial overlay and slider updates decode straight into the media package's
patch types.

# Response Types

Types for JSON responses:

  - RegisterResponse: user, accessToken, message
  - RegisterError: error
  - HealthResponse: status, uptime_seconds, database
  - CreateSessionResponse: session_id, session_key
  - AddOverlayResponse: overlay_id, session
  - SaveResponse: post_id, share_slug, media_type, mime_type, byte_size
  - ErrorResponse: error, message

Editor routes otherwise answer with the session view from the editor package.

# Domain Types

  - User: registered account; the password hash never leaves the server
  - MediaPost: an exported photo or video and its share slug

# Constants

Media types:

	MediaTypePhoto = "photo"
	MediaTypeVideo = "video"

Health:

	HealthOK       = "ok"
	HealthDegraded = "degraded"
*/
package models
