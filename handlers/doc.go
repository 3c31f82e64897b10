// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the tipper API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - AuthHandler: Account registration
  - HealthHandler: Uptime and database connectivity
  - EditorHandler: Editor sessions, capture, edits, preview and save
  - MediaHandler: Stored media retrieval and per-user listing

Handlers are created via constructor functions:

	editorHandler := handlers.NewEditorHandler(db, cfg, store, metrics)

# Editor Sessions

POST /api/editor/sessions returns a session_id and a session_key. Every
other session route requires the key in the X-Session-Key header. The key
is an HMAC of the session ID, so no lookup table is kept.

A session moves through idle, capturing, captured, editing and exported.
Requests that do not fit the current phase get 409 Conflict.

# Media Sources

	POST .../capture        → StartCapture (waits for the camera)
	POST .../capture/photo  → TakePhoto
	POST .../import         → Import (raw body or multipart "file")

# Saving

POST .../save exports the composited image (or the untouched video) and
stores it as a media post with a share slug. An optional bearer token from
POST /api/auth/register attributes the post to that user.

	GET /api/media/{slug} → GetMedia
	GET /api/me/posts     → ListMyPosts
*/
package handlers
