// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the tipper API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, store, time.Now())

Every API route is wrapped with request logging and Prometheus metrics.

# Endpoints

Health and metrics:

	GET /health      - Liveness, plain "OK"
	GET /api/health  - Uptime and database connectivity
	GET /metrics     - Prometheus exposition

Accounts:

	POST /api/auth/register - Create a user, returns an access token

Editor sessions (requires X-Session-Key on every {id} route):

	GET    /api/editor/devices        - Capture devices
	GET    /api/editor/filters        - Filter presets
	POST   /api/editor/sessions       - Create session, returns session_key
	GET    /api/editor/sessions/{id}  - Session view
	DELETE /api/editor/sessions/{id}  - Close session

Media sources:

	POST /api/editor/sessions/{id}/import        - Upload a file
	POST /api/editor/sessions/{id}/capture       - Open a camera
	POST /api/editor/sessions/{id}/capture/photo - Freeze a frame
	POST /api/editor/sessions/{id}/retake        - Discard and reopen camera

Edits:

	PATCH  /api/editor/sessions/{id}/adjustments     - Move sliders
	POST   /api/editor/sessions/{id}/filter          - Apply preset
	POST   /api/editor/sessions/{id}/rotate          - Quarter turn
	POST   /api/editor/sessions/{id}/flip            - Horizontal flip
	PUT    /api/editor/sessions/{id}/view            - Zoom and pan
	POST   /api/editor/sessions/{id}/overlays        - Add text or sticker
	PATCH  /api/editor/sessions/{id}/overlays/{oid}  - Update overlay
	DELETE /api/editor/sessions/{id}/overlays/{oid}  - Remove overlay
	POST   /api/editor/sessions/{id}/ai-edit         - Prompted edit

History:

	POST /api/editor/sessions/{id}/commit
	POST /api/editor/sessions/{id}/undo
	POST /api/editor/sessions/{id}/redo

Output:

	GET  /api/editor/sessions/{id}/preview - PNG, ?grid=1 for guides
	POST /api/editor/sessions/{id}/save    - Export and store
	GET  /api/media/{slug}                 - Stored media
	GET  /api/me/posts                     - Caller's posts, bearer token required

# Handler Initialization

The router creates handler instances with dependency injection:

	authHandler := handlers.NewAuthHandler(db, cfg)
	healthHandler := handlers.NewHealthHandler(db, cfg, started)
	editorHandler := handlers.NewEditorHandler(db, cfg, store, metrics)
	mediaHandler := handlers.NewMediaHandler(db, cfg)
*/
package router
