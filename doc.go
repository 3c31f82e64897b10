// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the tipper API server.

tipper turns a camera frame or an uploaded file into a post: the editor
applies colour adjustments, filter presets, rotation and flip, text and
sticker overlays, with undo/redo, and exports a flattened JPEG, PNG or GIF.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=tipper.db TOKEN_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -token-secret ...

A .env file in the working directory and a YAML file (-c or TIPPER_CONFIG)
are read too. Flags win over the environment, which wins over the file.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - TOKEN_SECRET (--token-secret): HMAC secret for access tokens, session
    keys, share slugs and IP hashes (at least 16 bytes)

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - TOKEN_TTL (--token-ttl): Access token lifetime (default: 24h)
  - AI_EDIT_LATENCY, AI_EDIT_TIMEOUT: Simulated AI edit delay and bound
  - MAX_UPLOAD_BYTES (--max-upload): Import size limit (default: 25 MiB)
  - MAX_IMAGE_PIXELS (--max-pixels): Decoded image size limit (default: 40M pixels)
  - SESSION_IDLE_TIMEOUT (--session-idle): Editor session expiry (default: 30m)
  - VIRTUAL_CAMERA (--virtual-camera): Serve test-pattern cameras

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (register, health, editor, media)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, metrics, JSON helpers
  - models: Request/response types
  - auth: Keys, passwords, tokens and slugs
  - db: Connection and schema creation
  - cliparse: Configuration parsing

The editing pipeline lives in its own packages:

  - media: Raw frames, adjustments, presets, geometry, overlays, history
  - capture: Camera acquisition with fallback tiers, frame grabs, imports
  - compositor: Flattens media and edit state into one image
  - exporter: Encodes composited frames
  - editor: Session state machine and store

See package documentation for each component.
*/
package main
