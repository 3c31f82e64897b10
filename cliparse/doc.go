// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: sqlite (default) or postgres
  - TokenSecret: Secret for access tokens and editor session keys (required, >= 16 bytes)
  - TokenTTL: Access token lifetime (default: 24h)
  - AIEditLatency: Simulated AI edit delay (default: 1.5s)
  - AIEditTimeout: Upper bound on an AI edit (default: 10s)
  - MaxUploadBytes: Largest accepted import (default: 25 MiB)
  - MaxImagePixels: Largest decoded import, width times height (default: 40M)
  - SessionIdleTimeout: Idle editor sessions are closed after this (default: 30m)
  - VirtualCamera: Serve a test-pattern camera (default: false)

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	-token-secret     Token secret
	-token-ttl        Token lifetime
	-ai-latency       AI edit latency
	-ai-timeout       AI edit timeout
	-max-upload       Maximum upload bytes
	-max-pixels       Maximum image pixels
	-session-idle     Session idle timeout
	-virtual-camera   Enable the virtual camera
	-c                YAML config file
	-env-file         dotenv file (default .env)

# Environment Variables

Flags fall back to environment variables:

	PORT                 → -p
	DATABASE_URL         → -d
	DATABASE_TYPE        → -t
	TOKEN_SECRET         → -token-secret
	TOKEN_TTL            → -token-ttl
	AI_EDIT_LATENCY      → -ai-latency
	AI_EDIT_TIMEOUT      → -ai-timeout
	MAX_UPLOAD_BYTES     → -max-upload
	MAX_IMAGE_PIXELS     → -max-pixels
	SESSION_IDLE_TIMEOUT → -session-idle
	VIRTUAL_CAMERA       → -virtual-camera
	TIPPER_CONFIG        → -c

Variables in the .env file are loaded first and never replace ones already
set in the process environment.

# Precedence

CLI flags, then environment, then the YAML file, then defaults. The YAML keys
are the snake_case field names:

	port: 3318
	database_url: file:tipper.db
	token_secret: change-me-please!
	session_idle_timeout: 30m

# Validation

ParseFlags returns an error if required values are missing or out of range:

  - DATABASE_URL must be provided
  - DATABASE_TYPE must be sqlite or postgres
  - TOKEN_SECRET must be provided and at least 16 bytes
*/
package cliparse
