// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware, metrics and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /api/health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status,
duration_ms).

# Metrics

NewMetrics returns the process-wide Prometheus collectors:

	m := middleware.NewMetrics()
	mux.HandleFunc("POST /api/auth/register", m.WithMetrics(handler))
	mux.Handle("GET /metrics", m.Handler())

WithMetrics labels requests with the ServeMux pattern, not the raw path, so
session and overlay IDs don't explode the label set. Handlers report render
time with ObserveRender and saves with RecordExport. TrackSessions points the
active sessions gauge at the editor store.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, PATCH, DELETE, OPTIONS with headers
Content-Type, Authorization, X-Session-Key.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used to hash signup addresses.
*/
package middleware
