// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/danielhkuo/tipper/cliparse"
	"github.com/danielhkuo/tipper/editor"
	"github.com/danielhkuo/tipper/handlers"
	"github.com/danielhkuo/tipper/middleware"
)

// Banner is served at the root path.
const Banner = "tipper API v1"

func NewRouter(db *sql.DB, cfg cliparse.Config, store *editor.Store, started time.Time) *http.ServeMux {
	mux := http.NewServeMux()
	metrics := middleware.NewMetrics()
	metrics.TrackSessions(store.Len)

	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(metrics.WithMetrics(h)))
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	healthHandler := handlers.NewHealthHandler(db, cfg, started)
	editorHandler := handlers.NewEditorHandler(db, cfg, store, metrics)
	mediaHandler := handlers.NewMediaHandler(db, cfg)

	// Liveness
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	handle("GET /api/health", healthHandler.Health)
	mux.Handle("GET /metrics", metrics.Handler())

	// Accounts
	handle("POST /api/auth/register", authHandler.Register)

	// Editor sessions (all {id} routes require X-Session-Key)
	handle("GET /api/editor/devices", editorHandler.ListDevices)
	handle("GET /api/editor/filters", editorHandler.ListFilters)
	handle("POST /api/editor/sessions", editorHandler.CreateSession)
	handle("GET /api/editor/sessions/{id}", editorHandler.GetSession)
	handle("DELETE /api/editor/sessions/{id}", editorHandler.CloseSession)

	// Media sources
	handle("POST /api/editor/sessions/{id}/import", editorHandler.Import)
	handle("POST /api/editor/sessions/{id}/capture", editorHandler.StartCapture)
	handle("POST /api/editor/sessions/{id}/capture/photo", editorHandler.TakePhoto)
	handle("POST /api/editor/sessions/{id}/retake", editorHandler.Retake)

	// Edits
	handle("PATCH /api/editor/sessions/{id}/adjustments", editorHandler.SetAdjustments)
	handle("POST /api/editor/sessions/{id}/filter", editorHandler.ApplyFilter)
	handle("POST /api/editor/sessions/{id}/rotate", editorHandler.Rotate)
	handle("POST /api/editor/sessions/{id}/flip", editorHandler.Flip)
	handle("PUT /api/editor/sessions/{id}/view", editorHandler.SetView)
	handle("POST /api/editor/sessions/{id}/overlays", editorHandler.AddOverlay)
	handle("PATCH /api/editor/sessions/{id}/overlays/{oid}", editorHandler.UpdateOverlay)
	handle("DELETE /api/editor/sessions/{id}/overlays/{oid}", editorHandler.RemoveOverlay)
	handle("POST /api/editor/sessions/{id}/ai-edit", editorHandler.AIEdit)

	// History
	handle("POST /api/editor/sessions/{id}/commit", editorHandler.Commit)
	handle("POST /api/editor/sessions/{id}/undo", editorHandler.Undo)
	handle("POST /api/editor/sessions/{id}/redo", editorHandler.Redo)

	// Output
	handle("GET /api/editor/sessions/{id}/preview", editorHandler.Preview)
	handle("POST /api/editor/sessions/{id}/save", editorHandler.Save)
	handle("GET /api/media/{slug}", mediaHandler.GetMedia)
	handle("GET /api/me/posts", mediaHandler.ListMyPosts)

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(Banner))
	})

	return mux
}
