// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/tipper/cliparse"
	"github.com/danielhkuo/tipper/middleware"
	"github.com/danielhkuo/tipper/models"
)

const healthPingTimeout = 2 * time.Second

type HealthHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	started time.Time
}

func NewHealthHandler(db *sql.DB, cfg cliparse.Config, started time.Time) *HealthHandler {
	return &HealthHandler{db: db, cfg: cfg, started: started}
}

// Health handles GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:        models.HealthOK,
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
		Database: models.DatabaseHealth{
			Configured: h.cfg.DatabaseURL != "" && h.db != nil,
		},
	}

	if resp.Database.Configured {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			slog.Warn("health check database ping failed", "error", err)
		} else {
			resp.Database.Connected = true
		}
	}

	status := http.StatusOK
	if !resp.Database.Connected {
		resp.Status = models.HealthDegraded
		status = http.StatusServiceUnavailable
	}
	middleware.JSONResponse(w, status, resp)
}
