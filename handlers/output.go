// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/tipper/compositor"
	"github.com/danielhkuo/tipper/editor"
	"github.com/danielhkuo/tipper/exporter"
	"github.com/danielhkuo/tipper/middleware"
	"github.com/danielhkuo/tipper/models"
)

// Preview handles GET /api/editor/sessions/{id}/preview
// Responds with a PNG of the composited frame; ?grid=1 adds the guide grid.
func (h *EditorHandler) Preview(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	grid, _ := strconv.ParseBool(r.URL.Query().Get("grid"))

	start := time.Now()
	out, err := sess.Render(compositor.Options{ShowGrid: grid})
	if err != nil {
		editorError(w, err)
		return
	}
	res, err := exporter.Export(out, exporter.MIMEPNG, 0)
	if err != nil {
		editorError(w, err)
		return
	}
	h.metrics.ObserveRender(time.Since(start))

	w.Header().Set("Content-Type", res.MIMEType)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Bytes)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(res.Bytes)
}

// Save handles POST /api/editor/sessions/{id}/save
// The export is stored as a media post. A valid bearer token attributes the
// post to its user; an invalid one is rejected.
func (h *EditorHandler) Save(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	var userID *string
	claims, err := bearerClaims(r, h.cfg.TokenSecret)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid access token")
		return
	}
	if claims != nil {
		userID = &claims.Subject
	}

	var req models.SaveRequest
	if r.ContentLength != 0 {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}
	if q := req.Quality; q != nil && (*q < 0 || *q > 1) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "quality must be in [0, 1]")
		return
	}

	// The sink runs once encoding is done, so exported covers render and
	// encode but not storage.
	start := time.Now()
	var exported time.Duration
	var post models.MediaPost
	sink := func(ctx context.Context, m editor.SavedMedia) error {
		exported = time.Since(start)
		p, err := insertPost(ctx, h.db, h.cfg.TokenSecret, userID, m)
		if err != nil {
			return err
		}
		post = p
		return nil
	}

	saved, err := sess.Save(r.Context(), editor.SaveRequest{
		Description: strings.TrimSpace(req.Description),
		MIMEType:    req.MIMEType,
		Quality:     req.Quality,
	}, sink)
	if err != nil {
		editorError(w, err)
		return
	}
	if saved.Type == editor.MediaPhoto {
		h.metrics.ObserveRender(exported)
	}
	h.metrics.ObserveSave(time.Since(start))
	h.metrics.RecordExport(saved.MIMEType)

	middleware.JSONResponse(w, http.StatusCreated, models.SaveResponse{
		PostID:    post.ID,
		ShareSlug: post.ShareSlug,
		MediaType: post.MediaType,
		MIMEType:  post.MIMEType,
		ByteSize:  post.ByteSize,
	})
}
