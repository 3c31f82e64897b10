// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/danielhkuo/tipper/editor"
	"github.com/danielhkuo/tipper/media"
	"github.com/danielhkuo/tipper/middleware"
	"github.com/danielhkuo/tipper/models"
)

// viewResult writes the view returned by a session edit.
func viewResult(w http.ResponseWriter, view editor.View, err error) {
	if err != nil {
		editorError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, view)
}

// SetAdjustments handles PATCH /api/editor/sessions/{id}/adjustments
func (h *EditorHandler) SetAdjustments(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	var patch media.AdjustmentPatch
	if err := middleware.ParseJSONBody(r, &patch); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	view, err := sess.SetAdjustments(patch)
	viewResult(w, view, err)
}

// ApplyFilter handles POST /api/editor/sessions/{id}/filter
func (h *EditorHandler) ApplyFilter(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	var req models.FilterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.FilterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "filter_id is required")
		return
	}
	view, err := sess.ApplyFilter(media.FilterID(req.FilterID))
	viewResult(w, view, err)
}

// ListFilters handles GET /api/editor/filters
func (h *EditorHandler) ListFilters(w http.ResponseWriter, r *http.Request) {
	type filter struct {
		ID          media.FilterID    `json:"id"`
		Adjustments media.Adjustments `json:"adjustments"`
	}
	out := []filter{}
	for _, id := range media.Filters() {
		adj, _ := media.Preset(id)
		out = append(out, filter{ID: id, Adjustments: adj})
	}
	middleware.JSONResponse(w, http.StatusOK, out)
}

// Rotate handles POST /api/editor/sessions/{id}/rotate
func (h *EditorHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	var req models.RotateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	dir := editor.Direction(req.Direction)
	if dir != editor.Left && dir != editor.Right {
		middleware.ErrorResponse(w, http.StatusBadRequest, `direction must be "left" or "right"`)
		return
	}
	view, err := sess.Rotate(dir)
	viewResult(w, view, err)
}

// Flip handles POST /api/editor/sessions/{id}/flip
func (h *EditorHandler) Flip(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	view, err := sess.Flip()
	viewResult(w, view, err)
}

// SetView handles PUT /api/editor/sessions/{id}/view
func (h *EditorHandler) SetView(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	var req models.ViewRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	g := sess.View().Geometry
	if req.Zoom != nil {
		g.Zoom = *req.Zoom
	}
	if req.PanX != nil {
		g.PanX = *req.PanX
	}
	if req.PanY != nil {
		g.PanY = *req.PanY
	}
	view, err := sess.SetView(g.Zoom, g.PanX, g.PanY)
	viewResult(w, view, err)
}

// AddOverlay handles POST /api/editor/sessions/{id}/overlays
func (h *EditorHandler) AddOverlay(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	var req models.AddOverlayRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var (
		id   string
		view editor.View
		err  error
	)
	switch req.Kind {
	case models.OverlayKindText:
		t := media.DefaultText(req.X, req.Y)
		media.TextPatch{
			Text:       req.Text,
			FontSize:   req.FontSize,
			Color:      req.Color,
			FontFamily: req.FontFamily,
			Bold:       req.Bold,
			Italic:     req.Italic,
		}.ApplyTo(&t)
		id, view, err = sess.AddText(t)
	case models.OverlayKindSticker:
		if req.Emoji == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "emoji is required")
			return
		}
		s := media.DefaultSticker(req.Emoji, req.X, req.Y)
		media.StickerPatch{Size: req.Size, Rotation: req.Rotation}.ApplyTo(&s)
		id, view, err = sess.AddSticker(s)
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, `kind must be "text" or "sticker"`)
		return
	}
	if err != nil {
		editorError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.AddOverlayResponse{
		OverlayID: id,
		Session:   view,
	})
}

// UpdateOverlay handles PATCH /api/editor/sessions/{id}/overlays/{oid}
// The body is a text or sticker patch depending on the overlay's kind. An
// unknown oid leaves the session unchanged and returns its view.
func (h *EditorHandler) UpdateOverlay(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	oid := r.PathValue("oid")

	var raw json.RawMessage
	if err := middleware.ParseJSONBody(r, &raw); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ov, ok := sess.Overlay(oid)
	if !ok {
		// unknown ids are a no-op, as for the core update operations
		view, err := sess.UpdateText(oid, media.TextPatch{})
		viewResult(w, view, err)
		return
	}

	switch ov.OverlayKind() {
	case media.OverlayText:
		var p media.TextPatch
		if err := json.Unmarshal(raw, &p); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		view, err := sess.UpdateText(oid, p)
		viewResult(w, view, err)
	case media.OverlaySticker:
		var p media.StickerPatch
		if err := json.Unmarshal(raw, &p); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		view, err := sess.UpdateSticker(oid, p)
		viewResult(w, view, err)
	}
}

// RemoveOverlay handles DELETE /api/editor/sessions/{id}/overlays/{oid}
func (h *EditorHandler) RemoveOverlay(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	view, err := sess.RemoveOverlay(r.PathValue("oid"))
	viewResult(w, view, err)
}

// Commit handles POST /api/editor/sessions/{id}/commit
func (h *EditorHandler) Commit(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	view, err := sess.Commit()
	viewResult(w, view, err)
}

// Undo handles POST /api/editor/sessions/{id}/undo
func (h *EditorHandler) Undo(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	view, err := sess.Undo()
	viewResult(w, view, err)
}

// Redo handles POST /api/editor/sessions/{id}/redo
func (h *EditorHandler) Redo(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	view, err := sess.Redo()
	viewResult(w, view, err)
}

// AIEdit handles POST /api/editor/sessions/{id}/ai-edit
func (h *EditorHandler) AIEdit(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	var req models.AIEditRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	res, view, err := sess.AIEdit(r.Context(), req.Prompt)
	if err != nil {
		editorError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.AIEditResponse{
		Result:  res,
		Session: view,
	})
}
