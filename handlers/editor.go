// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/tipper/auth"
	"github.com/danielhkuo/tipper/capture"
	"github.com/danielhkuo/tipper/cliparse"
	"github.com/danielhkuo/tipper/editor"
	"github.com/danielhkuo/tipper/exporter"
	"github.com/danielhkuo/tipper/media"
	"github.com/danielhkuo/tipper/middleware"
	"github.com/danielhkuo/tipper/models"
)

// SessionKeyHeader carries the key returned by CreateSession.
const SessionKeyHeader = "X-Session-Key"

type EditorHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	store   *editor.Store
	metrics *middleware.Metrics
}

func NewEditorHandler(db *sql.DB, cfg cliparse.Config, store *editor.Store, metrics *middleware.Metrics) *EditorHandler {
	return &EditorHandler{db: db, cfg: cfg, store: store, metrics: metrics}
}

// session resolves {id} and checks the session key. On failure the response
// has been written and nil is returned.
func (h *EditorHandler) session(w http.ResponseWriter, r *http.Request) *editor.Session {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return nil
	}

	if err := auth.ValidateSessionKey(id, r.Header.Get(SessionKeyHeader), h.cfg.TokenSecret); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid session key")
		return nil
	}

	sess, err := h.store.Get(id)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return nil
	}
	return sess
}

// editorError maps pipeline errors onto HTTP statuses.
func editorError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := err.Error()

	switch {
	case errors.Is(err, editor.ErrSessionNotFound), errors.Is(err, editor.ErrOverlayNotFound):
		status = http.StatusNotFound
	case errors.Is(err, editor.ErrSessionClosed):
		status = http.StatusGone
	case errors.Is(err, editor.ErrInvalidTransition),
		errors.Is(err, editor.ErrNoMedia),
		errors.Is(err, editor.ErrNoStream),
		errors.Is(err, editor.ErrSuperseded),
		errors.Is(err, editor.ErrSaveInProgress),
		errors.Is(err, exporter.ErrNoOutput):
		status = http.StatusConflict
	case errors.Is(err, media.ErrUnknownFilter), errors.Is(err, editor.ErrEmptyPrompt):
		status = http.StatusBadRequest
	case errors.Is(err, exporter.ErrEncodeFailure):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, capture.ErrPermissionDenied):
		status, msg = http.StatusForbidden, capture.UserMessage(err)
	case errors.Is(err, capture.ErrDeviceNotFound):
		status, msg = http.StatusNotFound, capture.UserMessage(err)
	case errors.Is(err, capture.ErrDeviceBusy):
		status, msg = http.StatusConflict, capture.UserMessage(err)
	case errors.Is(err, capture.ErrUnconstrainable):
		status, msg = http.StatusUnprocessableEntity, capture.UserMessage(err)
	case errors.Is(err, capture.ErrUnreadableFile):
		status, msg = http.StatusUnsupportedMediaType, capture.UserMessage(err)
	case errors.Is(err, context.DeadlineExceeded):
		status, msg = http.StatusGatewayTimeout, "Timed out"
	case errors.Is(err, context.Canceled):
		// Client went away; 499 is what proxies log for this
		status, msg = 499, "Request canceled"
	}

	if status >= http.StatusInternalServerError {
		slog.Error("editor request failed", "error", err)
		msg = http.StatusText(status)
	}
	middleware.ErrorResponse(w, status, msg)
}

// CreateSession handles POST /api/editor/sessions
func (h *EditorHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess := h.store.Create()
	middleware.JSONResponse(w, http.StatusCreated, models.CreateSessionResponse{
		SessionID:  sess.ID(),
		SessionKey: auth.GenerateSessionKey(sess.ID(), h.cfg.TokenSecret),
	})
}

// GetSession handles GET /api/editor/sessions/{id}
func (h *EditorHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sess.View())
}

// CloseSession handles DELETE /api/editor/sessions/{id}
func (h *EditorHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	if err := h.store.Close(sess.ID()); err != nil {
		editorError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListDevices handles GET /api/editor/devices
func (h *EditorHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	devices := []capture.DeviceInfo{}
	if acq := h.store.Config().Acquirer; acq != nil {
		found, err := acq.Devices().Enumerate(r.Context())
		if err != nil {
			editorError(w, err)
			return
		}
		devices = append(devices, found...)
	}
	middleware.JSONResponse(w, http.StatusOK, devices)
}
