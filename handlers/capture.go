// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/danielhkuo/tipper/capture"
	"github.com/danielhkuo/tipper/editor"
	"github.com/danielhkuo/tipper/middleware"
	"github.com/danielhkuo/tipper/models"
)

// multipartMemory is how much of a multipart upload is held in memory
// before spilling to disk.
const multipartMemory = 8 << 20

// parseCapture reads an optional capture body. An empty body means any
// device facing the user.
func parseCapture(r *http.Request) (string, capture.Facing, error) {
	var req models.CaptureRequest
	if r.ContentLength != 0 {
		if err := middleware.ParseJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
			return "", "", errors.New("invalid JSON")
		}
	}
	facing := capture.Facing(req.Facing)
	switch facing {
	case "":
		facing = capture.FacingUser
	case capture.FacingUser, capture.FacingEnvironment:
	default:
		return "", "", fmt.Errorf("facing must be %q or %q", capture.FacingUser, capture.FacingEnvironment)
	}
	return req.DeviceID, facing, nil
}

// waitView waits for a capture or import task and writes its outcome.
func waitView(w http.ResponseWriter, r *http.Request, task *capture.Task[editor.View]) {
	view, err := task.Wait(r.Context())
	if err != nil {
		editorError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, view)
}

// StartCapture handles POST /api/editor/sessions/{id}/capture
func (h *EditorHandler) StartCapture(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	deviceID, facing, err := parseCapture(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := sess.StartCapture(deviceID, facing)
	if err != nil {
		editorError(w, err)
		return
	}
	waitView(w, r, task)
}

// Retake handles POST /api/editor/sessions/{id}/retake
func (h *EditorHandler) Retake(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	deviceID, facing, err := parseCapture(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := sess.Retake(deviceID, facing)
	if err != nil {
		editorError(w, err)
		return
	}
	waitView(w, r, task)
}

// TakePhoto handles POST /api/editor/sessions/{id}/capture/photo
func (h *EditorHandler) TakePhoto(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}
	view, err := sess.TakePhoto(r.Context())
	if err != nil {
		editorError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, view)
}

// Import handles POST /api/editor/sessions/{id}/import
// The file is either the raw request body or the "file" part of a
// multipart form.
func (h *EditorHandler) Import(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	limit := h.cfg.MaxUploadBytes
	if limit > 0 {
		// Multipart framing needs a little headroom over the file itself
		r.Body = http.MaxBytesReader(w, r.Body, limit+multipartMemory)
	}

	file, err := readUpload(r, limit)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, "File is too large")
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := sess.Import(file)
	if err != nil {
		editorError(w, err)
		return
	}
	waitView(w, r, task)
}

// readUpload buffers the uploaded file so decoding does not outlive the
// request body.
func readUpload(r *http.Request, limit int64) (capture.File, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return capture.File{}, err
		}
		part, header, err := r.FormFile("file")
		if err != nil {
			return capture.File{}, fmt.Errorf("multipart field \"file\" is required")
		}
		defer part.Close()
		data, err := readLimited(part, limit)
		if err != nil {
			return capture.File{}, err
		}
		return capture.File{
			Name:     header.Filename,
			MIMEType: header.Header.Get("Content-Type"),
			Body:     bytes.NewReader(data),
		}, nil
	}

	defer r.Body.Close()
	data, err := readLimited(r.Body, limit)
	if err != nil {
		return capture.File{}, err
	}
	return capture.File{
		Name:     strings.TrimSpace(r.URL.Query().Get("name")),
		MIMEType: mediaType,
		Body:     bytes.NewReader(data),
	}, nil
}

func readLimited(src io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(src)
	}
	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, &http.MaxBytesError{Limit: limit}
	}
	return data, nil
}
