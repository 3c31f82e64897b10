// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/tipper/auth"
	"github.com/danielhkuo/tipper/cliparse"
	"github.com/danielhkuo/tipper/editor"
	"github.com/danielhkuo/tipper/middleware"
	"github.com/danielhkuo/tipper/models"
)

type MediaHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewMediaHandler(db *sql.DB, cfg cliparse.Config) *MediaHandler {
	return &MediaHandler{db: db, cfg: cfg}
}

// GetMedia handles GET /api/media/{slug}
func (h *MediaHandler) GetMedia(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	var mimeType string
	var payload []byte
	err := h.db.QueryRowContext(r.Context(), `
		SELECT mime_type, payload FROM media_post WHERE share_slug = $1
	`, slug).Scan(&mimeType, &payload)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Media not found")
		return
	}
	if err != nil {
		slog.Error("failed to query media post", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	// Posts never change once stored
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// ListMyPosts handles GET /api/me/posts
// Lists the caller's saved posts, newest first. Requires a bearer token.
func (h *MediaHandler) ListMyPosts(w http.ResponseWriter, r *http.Request) {
	claims, err := bearerClaims(r, h.cfg.TokenSecret)
	if err != nil || claims == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Valid access token required")
		return
	}

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT id, session_id, description, media_type, mime_type, share_slug, byte_size, created_at
		FROM media_post
		WHERE user_id = $1
		ORDER BY created_at DESC, id
	`, claims.Subject)
	if err != nil {
		slog.Error("failed to query posts", "error", err, "user_id", claims.Subject)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	posts := []models.MediaPost{}
	for rows.Next() {
		post := models.MediaPost{UserID: &claims.Subject}
		if err := rows.Scan(
			&post.ID,
			&post.SessionID,
			&post.Description,
			&post.MediaType,
			&post.MIMEType,
			&post.ShareSlug,
			&post.ByteSize,
			&post.CreatedAt,
		); err != nil {
			slog.Error("failed to scan post", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate posts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MyPostsResponse{Posts: posts})
}

// bearerClaims validates an optional "Authorization: Bearer" header.
// No header gives nil claims and no error.
func bearerClaims(r *http.Request, secret string) (*auth.Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, nil
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	return auth.ValidateAccessToken(secret, strings.TrimSpace(token))
}

// insertPost stores a saved export and returns the new post.
func insertPost(ctx context.Context, db *sql.DB, secret string, userID *string, m editor.SavedMedia) (models.MediaPost, error) {
	post := models.MediaPost{
		ID:          uuid.NewString(),
		UserID:      userID,
		SessionID:   m.SessionID,
		Description: m.Description,
		MediaType:   string(m.Type),
		MIMEType:    m.MIMEType,
		ByteSize:    len(m.Bytes),
		Payload:     m.Bytes,
		CreatedAt:   time.Now().UTC(),
	}
	post.ShareSlug = auth.GenerateShareSlug(post.ID, secret)

	_, err := db.ExecContext(ctx, `
		INSERT INTO media_post (id, user_id, session_id, description, media_type, mime_type, share_slug, byte_size, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, post.ID, post.UserID, post.SessionID, post.Description, post.MediaType, post.MIMEType, post.ShareSlug, post.ByteSize, post.Payload, post.CreatedAt)
	if err != nil {
		return models.MediaPost{}, fmt.Errorf("insert media post: %w", err)
	}

	slog.Info("media post stored", "post_id", post.ID, "session_id", post.SessionID, "share_slug", post.ShareSlug, "bytes", post.ByteSize)
	return post, nil
}
