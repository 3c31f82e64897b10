// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/tipper/auth"
	"github.com/danielhkuo/tipper/cliparse"
	"github.com/danielhkuo/tipper/db"
	"github.com/danielhkuo/tipper/middleware"
	"github.com/danielhkuo/tipper/models"
)

const (
	dateLayout   = "2006-01-02"
	maxNameLen   = 100
	minSignupAge = 13
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.]{3,30}$`)

type AuthHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	now func() time.Time
}

func NewAuthHandler(db *sql.DB, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, now: time.Now}
}

// registerError writes the registration failure body, which is a bare
// {"error": "..."} object.
func registerError(w http.ResponseWriter, status int, msg string) {
	middleware.JSONResponse(w, status, models.RegisterError{Error: msg})
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		registerError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user, err := h.validate(&req)
	if err != nil {
		registerError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Friendly conflict messages; the UNIQUE constraints still catch races
	var taken string
	err = h.db.QueryRow(`
		SELECT CASE WHEN username = $1 THEN 'username' ELSE 'email' END
		FROM users WHERE username = $1 OR email = $2
		LIMIT 1
	`, user.Username, user.Email).Scan(&taken)
	switch {
	case err == nil:
		registerError(w, http.StatusConflict, taken+" is already registered")
		return
	case err != sql.ErrNoRows:
		slog.Error("failed to check existing user", "error", err)
		registerError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		registerError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}
	user.PasswordHash = hash
	user.ID = uuid.NewString()
	user.CreatedAt = h.now().UTC()
	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.TokenSecret)
	user.SignupIPHash = &ipHash

	_, err = h.db.Exec(`
		INSERT INTO users (id, username, email, first_name, last_name, password_hash, date_of_birth, signup_ip_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, user.ID, user.Username, user.Email, user.FirstName, user.LastName, user.PasswordHash, user.DateOfBirth, user.SignupIPHash, user.CreatedAt)
	if db.IsUniqueViolation(err) {
		registerError(w, http.StatusConflict, "username or email is already registered")
		return
	}
	if err != nil {
		slog.Error("failed to insert user", "error", err)
		registerError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	token, err := auth.IssueAccessToken(h.cfg.TokenSecret, user.ID, user.Username, h.cfg.TokenTTL)
	if err != nil {
		slog.Error("failed to issue access token", "error", err)
		registerError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterResponse{
		User:        user,
		AccessToken: token,
		Message:     "Registration successful",
	})
}

// validate normalizes req and builds the user it describes.
func (h *AuthHandler) validate(req *models.RegisterRequest) (models.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	dob := strings.TrimSpace(req.DateOfBirth)

	switch {
	case username == "":
		return models.User{}, fmt.Errorf("username is required")
	case !usernamePattern.MatchString(username):
		return models.User{}, fmt.Errorf("username must be 3-30 letters, digits, '_' or '.'")
	case email == "":
		return models.User{}, fmt.Errorf("email is required")
	case first == "":
		return models.User{}, fmt.Errorf("firstName is required")
	case last == "":
		return models.User{}, fmt.Errorf("lastName is required")
	case len(first) > maxNameLen || len(last) > maxNameLen:
		return models.User{}, fmt.Errorf("names must be at most %d characters", maxNameLen)
	case len(req.Password) < auth.MinPasswordLen:
		return models.User{}, fmt.Errorf("password must be at least %d characters", auth.MinPasswordLen)
	case len(req.Password) > auth.MaxPasswordLen:
		return models.User{}, fmt.Errorf("password must be at most %d bytes", auth.MaxPasswordLen)
	case dob == "":
		return models.User{}, fmt.Errorf("dateOfBirth is required")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return models.User{}, fmt.Errorf("email is invalid")
	}

	born, err := time.Parse(dateLayout, dob)
	if err != nil {
		return models.User{}, fmt.Errorf("dateOfBirth must be YYYY-MM-DD")
	}
	now := h.now()
	if born.After(now) {
		return models.User{}, fmt.Errorf("dateOfBirth is in the future")
	}
	if born.AddDate(minSignupAge, 0, 0).After(now) {
		return models.User{}, fmt.Errorf("you must be at least %d years old", minSignupAge)
	}

	return models.User{
		Username:    username,
		Email:       email,
		FirstName:   first,
		LastName:    last,
		DateOfBirth: born.Format(dateLayout),
	}, nil
}
