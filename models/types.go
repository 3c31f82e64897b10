package models

import (
	"time"

	"github.com/danielhkuo/tipper/editor"
)

// Media types stored with a post
const (
	MediaTypePhoto = "photo"
	MediaTypeVideo = "video"
)

// Health status values
const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
)

// Overlay kinds accepted by AddOverlayRequest
const (
	OverlayKindText    = "text"
	OverlayKindSticker = "sticker"
)

// Request types

// Field names follow the web client, which sends camelCase here.
type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Password    string `json:"password"`
	DateOfBirth string `json:"dateOfBirth"` // YYYY-MM-DD
}

type CaptureRequest struct {
	DeviceID string `json:"device_id"`
	Facing   string `json:"facing"`
}

type FilterRequest struct {
	FilterID string `json:"filter_id"`
}

type RotateRequest struct {
	Direction string `json:"direction"`
}

// Omitted fields keep their current value.
type ViewRequest struct {
	Zoom *float64 `json:"zoom"`
	PanX *float64 `json:"pan_x"`
	PanY *float64 `json:"pan_y"`
}

// AddOverlayRequest creates a text or sticker overlay. Unset optional fields
// take the overlay defaults.
type AddOverlayRequest struct {
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`

	// text
	Text       *string  `json:"text,omitempty"`
	FontSize   *float64 `json:"font_size,omitempty"`
	Color      *string  `json:"color,omitempty"`
	FontFamily *string  `json:"font_family,omitempty"`
	Bold       *bool    `json:"bold,omitempty"`
	Italic     *bool    `json:"italic,omitempty"`

	// sticker
	Emoji    string   `json:"emoji,omitempty"`
	Size     *float64 `json:"size,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
}

type AIEditRequest struct {
	Prompt string `json:"prompt"`
}

type SaveRequest struct {
	Description string   `json:"description"`
	MIMEType    string   `json:"mime_type"`
	Quality     *float64 `json:"quality"`
}

// Response types

type RegisterResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"accessToken"`
	Message     string `json:"message"`
}

// RegisterError is the failure body of the registration endpoint.
type RegisterError struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status        string         `json:"status"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	Database      DatabaseHealth `json:"database"`
}

type DatabaseHealth struct {
	Configured bool `json:"configured"`
	Connected  bool `json:"connected"`
}

type CreateSessionResponse struct {
	SessionID  string `json:"session_id"`
	SessionKey string `json:"session_key"`
}

type AddOverlayResponse struct {
	OverlayID string      `json:"overlay_id"`
	Session   editor.View `json:"session"`
}

type AIEditResponse struct {
	Result  editor.AIEditResult `json:"result"`
	Session editor.View         `json:"session"`
}

type SaveResponse struct {
	PostID    string `json:"post_id"`
	ShareSlug string `json:"share_slug"`
	MediaType string `json:"media_type"`
	MIMEType  string `json:"mime_type"`
	ByteSize  int    `json:"byte_size"`
}

// Domain types

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	DateOfBirth  string    `json:"dateOfBirth"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	SignupIPHash *string   `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"createdAt"`
}

type MediaPost struct {
	ID          string    `json:"id"`
	UserID      *string   `json:"user_id,omitempty"`
	SessionID   string    `json:"session_id"`
	Description string    `json:"description"`
	MediaType   string    `json:"media_type"`
	MIMEType    string    `json:"mime_type"`
	ShareSlug   string    `json:"share_slug"`
	ByteSize    int       `json:"byte_size"`
	Payload     []byte    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

type MyPostsResponse struct {
	Posts []MediaPost `json:"posts"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
