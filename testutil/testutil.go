// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/tipper/auth"
	"github.com/danielhkuo/tipper/capture"
	"github.com/danielhkuo/tipper/cliparse"
	"github.com/danielhkuo/tipper/compositor"
	"github.com/danielhkuo/tipper/db"
	"github.com/danielhkuo/tipper/editor"
)

// TestDBURL is the connection string for the test database
const TestDBURL = ":memory:"

// Test camera IDs served by NewTestStore
const (
	FrontCameraID = "virtual-front"
	BackCameraID  = "virtual-back"
)

func init() {
	// Keep bcrypt fast in tests
	auth.PasswordCost = bcrypt.MinCost
}

// SetupTestDB opens a fresh in-memory SQLite database with the full schema.
// It is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:               3318,
		DatabaseURL:        TestDBURL,
		DatabaseType:       db.TypeSQLite,
		TokenSecret:        "test-token-secret-0123456789",
		TokenTTL:           time.Hour,
		AIEditTimeout:      5 * time.Second,
		MaxUploadBytes:     1 << 20,
		MaxImagePixels:     1 << 20,
		SessionIdleTimeout: time.Minute,
		VirtualCamera:      true,
	}
}

// NewTestDevices returns a front and a back virtual camera.
func NewTestDevices() *capture.VirtualDevices {
	return capture.NewVirtualDevices(
		capture.VirtualCamera{ID: FrontCameraID, Label: "Front", Facing: capture.FacingUser, Frame: capture.TestPattern(64, 48)},
		capture.VirtualCamera{ID: BackCameraID, Label: "Back", Facing: capture.FacingEnvironment, Frame: capture.TestPattern(80, 60)},
	)
}

// NewTestStore builds a session store with virtual cameras, the Go font book
// and an instant keyword AI editor. Sessions are closed when the test ends.
func NewTestStore(t *testing.T, cfg cliparse.Config, devices capture.Devices) *editor.Store {
	t.Helper()

	fonts, err := compositor.NewFontBook()
	if err != nil {
		t.Fatalf("Failed to load fonts: %v", err)
	}
	if devices == nil {
		devices = NewTestDevices()
	}

	store := editor.NewStore(editor.Config{
		Acquirer:       capture.NewAcquirer(devices),
		Compositor:     compositor.New(fonts),
		AI:             editor.KeywordEditor{},
		AITimeout:      cfg.AIEditTimeout,
		MaxUploadBytes: cfg.MaxUploadBytes,
		MaxImagePixels: cfg.MaxImagePixels,
	}, cfg.SessionIdleTimeout)
	t.Cleanup(store.CloseAll)
	return store
}

// CreateTestSession creates a session and returns it with its key
func CreateTestSession(t *testing.T, store *editor.Store, cfg cliparse.Config) (*editor.Session, string) {
	t.Helper()
	sess := store.Create()
	return sess, auth.GenerateSessionKey(sess.ID(), cfg.TokenSecret)
}

// TestPNG encodes a w x h image split into a red left half and a blue
// right half.
func TestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{R: 220, A: 255}
			if x >= w/2 {
				c = color.RGBA{B: 220, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

// LoadTestImage imports a w x h PNG into sess, leaving it Captured.
func LoadTestImage(t *testing.T, sess *editor.Session, w, h int) {
	t.Helper()
	task, err := sess.Import(capture.File{
		Name:     "test.png",
		MIMEType: "image/png",
		Body:     bytes.NewReader(TestPNG(t, w, h)),
	})
	if err != nil {
		t.Fatalf("Failed to start import: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := task.Wait(ctx); err != nil {
		t.Fatalf("Failed to import test image: %v", err)
	}
}

// CreateTestUser inserts a user and returns its ID
func CreateTestUser(t *testing.T, conn *sql.DB, username, email string) string {
	t.Helper()

	id, _ := auth.GenerateID(16)
	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	_, err = conn.Exec(`
		INSERT INTO users (id, username, email, first_name, last_name, password_hash, date_of_birth, created_at)
		VALUES ($1, $2, $3, 'Test', 'User', $4, '1990-01-01', $5)
	`, id, username, email, hash, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return id
}

// SessionHeaders returns the X-Session-Key header map for key
func SessionHeaders(key string) map[string]string {
	return map[string]string{"X-Session-Key": key}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
