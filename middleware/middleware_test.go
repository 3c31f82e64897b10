// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/danielhkuo/tipper/media"
	"github.com/danielhkuo/tipper/models"
)

// captureLogs routes the default logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

// completedStatus returns the status of the "request completed" log line.
func completedStatus(t *testing.T, logs *bytes.Buffer) int {
	t.Helper()
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		var entry struct {
			Msg    string `json:"msg"`
			Status int    `json:"status"`
		}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		if entry.Msg == "request completed" {
			return entry.Status
		}
	}
	t.Fatal("no request completed log line")
	return 0
}

func TestStatusRecorder(t *testing.T) {
	testCases := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantBody   string
	}{
		{
			name:       "explicit status",
			handler:    func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusAccepted) },
			wantStatus: http.StatusAccepted,
		},
		{
			name: "second WriteHeader is ignored",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "Write implies 200",
			handler:    func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("jpeg bytes")) },
			wantStatus: http.StatusOK,
			wantBody:   "jpeg bytes",
		},
		{
			name: "WriteHeader after Write is ignored",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("partial"))
				w.WriteHeader(http.StatusBadGateway)
			},
			wantStatus: http.StatusOK,
			wantBody:   "partial",
		},
		{
			name: "error helper then stray WriteHeader",
			handler: func(w http.ResponseWriter, r *http.Request) {
				ErrorResponse(w, http.StatusConflict, "username already taken")
				w.WriteHeader(http.StatusOK)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "nothing written",
			handler:    func(w http.ResponseWriter, r *http.Request) {},
			wantStatus: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			rw := record(w)

			tc.handler(rw, httptest.NewRequest("POST", "/api/editor/sessions/s1/save", nil))

			if rw.status != tc.wantStatus {
				t.Errorf("recorded status = %d, want %d", rw.status, tc.wantStatus)
			}
			if w.Code != tc.wantStatus {
				t.Errorf("written status = %d, want %d", w.Code, tc.wantStatus)
			}
			if tc.wantBody != "" && w.Body.String() != tc.wantBody {
				t.Errorf("body = %q, want %q", w.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestRecordReusesRecorder(t *testing.T) {
	rw := record(httptest.NewRecorder())
	if record(rw) != rw {
		t.Error("record() wrapped an existing recorder again")
	}
}

func TestWithLogging_LogsFirstStatus(t *testing.T) {
	logs := captureLogs(t)
	handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {
		JSONResponse(w, http.StatusCreated, models.CreateSessionResponse{SessionID: "s1", SessionKey: "k1"})
		w.WriteHeader(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("POST", "/api/editor/sessions", nil))

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}
	if got := completedStatus(t, logs); got != http.StatusCreated {
		t.Errorf("logged status = %d, want 201", got)
	}
}

func TestLoggingAndMetricsShareRecorder(t *testing.T) {
	logs := captureLogs(t)
	m := NewMetrics()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/editor/sessions/{id}/capture", WithLogging(m.WithMetrics(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(w, http.StatusServiceUnavailable, "camera busy")
		w.WriteHeader(http.StatusOK)
	})))

	counter := m.RequestsTotal.WithLabelValues("POST /api/editor/sessions/{id}/capture", "POST", "503")
	before := promtest.ToFloat64(counter)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("POST", "/api/editor/sessions/s1/capture", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if got := promtest.ToFloat64(counter) - before; got != 1 {
		t.Errorf("503 counter delta = %v, want 1", got)
	}
	if got := completedStatus(t, logs); got != http.StatusServiceUnavailable {
		t.Errorf("logged status = %d, want 503", got)
	}
}

func TestJSONResponse(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
		data       any
		expected   string
	}{
		{
			name:       "created session",
			statusCode: http.StatusCreated,
			data:       models.CreateSessionResponse{SessionID: "abc123", SessionKey: "key456"},
			expected:   `{"session_id":"abc123","session_key":"key456"}`,
		},
		{
			name:       "saved post",
			statusCode: http.StatusCreated,
			data:       models.SaveResponse{PostID: "p1", ShareSlug: "x9", MediaType: "photo", MIMEType: "image/jpeg", ByteSize: 2048},
			expected:   `{"post_id":"p1","share_slug":"x9","media_type":"photo","mime_type":"image/jpeg","byte_size":2048}`,
		},
		{
			name:       "error without message",
			statusCode: http.StatusNotFound,
			data:       models.ErrorResponse{Error: "Not Found"},
			expected:   `{"error":"Not Found"}`,
		},
		{
			name:       "empty post list",
			statusCode: http.StatusOK,
			data:       models.MyPostsResponse{Posts: []models.MediaPost{}},
			expected:   `{"posts":[]}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			JSONResponse(w, tc.statusCode, tc.data)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected Content-Type 'application/json', got '%s'", ct)
			}
			if body := strings.TrimSpace(w.Body.String()); body != tc.expected {
				t.Errorf("Expected body '%s', got '%s'", tc.expected, body)
			}
		})
	}
}

func TestErrorResponse(t *testing.T) {
	testCases := []struct {
		statusCode    int
		message       string
		expectedError string
	}{
		{http.StatusBadRequest, "quality must be in [0, 1]", "Bad Request"},
		{http.StatusUnauthorized, "invalid session key", "Unauthorized"},
		{http.StatusRequestEntityTooLarge, "upload too large", "Request Entity Too Large"},
		{http.StatusGatewayTimeout, "AI edit timed out", "Gateway Timeout"},
	}

	for _, tc := range testCases {
		t.Run(tc.expectedError, func(t *testing.T) {
			w := httptest.NewRecorder()

			ErrorResponse(w, tc.statusCode, tc.message)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			var resp models.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if resp.Error != tc.expectedError || resp.Message != tc.message {
				t.Errorf("got %+v", resp)
			}
		})
	}
}

func TestParseJSONBody(t *testing.T) {
	t.Run("partial adjustment patch", func(t *testing.T) {
		req := httptest.NewRequest("PATCH", "/", strings.NewReader(`{"brightness":120,"warmth":-30}`))

		var patch media.AdjustmentPatch
		if err := ParseJSONBody(req, &patch); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if patch.Brightness == nil || *patch.Brightness != 120 {
			t.Errorf("brightness = %v, want 120", patch.Brightness)
		}
		if patch.Warmth == nil || *patch.Warmth != -30 {
			t.Errorf("warmth = %v, want -30", patch.Warmth)
		}
		if patch.Contrast != nil || patch.Blur != nil {
			t.Error("absent fields should stay nil")
		}
	})

	t.Run("registration", func(t *testing.T) {
		body := `{"username":"alice","firstName":"Alice","unknown_field":"ignored"}`
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))

		var parsed models.RegisterRequest
		if err := ParseJSONBody(req, &parsed); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if parsed.Username != "alice" || parsed.FirstName != "Alice" {
			t.Errorf("got %+v", parsed)
		}
	})

	t.Run("wrong field type", func(t *testing.T) {
		req := httptest.NewRequest("PATCH", "/", strings.NewReader(`{"brightness":"bright"}`))

		var patch media.AdjustmentPatch
		if err := ParseJSONBody(req, &patch); err == nil {
			t.Error("Expected error for a string brightness")
		}
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(""))

		var parsed models.RegisterRequest
		if err := ParseJSONBody(req, &parsed); err == nil {
			t.Error("Expected error for empty body")
		}
	})
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("handled"))
	})
	corsHandler := CORS(next)

	testCases := []struct {
		name       string
		method     string
		origin     string
		wantOrigin string
		wantBody   string
	}{
		{"preflight skips handler", "OPTIONS", "http://localhost:5173", "http://localhost:5173", ""},
		{"request reflects origin", "GET", "https://example.com", "https://example.com", "handled"},
		{"no origin is wildcard", "GET", "", "*", "handled"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/api/editor/sessions", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			w := httptest.NewRecorder()

			corsHandler.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Expected status 200, got %d", w.Code)
			}
			if w.Body.String() != tc.wantBody {
				t.Errorf("body = %q, want %q", w.Body.String(), tc.wantBody)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tc.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tc.wantOrigin)
			}
			for _, h := range []string{"X-Session-Key", "Authorization", "Content-Type"} {
				if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), h) {
					t.Errorf("Expected %s in allowed headers", h)
				}
			}
			if !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "PATCH") {
				t.Error("Expected PATCH in allowed methods")
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expectedIP string
	}{
		{"forwarded chain takes first hop", map[string]string{"X-Forwarded-For": "203.0.113.195, 70.41.3.18"}, "127.0.0.1:12345", "203.0.113.195"},
		{"forwarded beats real ip", map[string]string{"X-Forwarded-For": "192.168.1.100", "X-Real-IP": "203.0.113.50"}, "10.0.0.1:12345", "192.168.1.100"},
		{"real ip", map[string]string{"X-Real-IP": " 203.0.113.50 "}, "10.0.0.1:12345", "203.0.113.50"},
		{"remote addr port stripped", nil, "[::1]:12345", "::1"},
		{"remote addr without port", nil, "192.168.1.50", "192.168.1.50"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/auth/register", nil)
			req.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}

			if got := GetClientIP(req); got != tc.expectedIP {
				t.Errorf("Expected IP '%s', got '%s'", tc.expectedIP, got)
			}
		})
	}
}
