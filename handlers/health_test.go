// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/danielhkuo/tipper/models"
	"github.com/danielhkuo/tipper/testutil"
)

func TestHealth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewHealthHandler(db, testutil.GetTestConfig(), time.Now().Add(-90*time.Second))

	w := httptest.NewRecorder()
	handler.Health(w, httptest.NewRequest("GET", "/api/health", nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.HealthResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Status != models.HealthOK {
		t.Errorf("Expected status ok, got %q", resp.Status)
	}
	if resp.UptimeSeconds < 90 {
		t.Errorf("Expected uptime >= 90s, got %d", resp.UptimeSeconds)
	}
	if !resp.Database.Configured || !resp.Database.Connected {
		t.Errorf("Expected configured and connected database, got %+v", resp.Database)
	}
}

func TestHealth_Degraded(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	handler := NewHealthHandler(db, testutil.GetTestConfig(), time.Now())
	w := httptest.NewRecorder()
	handler.Health(w, httptest.NewRequest("GET", "/api/health", nil))

	testutil.AssertStatus(t, w, http.StatusServiceUnavailable)
	var resp models.HealthResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Status != models.HealthDegraded {
		t.Errorf("Expected status degraded, got %q", resp.Status)
	}
	if !resp.Database.Configured || resp.Database.Connected {
		t.Errorf("Expected configured but disconnected, got %+v", resp.Database)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestHealth_NotConfigured(t *testing.T) {
	cfg := testutil.GetTestConfig()
	cfg.DatabaseURL = ""
	handler := NewHealthHandler(nil, cfg, time.Now())

	w := httptest.NewRecorder()
	handler.Health(w, httptest.NewRequest("GET", "/api/health", nil))

	testutil.AssertStatus(t, w, http.StatusServiceUnavailable)
	var resp models.HealthResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Database.Configured || resp.Database.Connected {
		t.Errorf("Expected unconfigured database, got %+v", resp.Database)
	}
}
