// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestOpenSQLiteCreatesSchema(t *testing.T) {
	conn, err := Open(TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()

	// Twice to check idempotency
	for i := 0; i < 2; i++ {
		if err := CreateSchema(conn, TypeSQLite); err != nil {
			t.Fatalf("CreateSchema() run %d error = %v", i+1, err)
		}
	}

	for _, table := range []string{"users", "media_post"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestUniqueViolation(t *testing.T) {
	conn, err := Open(TypeSQLite, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if err := CreateSchema(conn, TypeSQLite); err != nil {
		t.Fatal(err)
	}

	insert := `INSERT INTO users (id, username, email, first_name, last_name, password_hash, date_of_birth)
		VALUES ($1, $2, $3, 'A', 'B', 'hash', '2000-01-01')`
	if _, err := conn.Exec(insert, "u1", "alice", "alice@example.com"); err != nil {
		t.Fatalf("first insert error = %v", err)
	}
	_, err = conn.Exec(insert, "u2", "alice", "other@example.com")
	if err == nil {
		t.Fatal("duplicate username accepted")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation(%v) = false", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"postgres unique", &pq.Error{Code: "23505"}, true},
		{"postgres wrapped", fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), true},
		{"postgres other", &pq.Error{Code: "23503"}, false},
		{"plain duplicate text", errors.New("Duplicate entry"), true},
		{"unrelated", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOpenUnsupportedType(t *testing.T) {
	if _, err := Open("oracle", "x"); err == nil {
		t.Error("Open() accepted unsupported type")
	}
}
