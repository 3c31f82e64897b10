// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Supported database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Open connects to the database and verifies the connection.
// SQLite connections are limited to one so per-connection pragmas hold.
func Open(dbType, url string) (*sql.DB, error) {
	driver, err := driverName(dbType)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dbType == TypeSQLite {
		conn.SetMaxOpenConns(1)
		for _, pragma := range []string{
			"PRAGMA foreign_keys = ON",
			"PRAGMA busy_timeout = 10000",
		} {
			if _, err := conn.Exec(pragma); err != nil {
				conn.Close()
				return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
			}
		}
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return conn, nil
}

func driverName(dbType string) (string, error) {
	switch dbType {
	case TypeSQLite:
		return "sqlite", nil
	case TypePostgres:
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported database type %q", dbType)
	}
}

// IsUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY conflict
// from either driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate")
}
