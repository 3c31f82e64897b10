// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates its schema.

# Connecting

Two backends are supported, SQLite (modernc.org/sqlite, pure Go) and
PostgreSQL (lib/pq):

	conn, err := db.Open(db.TypeSQLite, "tipper.db")
	conn, err := db.Open(db.TypePostgres, "postgres://...")

Open pings the database before returning. SQLite connections get
foreign_keys and busy_timeout pragmas and a pool of one connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The payload column is BLOB on SQLite and BYTEA on PostgreSQL; everything else
is shared. Queries use $N placeholders, which both drivers accept.

# Tables

  - users: registered accounts (username and email unique)
  - media_post: exported photos and videos with their share slug

# Relationships

	users 1──* media_post (user_id, nullable)

Deleting a user keeps their posts and clears user_id.

# Errors

IsUniqueViolation recognizes duplicate-key errors from both drivers:

	if db.IsUniqueViolation(err) {
		// 409
	}
*/
package db
