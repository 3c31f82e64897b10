// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides credential, key and token utilities.

# Session Keys

Editor sessions are guarded by HMAC-SHA256 keys:

	key := auth.GenerateSessionKey(sessionID, secret)
	err := auth.ValidateSessionKey(sessionID, key, secret)

The key is URL-safe base64 encoded without padding. It is deterministic, so
the server validates it without storing it anywhere.

# Passwords

Account passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, password)

Passwords longer than MaxPasswordLen bytes are rejected rather than
silently truncated.

# Access Tokens

Registration returns an HS256 JWT:

	token, err := auth.IssueAccessToken(secret, userID, username, ttl)
	claims, err := auth.ValidateAccessToken(secret, token)

Validation accepts HS256 only and checks issuer and expiry.

# Share Slugs

Saved media is retrievable through a short slug:

	slug := auth.GenerateShareSlug(postID, secret)

Slugs are base62 encoded (alphanumeric only) and deterministic from the post
ID and secret.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters

# IP Hashing

Signup addresses are stored hashed:

	hash := auth.HashIP(ipAddress, secret)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
