// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSessionKey = errors.New("invalid session key")
	ErrInvalidToken      = errors.New("invalid token")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateSessionKey creates an HMAC-based key for an editor session
// This is deterministic and verifiable
func GenerateSessionKey(sessionID, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte("session:" + sessionID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateSessionKey checks if the provided key belongs to the session
func ValidateSessionKey(sessionID, key, secret string) error {
	expected := GenerateSessionKey(sessionID, secret)
	if !hmac.Equal([]byte(key), []byte(expected)) {
		return ErrInvalidSessionKey
	}
	return nil
}

// GenerateShareSlug creates a short, deterministic URL slug for a media post
// Uses HMAC for determinism and base62 encoding for URL-friendliness
func GenerateShareSlug(postID, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte("post:" + postID))
	sum := h.Sum(nil)

	// Take first 8 bytes for a shorter slug
	return base62Encode(sum[:8])
}

// base62Encode converts bytes to base62 (0-9, a-z, A-Z)
func base62Encode(data []byte) string {
	const base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	var num uint64
	for i := 0; i < len(data) && i < 8; i++ {
		num = num<<8 | uint64(data[i])
	}

	if num == 0 {
		return "0"
	}

	result := make([]byte, 0, 11) // max length for uint64
	for num > 0 {
		result = append(result, base62Chars[num%62])
		num /= 62
	}

	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return string(result)
}

// HashIP creates a one-way hash of an IP address for privacy
func HashIP(ip, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte("ip:" + ip))
	sum := h.Sum(nil)
	// First 16 hex chars (64 bits) - enough for abuse tracking
	return hex.EncodeToString(sum[:8])
}
