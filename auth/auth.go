// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
)

// AdminScope is the message signed to derive the ledger admin key.
const AdminScope = "dzmatch-votes/ledger"

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrAdminDisabled   = errors.New("admin access disabled")
)

// AdminKey derives the operator key from the configured salt.
// Deterministic, so nothing has to be stored.
func AdminKey(salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(AdminScope))
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(h.Sum(nil)), "=")
}

// ValidateAdminKey checks a presented key. An empty salt disables admin
// access entirely rather than accepting the key derived from "".
func ValidateAdminKey(adminKey, salt string) error {
	if salt == "" {
		return ErrAdminDisabled
	}
	expected := AdminKey(salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// HashIP creates a one-way hash of an IP address for logs.
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// first 16 hex chars (64 bits) are enough to correlate requests
	return hex.EncodeToString(sum[:8])
}
