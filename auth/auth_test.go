// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
)

func TestAdminKey(t *testing.T) {
	tests := []struct {
		name string
		salt string
	}{
		{"standard", "secret-salt"},
		{"unicode salt", "sel-épicé"},
		{"long salt", strings.Repeat("s", 256)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := AdminKey(tt.salt)

			if key == "" {
				t.Error("AdminKey() returned empty string")
			}

			// Should be deterministic
			if key != AdminKey(tt.salt) {
				t.Error("AdminKey() is not deterministic")
			}

			if key == AdminKey(tt.salt+"x") {
				t.Error("AdminKey() produced same key for different salts")
			}

			// Should be URL-safe (no padding)
			if strings.ContainsAny(key, "=+/") {
				t.Errorf("AdminKey() is not URL-safe: %s", key)
			}
		})
	}
}

func TestValidateAdminKey(t *testing.T) {
	salt := "test-salt"
	validKey := AdminKey(salt)

	tests := []struct {
		name     string
		adminKey string
		salt     string
		wantErr  error
	}{
		{"valid key", validKey, salt, nil},
		{"wrong key", "wrong-key", salt, ErrInvalidAdminKey},
		{"wrong salt", validKey, "different-salt", ErrInvalidAdminKey},
		{"empty key", "", salt, ErrInvalidAdminKey},
		{"disabled", AdminKey(""), "", ErrAdminDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminKey(tt.adminKey, tt.salt)
			if err != tt.wantErr {
				t.Errorf("ValidateAdminKey() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestHashIP(t *testing.T) {
	tests := []struct {
		name string
		ip   string
		salt string
	}{
		{"IPv4", "192.168.1.1", "salt"},
		{"IPv6", "2001:db8::1", "salt"},
		{"localhost", "127.0.0.1", "different-salt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash := HashIP(tt.ip, tt.salt)

			if len(hash) != 16 {
				t.Errorf("HashIP() length = %d, want 16", len(hash))
			}
			if hash != HashIP(tt.ip, tt.salt) {
				t.Error("HashIP() is not deterministic")
			}
			if hash == HashIP(tt.ip, tt.salt+"x") {
				t.Error("HashIP() ignores the salt")
			}
			if strings.Contains(hash, tt.ip) {
				t.Error("HashIP() leaks the address")
			}
		})
	}
}
