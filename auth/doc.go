// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the operator key and privacy helpers.

# Admin Key

The admin key is an HMAC-SHA256 of a fixed scope under ADMIN_KEY_SALT:

	key := auth.AdminKey(salt)
	err := auth.ValidateAdminKey(presented, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
operators can print it with `dzvotes admin-key` and nothing is stored.
ValidateAdminKey returns ErrAdminDisabled when the salt is empty.

# IP Hashing

Voter addresses are only ever logged hashed:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
