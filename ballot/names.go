// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MaxNameLength bounds voter names, in runes.
const MaxNameLength = 100

// NormalizeName returns the registry key for a voter name: surrounding
// whitespace removed and the rest in Unicode NFC. Case and accents are kept,
// so "Ali" and "ali" are different voters.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
