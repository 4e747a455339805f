// Copyright 2026 The OpenTrusty Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package crypto

import (
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
)

// HashSHA512Hex hashes a string with SHA-512 and returns its 128-character
// hex encoding.
//
// Purpose: Storage representation for the PKCE code_challenge.
// Domain: OAuth2
// Invariants: Output is always 128 hex characters.
// Audited: No
// Errors: None
func HashSHA512Hex(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}

// PKCEComparator derives the value that must match the stored
// code_challenge_hash for a given code_verifier and challenge method.
//
// Purpose: Implements the non-standard double-hashing scheme described in
// the core's design notes: both "plain" and "S256" challenges are stored
// as a SHA-512 hex digest, and verification recomputes the same digest
// from the supplied code_verifier before comparing.
// Domain: OAuth2
// Invariants: method must be "plain" or "S256"; any other value yields
// the empty string, which never matches a stored hash.
func PKCEComparator(method, verifier string) string {
	switch method {
	case "plain":
		return HashSHA512Hex(verifier)
	case "S256":
		sum := sha256.Sum256([]byte(verifier))
		return HashSHA512Hex(base64.RawURLEncoding.EncodeToString(sum[:]))
	default:
		return ""
	}
}

// ConstantTimeEqual compares two strings in constant time.
//
// Purpose: Prevents timing side-channels when comparing secrets or
// PKCE digests.
// Domain: OAuth2
// Audited: No
// Errors: None
func ConstantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
