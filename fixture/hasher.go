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

// Package fixture provides in-memory implementations of the core's
// pluggable collaborators (client.Repository, token.Repository,
// scope.Repository, resourceowner.ResourceOwners), for tests and for
// hosts embedding the core. The core itself never stores
// a credential (§1 Non-goals); Hasher belongs here, not in the core.
package fixture

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Hasher hashes resource-owner passwords using Argon2id.
//
// Purpose: Credential storage for the in-memory ResourceOwners
// fixture.
// Domain: Identity
// Invariants: Memory, Iterations, and Parallelism must be tuned for
// security; defaults favor interactive-login latency.
type Hasher struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// NewHasher creates a Hasher with the OWASP-recommended Argon2id
// baseline (19 MiB, 2 iterations, 1 degree of parallelism).
func NewHasher() *Hasher {
	return &Hasher{
		Memory:      19 * 1024,
		Iterations:  2,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Hash hashes password using Argon2id with a random salt.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, h.Iterations, h.Memory, h.Parallelism, h.KeyLength)

	return fmt.Sprintf(
		"=%d=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.Memory,
		h.Iterations,
		h.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// Verify checks password against an encoded hash produced by Hash.
func (h *Hasher) Verify(password, encodedHash string) (bool, error) {
	var version int
	var memory, iterations uint32
	var parallelism uint8

	parts := strings.Split(encodedHash, "$")
	if len(parts) != 3 {
		return false, fmt.Errorf("invalid hash format: expected 3 $-separated fields, got %d", len(parts))
	}
	_, err := fmt.Sscanf(parts[0], "=%d=%d,t=%d,p=%d",
		&version, &memory, &iterations, &parallelism)
	if err != nil {
		return false, fmt.Errorf("invalid hash format: %w", err)
	}
	saltB64, hashB64 := parts[1], parts[2]

	salt, err := base64.RawStdEncoding.DecodeString(saltB64)
	if err != nil {
		return false, fmt.Errorf("failed to decode salt: %w", err)
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(hashB64)
	if err != nil {
		return false, fmt.Errorf("failed to decode hash: %w", err)
	}

	actualHash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expectedHash)))

	if len(actualHash) != len(expectedHash) {
		return false, nil
	}
	var diff byte
	for i := range actualHash {
		diff |= actualHash[i] ^ expectedHash[i]
	}
	return diff == 0, nil
}
