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

// Package token models the single polymorphic Token entity backing
// both authorization codes and access tokens, and defines the
// Repository that stores it.
package token

import (
	"context"
	"errors"
	"time"
)

// Domain errors.
var (
	ErrNotFound     = errors.New("token not found")
	ErrExpired      = errors.New("token expired")
	ErrRevoked      = errors.New("token revoked")
	ErrAlreadyUsed  = errors.New("token already used")
	ErrInvalidPKCE  = errors.New("pkce verification failed")
)

// Type discriminates the two shapes a Token row may take.
type Type string

const (
	// TypeCode is a single-use authorization code minted by the
	// authorize_code grant and consumed by the token_code grant.
	TypeCode Type = "code"
	// TypeAccessToken is a bearer credential, optionally paired with
	// a refresh token.
	TypeAccessToken Type = "access_token"
)

// Token is the single entity backing authorization codes and access
// tokens, discriminated by Type (§3).
//
// Purpose: Unified persistence row for every credential the core
// issues, so a single Repository and a single compare-and-swap
// revocation path cover both authorization codes and access tokens.
// Domain: OAuth2
// Invariants: Value is unique. RefreshToken is set only on
// TypeAccessToken rows whose client supports the refresh_token grant.
// CodeChallengeHash/CodeChallengeMethod are set only on TypeCode rows
// minted for a PKCE-bound authorization request.
type Token struct {
	ID                  string
	Type                Type
	Value               string
	RefreshToken        string
	ClientID            string
	Sub                 string
	RedirectURI         string
	Scope               string
	State               string
	CodeChallengeHash   string
	CodeChallengeMethod string
	IssuedAt            time.Time
	ExpiresAt           time.Time
	RevokedAt           *time.Time
}

// IsExpired reports whether the token's lifetime has elapsed as of now.
func (t *Token) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// IsRevoked reports whether the token has been explicitly revoked or
// consumed.
func (t *Token) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsActive reports whether the token may still be presented as a
// bearer credential: neither expired nor revoked.
func (t *Token) IsActive(now time.Time) bool {
	return !t.IsExpired(now) && !t.IsRevoked()
}

// Repository defines persistence for Token rows.
//
// Purpose: Abstraction used by every grant engine to create, look up,
// and atomically consume tokens and codes.
// Domain: OAuth2
// Invariants: Consume is compare-and-swap: it succeeds only when the
// row is not already revoked, resolving single-use semantics for
// TypeCode rows (§9). Revoke is idempotent.
type Repository interface {
	Create(ctx context.Context, t *Token) error
	GetByValue(ctx context.Context, value string) (*Token, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*Token, error)
	// Consume atomically marks an active, unrevoked token as revoked
	// and returns it. It returns ErrAlreadyUsed if the row was already
	// revoked, and ErrNotFound if no row matches value.
	Consume(ctx context.Context, value string) (*Token, error)
	// Revoke marks the token identified by value as revoked,
	// idempotently; revoking an already-revoked or absent token is not
	// an error (§4.6.4).
	Revoke(ctx context.Context, value string) error
	// RevokeFamily revokes every access token and refresh token minted
	// under the same grant lineage as value, used when a refresh token
	// is replayed after rotation (§4.4.5). value may be either a
	// token's own value or its refresh token.
	RevokeFamily(ctx context.Context, value string) error
}
