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

package token

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/opentrusty/oauthcore/id"
)

// Service mints and consumes Token rows on behalf of the grant engines.
//
// Purpose: Centralizes token value generation and TTL bookkeeping so
// every grant engine issues codes and access tokens the same way.
// Domain: OAuth2
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a Service backed by repo. now defaults to
// time.Now when nil, overridable in tests for deterministic clocks.
func NewService(repo Repository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, now: now}
}

// Repo returns the underlying Repository, for read-only lookups that
// precede a mutating Service call (e.g. validating a code before
// consuming it).
func (s *Service) Repo() Repository { return s.repo }

// Now returns the Service's clock, so collaborators that check token
// activity (introspection, userinfo, code lookup) observe the same
// notion of "now" that minted the token's expires_at, rather than
// calling time.Now directly and drifting from it under a fake clock.
func (s *Service) Now() time.Time { return s.now() }

// opaqueValue returns a URL-safe random string suitable for a code or
// token value.
func opaqueValue() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// CodeParams bundles the inputs needed to mint an authorization code.
type CodeParams struct {
	ClientID            string
	Sub                 string
	RedirectURI         string
	Scope               string
	State               string
	CodeChallengeHash   string
	CodeChallengeMethod string
	TTL                 time.Duration
}

// IssueCode mints a single-use TypeCode token per §4.4.1.
func (s *Service) IssueCode(ctx context.Context, p CodeParams) (*Token, error) {
	value, err := opaqueValue()
	if err != nil {
		return nil, err
	}
	now := s.now()
	t := &Token{
		ID:                  id.NewUUIDv7(),
		Type:                TypeCode,
		Value:               value,
		ClientID:            p.ClientID,
		Sub:                 p.Sub,
		RedirectURI:         p.RedirectURI,
		Scope:               p.Scope,
		State:               p.State,
		CodeChallengeHash:   p.CodeChallengeHash,
		CodeChallengeMethod: p.CodeChallengeMethod,
		IssuedAt:            now,
		ExpiresAt:           now.Add(p.TTL),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// AccessTokenParams bundles the inputs needed to mint an access token.
//
// The data model (§3) carries a single expires_at per Token row: a
// refresh token shares its access token's expiry rather than tracking
// one of its own, so there is no separate refresh TTL to apply here.
type AccessTokenParams struct {
	ClientID     string
	Sub          string
	Scope        string
	TTL          time.Duration
	IssueRefresh bool
}

// IssueAccessToken mints a TypeAccessToken token, optionally paired
// with a refresh token, per §4.5.
func (s *Service) IssueAccessToken(ctx context.Context, p AccessTokenParams) (*Token, error) {
	value, err := opaqueValue()
	if err != nil {
		return nil, err
	}
	var refresh string
	if p.IssueRefresh {
		refresh, err = opaqueValue()
		if err != nil {
			return nil, err
		}
	}
	now := s.now()
	t := &Token{
		ID:            id.NewUUIDv7(),
		Type:          TypeAccessToken,
		Value:         value,
		RefreshToken:  refresh,
		ClientID:      p.ClientID,
		Sub:           p.Sub,
		Scope:         p.Scope,
		IssuedAt:      now,
		ExpiresAt:     now.Add(p.TTL),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// RedeemCode atomically consumes code, resolving the single-use
// semantics left open by the design this core generalizes from: a
// code is revoked at the moment it is exchanged, not merely checked
// (§9). It returns ErrAlreadyUsed, ErrExpired, or ErrNotFound when the
// code cannot be redeemed.
func (s *Service) RedeemCode(ctx context.Context, value string) (*Token, error) {
	t, err := s.repo.Consume(ctx, value)
	if err != nil {
		return nil, err
	}
	if t.IsExpired(s.now()) {
		return nil, ErrExpired
	}
	return t, nil
}
