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

// Package clientauth authenticates the OAuth2 client application
// presenting a request, per §4.2: HTTP Basic or body credentials, and
// exact-match redirect_uri validation.
package clientauth

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/opentrusty/oauthcore/client"
)

// ErrClientAuthFailed is returned when the presented credentials do
// not match the registered client secret.
var ErrClientAuthFailed = errors.New("client authentication failed")

// ErrRedirectURIMismatch is returned when the presented redirect_uri
// is not registered for the client.
var ErrRedirectURIMismatch = errors.New("redirect_uri does not match a registered URI")

// Authenticator authenticates clients against a client.Repository.
//
// Purpose: Single place implementing credential comparison and
// redirect_uri exact-matching, shared by every entry point that needs
// client authentication (§4.2).
// Domain: OAuth2
type Authenticator struct {
	repo client.Repository
}

// NewAuthenticator constructs an Authenticator backed by repo.
func NewAuthenticator(repo client.Repository) *Authenticator {
	return &Authenticator{repo: repo}
}

// Authenticate resolves clientID and, when the client has a registered
// secret, verifies secret against it in constant time; an empty or
// wrong secret then fails with ErrClientAuthFailed. Public clients (no
// registered secret, e.g. native apps using PKCE) pass without a
// secret check.
func (a *Authenticator) Authenticate(ctx context.Context, clientID, secret string) (*client.Client, error) {
	c, err := a.repo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if c.Secret == "" {
		return c, nil
	}
	if subtle.ConstantTimeCompare([]byte(c.Secret), []byte(secret)) != 1 {
		return nil, ErrClientAuthFailed
	}
	return c, nil
}

// ValidateRedirectURI confirms redirectURI is registered for c by
// exact string match — no wildcard or prefix matching (§4.2).
func ValidateRedirectURI(c *client.Client, redirectURI string) error {
	if !c.HasRedirectURI(redirectURI) {
		return ErrRedirectURIMismatch
	}
	return nil
}
