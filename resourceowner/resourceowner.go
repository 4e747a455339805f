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

// Package resourceowner declares the pluggable collaborator the host
// application implements to authenticate end users and surface their
// OIDC claims, without the core ever touching a credential store
// directly (§6).
package resourceowner

import (
	"context"
	"errors"
)

// ErrInvalidCredentials is returned by ResourceOwners.Authenticate
// when the supplied credentials do not resolve to a subject.
var ErrInvalidCredentials = errors.New("invalid resource owner credentials")

// ErrNotFound is returned when a subject identifier does not resolve
// to a known resource owner.
var ErrNotFound = errors.New("resource owner not found")

// ResourceOwners is the collaborator interface the host application
// implements to bridge the core to its own user store.
//
// Purpose: Delegates credential verification and claim resolution to
// the host, per the non-goal that the core never owns a password
// store directly (§1, §6).
// Domain: OAuth2 / OIDC
type ResourceOwners interface {
	// Authenticate verifies username/password (the resource owner
	// password grant, §4.4.4) and returns the subject identifier.
	Authenticate(ctx context.Context, username, password string) (sub string, err error)
	// AuthorizedScopes returns the scopes sub has actually consented
	// to or is entitled to, intersected against the requested scopes
	// by the Scope Resolver (§4.3).
	AuthorizedScopes(ctx context.Context, sub string, requested []string) ([]string, error)
	// Claims returns the OIDC claims for sub filtered to the scopes
	// granted to the presented token, for the userinfo endpoint and
	// ID token minting (§4.6.3).
	Claims(ctx context.Context, sub string, scopes []string) (map[string]any, error)
	// Username returns the resource owner's human-readable identifier
	// (§3 data model), for the introspection projection's username
	// field (RFC 7662). Returns ErrNotFound when sub is unknown.
	Username(ctx context.Context, sub string) (string, error)
}
