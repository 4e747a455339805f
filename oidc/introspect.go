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

package oidc

import (
	"context"

	"github.com/opentrusty/oauthcore/resourceowner"
	"github.com/opentrusty/oauthcore/token"
)

// Projection is the RFC 7662 introspection response. Iss is always
// the literal "boruta", preserved from the source this core
// generalizes from.
type Projection struct {
	Active   bool   `json:"active"`
	ClientID string `json:"client_id,omitempty"`
	Username string `json:"username,omitempty"`
	Scope    string `json:"scope,omitempty"`
	Sub      string `json:"sub,omitempty"`
	Iat      int64  `json:"iat,omitempty"`
	Exp      int64  `json:"exp,omitempty"`
	Iss      string `json:"iss,omitempty"`
}

// Introspect looks up value first as an access token, then by
// refresh_token, and returns the active/inactive projection (§4.6,
// RFC 7662). The caller is responsible for client authentication
// before calling Introspect.
func Introspect(ctx context.Context, tokens *token.Service, owners resourceowner.ResourceOwners, value string) Projection {
	t, err := tokens.Repo().GetByValue(ctx, value)
	if err != nil {
		t, err = tokens.Repo().GetByRefreshToken(ctx, value)
	}
	if err != nil || !t.IsActive(tokens.Now()) {
		return Projection{Active: false}
	}
	proj := Projection{
		Active:   true,
		ClientID: t.ClientID,
		Scope:    t.Scope,
		Sub:      t.Sub,
		Iat:      t.IssuedAt.Unix(),
		Exp:      t.ExpiresAt.Unix(),
		Iss:      "boruta",
	}
	if t.Sub != "" {
		if username, err := owners.Username(ctx, t.Sub); err == nil {
			proj.Username = username
		}
	}
	return proj
}
