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

package grant

import (
	"context"
	"errors"
	"time"

	"github.com/opentrusty/oauthcore/client"
	"github.com/opentrusty/oauthcore/oautherr"
	"github.com/opentrusty/oauthcore/resourceowner"
	"github.com/opentrusty/oauthcore/scope"
	"github.com/opentrusty/oauthcore/token"
)

// PasswordParams bundles the inputs to the resource-owner password
// grant (§4.4.4).
type PasswordParams struct {
	Client         *client.Client
	Username       string
	Password       string
	RequestedScope []string
	PublicScopes   map[string]bool
	Owners         resourceowner.ResourceOwners
}

// Password runs the resource-owner password grant state machine:
// credential verification via the external ResourceOwners callback,
// scope resolution against the owner's authorized scopes, and access
// token issuance, with a refresh token only when the client supports
// the refresh_token grant.
func Password(ctx context.Context, tokens *token.Service, p PasswordParams) (*TokenResult, *oautherr.Error) {
	sub, err := p.Owners.Authenticate(ctx, p.Username, p.Password)
	if err != nil {
		if errors.Is(err, resourceowner.ErrInvalidCredentials) {
			e := oautherr.ErrInvalidGrant
			return nil, &e
		}
		return nil, errPtr(oautherr.ErrServerError("", err))
	}

	ownerScopes, err := p.Owners.AuthorizedScopes(ctx, sub, p.RequestedScope)
	if err != nil {
		return nil, errPtr(oautherr.ErrServerError("", err))
	}

	granted, err := scope.ResolveRequest(p.RequestedScope, p.PublicScopes, ownerScopes, p.Client.AuthorizeScope, p.Client.AuthorizedScopes)
	if err != nil {
		e := oautherr.ErrInvalidScope
		return nil, &e
	}

	access, createErr := tokens.IssueAccessToken(ctx, token.AccessTokenParams{
		ClientID:     p.Client.ID,
		Sub:          sub,
		Scope:        scope.Join(granted),
		TTL:          time.Duration(p.Client.AccessTokenTTL) * time.Second,
		IssueRefresh: p.Client.SupportsGrant(client.GrantRefreshToken),
	})
	if createErr != nil {
		return nil, errPtr(oautherr.ErrServerError("", createErr))
	}

	return &TokenResult{
		TokenType:    "bearer",
		AccessToken:  access.Value,
		ExpiresIn:    int(access.ExpiresAt.Sub(tokens.Now()).Seconds()),
		RefreshToken: access.RefreshToken,
		Scope:        access.Scope,
	}, nil
}
