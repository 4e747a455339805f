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
	"time"

	"github.com/opentrusty/oauthcore/client"
	"github.com/opentrusty/oauthcore/oautherr"
	"github.com/opentrusty/oauthcore/scope"
	"github.com/opentrusty/oauthcore/token"
)

// RefreshParams bundles the inputs to the refresh_token grant
// (§4.4.5).
type RefreshParams struct {
	Client         *client.Client
	RefreshToken   string
	RequestedScope []string // optional narrowing; empty means unchanged
}

// Refresh runs the refresh_token state machine: prior-token
// resolution and ownership check, optional scope narrowing (never
// widening), rotation of both token values, and revocation of the
// prior token. Replaying an already-rotated refresh token revokes the
// whole token family (§4.4.5 replay detection) and fails invalid_grant.
func Refresh(ctx context.Context, tokens *token.Service, p RefreshParams) (*TokenResult, *oautherr.Error) {
	prior, err := tokens.Repo().GetByRefreshToken(ctx, p.RefreshToken)
	if err != nil {
		e := oautherr.ErrInvalidGrant
		return nil, &e
	}
	if prior.ClientID != p.Client.ID {
		e := oautherr.ErrInvalidGrant
		return nil, &e
	}
	if prior.IsRevoked() {
		_ = tokens.Repo().RevokeFamily(ctx, p.RefreshToken)
		e := oautherr.ErrInvalidGrant
		return nil, &e
	}

	granted := scope.Split(prior.Scope)
	if len(p.RequestedScope) > 0 {
		if !scope.Subset(scope.Join(p.RequestedScope), prior.Scope) {
			e := oautherr.ErrInvalidScope
			return nil, &e
		}
		granted = p.RequestedScope
	}

	if revokeErr := tokens.Repo().Revoke(ctx, prior.Value); revokeErr != nil {
		return nil, errPtr(oautherr.ErrServerError("", revokeErr))
	}

	access, createErr := tokens.IssueAccessToken(ctx, token.AccessTokenParams{
		ClientID:     p.Client.ID,
		Sub:          prior.Sub,
		Scope:        scope.Join(granted),
		TTL:          time.Duration(p.Client.AccessTokenTTL) * time.Second,
		IssueRefresh: true,
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
