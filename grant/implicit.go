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

// ImplicitParams bundles the inputs to the implicit grant (§4.4.6).
type ImplicitParams struct {
	Client               *client.Client
	Sub                  string
	RequestedScope       []string
	State                string
	PublicScopes         map[string]bool
	OwnerAuthorizedScope []string
}

// Implicit runs the implicit grant state machine: resource owner
// presence, scope resolution, and access token issuance with no
// refresh token, rendered onto a fragment by the caller.
func Implicit(ctx context.Context, tokens *token.Service, p ImplicitParams) (*AuthorizeResult, *oautherr.Error) {
	if p.Sub == "" {
		err := oautherr.ErrInvalidResourceOwner
		return nil, &err
	}

	granted, err := scope.ResolveRequest(p.RequestedScope, p.PublicScopes, p.OwnerAuthorizedScope, p.Client.AuthorizeScope, p.Client.AuthorizedScopes)
	if err != nil {
		e := oautherr.ErrInvalidScope
		e.State = p.State
		return nil, &e
	}

	access, createErr := tokens.IssueAccessToken(ctx, token.AccessTokenParams{
		ClientID:     p.Client.ID,
		Sub:          p.Sub,
		Scope:        scope.Join(granted),
		TTL:          time.Duration(p.Client.AccessTokenTTL) * time.Second,
		IssueRefresh: false,
	})
	if createErr != nil {
		return nil, errPtr(oautherr.ErrServerError(p.State, createErr))
	}

	return &AuthorizeResult{
		Type:      "token",
		Value:     access.Value,
		ExpiresIn: int(access.ExpiresAt.Sub(tokens.Now()).Seconds()),
		State:     p.State,
	}, nil
}
