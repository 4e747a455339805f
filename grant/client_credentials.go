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

// ClientCredentialsParams bundles the inputs to the client_credentials
// grant (§4.4.3).
type ClientCredentialsParams struct {
	Client         *client.Client
	RequestedScope []string
	PublicScopes   map[string]bool
}

// ClientCredentials runs the client_credentials state machine: no
// resource owner, scope resolved against the client alone, access
// token issued with a null sub and no refresh token.
func ClientCredentials(ctx context.Context, tokens *token.Service, p ClientCredentialsParams) (*TokenResult, *oautherr.Error) {
	granted, err := scope.ResolveRequest(p.RequestedScope, p.PublicScopes, nil, p.Client.AuthorizeScope, p.Client.AuthorizedScopes)
	if err != nil {
		e := oautherr.ErrInvalidScope
		return nil, &e
	}

	access, createErr := tokens.IssueAccessToken(ctx, token.AccessTokenParams{
		ClientID:     p.Client.ID,
		Sub:          "",
		Scope:        scope.Join(granted),
		TTL:          time.Duration(p.Client.AccessTokenTTL) * time.Second,
		IssueRefresh: false,
	})
	if createErr != nil {
		return nil, errPtr(oautherr.ErrServerError("", createErr))
	}

	return &TokenResult{
		TokenType:   "bearer",
		AccessToken: access.Value,
		ExpiresIn:   int(access.ExpiresAt.Sub(tokens.Now()).Seconds()),
		Scope:       access.Scope,
	}, nil
}
