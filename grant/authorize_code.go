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
	"github.com/opentrusty/oauthcore/crypto"
	"github.com/opentrusty/oauthcore/oautherr"
	"github.com/opentrusty/oauthcore/scope"
	"github.com/opentrusty/oauthcore/token"
)

// AuthorizeCodeParams bundles the inputs to the authorization_code
// authorize phase (§4.4.1).
type AuthorizeCodeParams struct {
	Client               *client.Client
	Sub                  string
	RedirectURI          string
	RequestedScope       []string
	State                string
	CodeChallenge        string
	CodeChallengeMethod  string
	PublicScopes         map[string]bool
	OwnerAuthorizedScope []string
}

// AuthorizeCode runs the authorization_code authorize-phase state
// machine: PKCE presence check, scope resolution, and code issuance.
func AuthorizeCode(ctx context.Context, tokens *token.Service, p AuthorizeCodeParams) (*AuthorizeResult, *oautherr.Error) {
	if p.Sub == "" {
		err := oautherr.ErrInvalidResourceOwner
		return nil, &err
	}

	challengeMethod := p.CodeChallengeMethod
	if p.Client.PKCE {
		if p.CodeChallenge == "" {
			return nil, errPtr(oautherr.ErrInvalidRequest(p.State, "Code challenge is invalid."))
		}
	}
	if p.CodeChallenge != "" && challengeMethod == "" {
		challengeMethod = "plain"
	}

	granted, err := scope.ResolveRequest(p.RequestedScope, p.PublicScopes, p.OwnerAuthorizedScope, p.Client.AuthorizeScope, p.Client.AuthorizedScopes)
	if err != nil {
		e := oautherr.ErrInvalidScope
		e.State = p.State
		return nil, &e
	}

	var challengeHash string
	if p.CodeChallenge != "" {
		challengeHash = crypto.HashSHA512Hex(p.CodeChallenge)
	}

	t, createErr := tokens.IssueCode(ctx, tokenCodeParams(p, granted, challengeHash, challengeMethod))
	if createErr != nil {
		return nil, errPtr(oautherr.ErrServerError(p.State, createErr))
	}

	return &AuthorizeResult{
		Type:                "code",
		Value:               t.Value,
		ExpiresIn:           int(t.ExpiresAt.Sub(tokens.Now()).Seconds()),
		State:               p.State,
		CodeChallenge:       p.CodeChallenge,
		CodeChallengeMethod: challengeMethod,
	}, nil
}

func tokenCodeParams(p AuthorizeCodeParams, granted []string, challengeHash, challengeMethod string) token.CodeParams {
	return token.CodeParams{
		ClientID:            p.Client.ID,
		Sub:                 p.Sub,
		RedirectURI:         p.RedirectURI,
		Scope:               scope.Join(granted),
		State:               p.State,
		CodeChallengeHash:   challengeHash,
		CodeChallengeMethod: challengeMethod,
		TTL:                 time.Duration(p.Client.AuthorizationCodeTTL) * time.Second,
	}
}

func errPtr(e oautherr.Error) *oautherr.Error { return &e }
