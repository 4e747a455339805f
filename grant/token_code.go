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
	"github.com/opentrusty/oauthcore/crypto"
	"github.com/opentrusty/oauthcore/oautherr"
	"github.com/opentrusty/oauthcore/token"
)

// TokenCodeParams bundles the inputs to the authorization_code token
// phase (§4.4.2).
type TokenCodeParams struct {
	Client       *client.Client
	Code         string
	RedirectURI  string
	CodeVerifier string
}

// TokenCode runs the authorization_code token-phase state machine:
// code resolution, redirect_uri and client binding checks, PKCE
// verification, single-use consumption, and access-token issuance.
func TokenCode(ctx context.Context, tokens *token.Service, p TokenCodeParams) (*TokenResult, *oautherr.Error) {
	code, err := tokens.Repo().GetByValue(ctx, p.Code)
	if err != nil {
		e := oautherr.ErrInvalidCode
		return nil, &e
	}
	if code.Type != token.TypeCode || !code.IsActive(tokens.Now()) ||
		code.ClientID != p.Client.ID || code.RedirectURI != p.RedirectURI {
		e := oautherr.ErrInvalidCode
		return nil, &e
	}

	if code.CodeChallengeHash != "" {
		if p.CodeVerifier == "" {
			return nil, errPtr(oautherr.ErrInvalidRequest("", "PKCE request invalid."))
		}
		comparator := crypto.PKCEComparator(code.CodeChallengeMethod, p.CodeVerifier)
		if !crypto.ConstantTimeEqual(comparator, code.CodeChallengeHash) {
			return nil, errPtr(oautherr.ErrInvalidRequest("", "Code verifier is invalid."))
		}
	}

	consumed, err := tokens.RedeemCode(ctx, p.Code)
	if err != nil {
		if errors.Is(err, token.ErrAlreadyUsed) || errors.Is(err, token.ErrExpired) || errors.Is(err, token.ErrNotFound) {
			e := oautherr.ErrInvalidCode
			return nil, &e
		}
		return nil, errPtr(oautherr.ErrServerError("", err))
	}

	access, err := tokens.IssueAccessToken(ctx, token.AccessTokenParams{
		ClientID:     p.Client.ID,
		Sub:          consumed.Sub,
		Scope:        consumed.Scope,
		TTL:          time.Duration(p.Client.AccessTokenTTL) * time.Second,
		IssueRefresh: p.Client.SupportsGrant(client.GrantRefreshToken),
	})
	if err != nil {
		return nil, errPtr(oautherr.ErrServerError("", err))
	}

	return &TokenResult{
		TokenType:    "bearer",
		AccessToken:  access.Value,
		ExpiresIn:    int(access.ExpiresAt.Sub(tokens.Now()).Seconds()),
		RefreshToken: access.RefreshToken,
		Scope:        access.Scope,
	}, nil
}
