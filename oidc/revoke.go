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

	"github.com/opentrusty/oauthcore/oautherr"
	"github.com/opentrusty/oauthcore/token"
)

// Revoke looks up value as an access token, falling back to
// refresh_token, per tokenTypeHint as a lookup-order hint only (RFC
// 7009 §2.1 — the hint never changes outcome, only lookup order).
// Responds success whether or not the token existed; only a
// client-ownership mismatch fails.
func Revoke(ctx context.Context, tokens token.Repository, clientID, value, tokenTypeHint string) *oautherr.Error {
	lookups := []func(context.Context, string) (*token.Token, error){tokens.GetByValue, tokens.GetByRefreshToken}
	if tokenTypeHint == "refresh_token" {
		lookups[0], lookups[1] = lookups[1], lookups[0]
	}

	var t *token.Token
	for _, lookup := range lookups {
		if found, err := lookup(ctx, value); err == nil {
			t = found
			break
		}
	}
	if t == nil {
		return nil
	}
	if t.ClientID != clientID {
		// Mismatched client -> invalid_client (§4.6).
		e := oautherr.ErrClientIDNotFound
		return &e
	}
	if err := tokens.Revoke(ctx, t.Value); err != nil {
		e := oautherr.ErrServerError("", err)
		return &e
	}
	return nil
}
