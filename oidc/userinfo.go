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
	"github.com/opentrusty/oauthcore/resourceowner"
	"github.com/opentrusty/oauthcore/scope"
	"github.com/opentrusty/oauthcore/token"
)

// Userinfo resolves the bearer-carrying access token and assembles
// the claims projection per §4.6. The sub claim always wins over
// whatever the ResourceOwners callback returns under that key.
func Userinfo(ctx context.Context, tokens *token.Service, owners resourceowner.ResourceOwners, bearer string) (map[string]any, *oautherr.Error) {
	t, err := tokens.Repo().GetByValue(ctx, bearer)
	if err != nil || t.Type != token.TypeAccessToken {
		e := oautherr.ErrInvalidAccessToken
		return nil, &e
	}
	if !t.IsActive(tokens.Now()) {
		e := oautherr.ErrInvalidAccessToken
		return nil, &e
	}
	if t.Sub == "" {
		e := oautherr.ErrInvalidBearerHeader
		return nil, &e
	}

	claims, err := owners.Claims(ctx, t.Sub, scope.Split(t.Scope))
	if err != nil {
		e := oautherr.ErrInvalidBearerHeader
		return nil, &e
	}

	result := make(map[string]any, len(claims)+1)
	for k, v := range claims {
		result[k] = v
	}
	result["sub"] = t.Sub
	return result, nil
}
