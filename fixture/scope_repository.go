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

package fixture

import (
	"context"

	"github.com/opentrusty/oauthcore/scope"
)

// ScopeRepository is an in-memory scope.Repository seeded at
// construction time; scopes are immutable for the fixture's lifetime.
type ScopeRepository struct {
	scopes []scope.Scope
}

// NewScopeRepository constructs a ScopeRepository seeded with the
// OIDC standard scopes as public, plus any extra scopes passed in.
func NewScopeRepository(extra ...scope.Scope) *ScopeRepository {
	scopes := []scope.Scope{
		{Name: scope.OpenID, Label: "OpenID Connect", Public: true},
		{Name: scope.Profile, Label: "Profile", Public: true},
		{Name: scope.Email, Label: "Email address", Public: true},
	}
	return &ScopeRepository{scopes: append(scopes, extra...)}
}

func (r *ScopeRepository) List(ctx context.Context) ([]scope.Scope, error) {
	out := make([]scope.Scope, len(r.scopes))
	copy(out, r.scopes)
	return out, nil
}
