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

// Package oidc implements the bearer-authenticated and
// client-authenticated entry points layered on top of the Token
// Service: userinfo, introspection, and revocation (§4.6).
package oidc

import (
	"strings"

	"github.com/opentrusty/oauthcore/oautherr"
)

const bearerPrefix = "Bearer "

// ExtractBearer reads the authorization header value and returns the
// token it carries. The prefix match is case-sensitive per §4.6.
func ExtractBearer(authorizationHeader string) (string, *oautherr.Error) {
	if !strings.HasPrefix(authorizationHeader, bearerPrefix) {
		err := oautherr.ErrInvalidBearerHeader
		return "", &err
	}
	value := strings.TrimPrefix(authorizationHeader, bearerPrefix)
	if value == "" {
		err := oautherr.ErrInvalidBearerHeader
		return "", &err
	}
	return value, nil
}
