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

// Package grant implements the per-grant-type state machines for the
// /authorize and /token surfaces (§4.4).
package grant

import (
	"github.com/opentrusty/oauthcore/client"
	"github.com/opentrusty/oauthcore/oautherr"
)

// CheckSupport implements the grant-support gate of §4.4.7: it runs
// after client and redirect_uri resolution but before token creation.
func CheckSupport(c *client.Client, g client.GrantType) *oautherr.Error {
	if !c.SupportsGrant(g) {
		err := oautherr.ErrUnsupportedGrantTypeGate
		return &err
	}
	return nil
}
