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

// AuthorizeResult is the success projection of the /authorize surface,
// rendered onto a query string (authorization_code) or a fragment
// (implicit), per §4.4.1 and §4.4.6.
type AuthorizeResult struct {
	Type                string // "code" or "token"
	Value               string
	ExpiresIn           int
	State               string
	CodeChallenge       string
	CodeChallengeMethod string
}

// TokenResult is the success projection of the /token surface (§4.4.2
// - §4.4.5).
type TokenResult struct {
	TokenType    string // always "bearer"
	AccessToken  string
	ExpiresIn    int
	RefreshToken string
	Scope        string
}
