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

// Package schema validates the shape of incoming requests before a
// grant engine ever sees them, producing the exact error descriptions
// the contract requires (§4.1, §7).
package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/opentrusty/oauthcore/request"
)

// uuidPatternSrc is the literal regex source quoted back in
// ValidationError descriptions; it must match uuidPattern exactly.
const uuidPatternSrc = `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`

var uuidPattern = regexp.MustCompile("^" + uuidPatternSrc + "$")

// ValidationError accumulates every pattern violation and missing
// property found on a single request, formatted as the
// JSON-schema-pointer-style description the external contract
// requires: "#/client_id do match required pattern /…/. Required
// properties code, redirect_uri are missing at #." (§4.1). Callers
// see only the assembled error.Error() text; the struct is not
// otherwise exported.
type ValidationError struct {
	patternViolations []string
	missingProperties []string
}

func (e *ValidationError) Error() string {
	var sentences []string
	for _, v := range e.patternViolations {
		sentences = append(sentences, v+".")
	}
	if len(e.missingProperties) > 0 {
		sentences = append(sentences, fmt.Sprintf(
			"Required properties %s are missing at #.",
			strings.Join(e.missingProperties, ", "),
		))
	}
	return strings.Join(sentences, " ")
}

func (e *ValidationError) missing(field string) {
	e.missingProperties = append(e.missingProperties, field)
}

func (e *ValidationError) pattern(field, patternSrc string) {
	e.patternViolations = append(e.patternViolations,
		fmt.Sprintf("#/%s do match required pattern /%s/", field, patternSrc))
}

func (e *ValidationError) asError() error {
	if len(e.patternViolations) == 0 && len(e.missingProperties) == 0 {
		return nil
	}
	return e
}

// checkClientID validates presence and the UUID pattern constraint
// the spec mandates for client_id (§4.1).
func checkClientID(e *ValidationError, clientID string) {
	if clientID == "" {
		e.missing("client_id")
		return
	}
	if !uuidPattern.MatchString(clientID) {
		e.pattern("client_id", uuidPatternSrc)
	}
}

var validResponseTypes = map[string]bool{"code": true, "token": true}
var validGrantTypes = map[string]bool{
	"authorization_code": true,
	"client_credentials": true,
	"password":           true,
	"refresh_token":       true,
}
var validChallengeMethods = map[string]bool{"plain": true, "S256": true}

// ValidateAuthorize checks the structural well-formedness of an
// authorization request.
func ValidateAuthorize(r *request.AuthorizeRequest) error {
	e := &ValidationError{}

	if r.ResponseType == "" {
		e.missing("response_type")
	} else if !validResponseTypes[r.ResponseType] {
		e.pattern("response_type", "code|token")
	}

	checkClientID(e, r.ClientID)

	if r.RedirectURI == "" {
		e.missing("redirect_uri")
	}
	if r.CodeChallenge != "" && r.CodeChallengeMethod != "" && !validChallengeMethods[r.CodeChallengeMethod] {
		e.pattern("code_challenge_method", "plain|S256")
	}

	return e.asError()
}

// ValidateToken checks the structural well-formedness of a token
// request for the given grant_type.
func ValidateToken(r *request.TokenRequest) error {
	e := &ValidationError{}

	if r.GrantType == "" {
		e.missing("grant_type")
	} else if !validGrantTypes[r.GrantType] {
		e.pattern("grant_type", "authorization_code|client_credentials|password|refresh_token")
	}

	switch r.GrantType {
	case "authorization_code":
		if r.Code == "" {
			e.missing("code")
		}
		if r.RedirectURI == "" {
			e.missing("redirect_uri")
		}
	case "password":
		if r.Username == "" {
			e.missing("username")
		}
		if r.Password == "" {
			e.missing("password")
		}
	case "refresh_token":
		if r.RefreshToken == "" {
			e.missing("refresh_token")
		}
	}

	checkClientID(e, r.ClientID)

	return e.asError()
}

// ValidateIntrospect checks the structural well-formedness of an
// introspection request.
func ValidateIntrospect(r *request.IntrospectRequest) error {
	e := &ValidationError{}
	if r.Token == "" {
		e.missing("token")
	}
	return e.asError()
}

// ValidateRevoke checks the structural well-formedness of a
// revocation request.
func ValidateRevoke(r *request.RevokeRequest) error {
	e := &ValidationError{}
	if r.Token == "" {
		e.missing("token")
	}
	return e.asError()
}
