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

// Package oautherr implements the error envelope shared by every core
// entry point, in accordance with:
// https://tools.ietf.org/html/rfc6749#section-4.1.2.1
// https://tools.ietf.org/html/rfc6749#section-4.2.2.1
// https://tools.ietf.org/html/rfc6749#section-5.2
package oautherr

import (
	"log/slog"
	"net/url"
)

// Error is the wire representation of an OAuth2 protocol error,
// carried either as a query string (authorization code flow), a
// fragment (implicit flow), or a JSON body (token/introspect/revoke).
type Error struct {
	Code        string
	Description string
	State       string
	URI         string
}

func (e Error) Error() string {
	return e.Code
}

// Errors returned to the resource owner's user agent, not the client.
var (
	ErrRedirectURIMismatch = Error{
		Code:        "access_denied",
		Description: "redirect_uri does not match the URI registered for this client.",
	}

	ErrRedirectURIInvalid = Error{
		Code:        "access_denied",
		Description: "redirect_uri is malformed or does not use an absolute URI.",
	}
)

// Errors returned to the client application in accordance with spec.
// error is drawn from a closed set (§6) that does not include RFC
// 6749's unauthorized_client; every client-resolution/authentication
// failure below reports invalid_client instead.
var (
	ErrClientIDMissing = Error{
		Code:        "invalid_client",
		Description: "client_id was not provided.",
	}

	// ErrClientIDNotFound is reported when a client_id does not resolve
	// to a registered client, including a client-ownership mismatch on
	// revocation (§4.6: "Mismatched client → invalid_client").
	ErrClientIDNotFound = Error{
		Code:        "invalid_client",
		Description: "client requesting access was not found.",
	}

	// ErrInvalidClientOrRedirect is reported when client_id does not
	// resolve or the presented redirect_uri is not registered for the
	// client, per §4.2. The description text is part of the external
	// contract and must be preserved verbatim.
	ErrInvalidClientOrRedirect = Error{
		Code:        "invalid_client",
		Description: "Invalid client_id or redirect_uri.",
	}

	// ErrUnauthorizedClient is reported on the token/revoke surfaces
	// when client secret verification fails (§7 precedence item 4:
	// "secret-verification failure is invalid_client").
	ErrUnauthorizedClient = Error{
		Code:        "invalid_client",
		Description: "client authentication failed.",
	}

	ErrUnsupportedGrantType = Error{
		Code:        "unsupported_grant_type",
		Description: "grant_type is not supported by this authorization server.",
	}

	ErrInvalidGrant = Error{
		Code:        "invalid_grant",
		Description: "the provided authorization grant or refresh token is invalid, expired, revoked, does not match the redirection URI used in the authorization request, or was issued to another client.",
	}

	// ErrInvalidCode is reported when a code is missing, already
	// consumed, expired, or bound to a different client/redirect_uri.
	ErrInvalidCode = Error{
		Code:        "invalid_code",
		Description: "Provided authorization code is incorrect.",
	}

	// ErrInvalidResourceOwner is reported on the authorize surface when
	// no resource owner is present.
	ErrInvalidResourceOwner = Error{
		Code:        "invalid_resource_owner",
		Description: "No resource owner could be resolved for this request.",
	}

	ErrUnauthorizedUser = Error{
		Code:        "access_denied",
		Description: "resource owner credentials are invalid.",
	}

	ErrInvalidScope = Error{
		Code:        "invalid_scope",
		Description: "Given scopes are unknown or unauthorized.",
	}

	// ErrUnsupportedGrantTypeGate is reported by the grant-support gate
	// of §4.4.7.
	ErrUnsupportedGrantTypeGate = Error{
		Code:        "unsupported_grant_type",
		Description: "Client do not support given grant type.",
	}

	ErrUnsupportedTokenType = Error{
		Code:        "unsupported_token_type",
		Description: "token_type_hint is not supported by this authorization server.",
	}

	ErrAccessTokenRequired = Error{
		Code:        "invalid_request",
		Description: "an access token is required to access this resource.",
	}

	ErrInvalidToken = Error{
		Code:        "invalid_token",
		Description: "access token is expired, revoked, malformed, or invalid.",
	}

	// ErrInvalidAccessToken is reported by userinfo when the bearer
	// value does not resolve to any known token.
	ErrInvalidAccessToken = Error{
		Code:        "invalid_access_token",
		Description: "Provided access token is invalid.",
	}

	// ErrInvalidBearerHeader is reported when the authorization header
	// is missing or does not match "Bearer <token>".
	ErrInvalidBearerHeader = Error{
		Code:        "invalid_bearer",
		Description: "Invalid bearer from Authorization header.",
	}

	ErrInsufficientScope = Error{
		Code:        "insufficient_scope",
		Description: "the request requires higher privileges than provided by the access token.",
	}

	// ErrLoginRequiredErr signals the authorize surface that no
	// resource owner session exists and the host must prompt a login.
	ErrLoginRequiredErr = Error{
		Code:        "login_required",
		Description: "Resource owner authentication is required.",
	}
)

// EncodeInQuery writes err onto u's query string, as used by the
// authorization_code response type on redirect.
func EncodeInQuery(u *url.URL, err Error) {
	q := u.Query()
	q.Set("error", err.Code)
	if err.Description != "" {
		q.Set("error_description", err.Description)
	}
	if err.State != "" {
		q.Set("state", err.State)
	}
	if err.URI != "" {
		q.Set("error_uri", err.URI)
	}
	u.RawQuery = q.Encode()
}

// EncodeInFragment writes err onto u's fragment, as used by the
// implicit response type on redirect (§4.4.6).
func EncodeInFragment(u *url.URL, err Error) {
	frag := url.Values{}
	frag.Set("error", err.Code)
	if err.Description != "" {
		frag.Set("error_description", err.Description)
	}
	if err.State != "" {
		frag.Set("state", err.State)
	}
	if err.URI != "" {
		frag.Set("error_uri", err.URI)
	}
	u.Fragment = frag.Encode()
}

// Invalid request errors parameterized by the offending detail.
func ErrUnsupportedResponseType(state string) Error {
	return Error{
		Code:        "unsupported_response_type",
		Description: "this authorization server does not support this response_type.",
		State:       state,
	}
}

func ErrStateRequired(state string) Error {
	return Error{
		Code:        "invalid_request",
		Description: "state parameter is required by this authorization server.",
		State:       state,
	}
}

func ErrInvalidRequest(state, description string) Error {
	return Error{
		Code:        "invalid_request",
		Description: description,
		State:       state,
	}
}

// ErrServerError logs the underlying cause and returns the opaque
// server_error the client is allowed to see.
func ErrServerError(state string, cause error) Error {
	slog.Error("internal server error", "error", cause)
	return Error{
		Code:        "server_error",
		Description: "the authorization server encountered an unexpected condition that prevented it from fulfilling the request.",
		State:       state,
	}
}
