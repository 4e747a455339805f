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

// Package request models the transport-agnostic envelope the core
// accepts at every entry point, and classifies it into one of the
// typed per-grant requests dispatched by the root Provider (§4.1).
package request

import "net/url"

// Envelope is the transport-agnostic request the host adapts an HTTP
// request (or any other transport) into before calling the core.
//
// Purpose: Decouples grant engines from net/http so the core has no
// transport dependency, per §4.1.
// Domain: OAuth2
type Envelope struct {
	Method       string
	Form         url.Values
	BasicUser    string
	BasicPass    string
	HasBasicAuth bool
	// AuthorizationHeader is the raw "authorization" header value,
	// consumed by the bearer extraction step of §4.6 (userinfo).
	AuthorizationHeader string
	// Sub is the resource owner subject identifier established by the
	// host's own session mechanism before the /authorize or implicit
	// entry points are called. An empty Sub means no resource owner is
	// currently logged in (§4.4.1, §4.4.6). The core never manages
	// sessions itself (§1 Non-goals).
	Sub string
}

// Get returns the first form value for key, or "" if absent.
func (e *Envelope) Get(key string) string {
	if e.Form == nil {
		return ""
	}
	return e.Form.Get(key)
}

// Kind enumerates the grant/operation a classified Envelope resolves
// to.
type Kind string

const (
	KindAuthorizeCode        Kind = "authorize_code"
	KindAuthorizeImplicit    Kind = "authorize_implicit"
	KindTokenCode            Kind = "token_code"
	KindTokenClientCreds     Kind = "token_client_credentials"
	KindTokenPassword        Kind = "token_password"
	KindTokenRefresh         Kind = "token_refresh"
	KindIntrospect           Kind = "introspect"
	KindRevoke               Kind = "revoke"
	KindUserinfo             Kind = "userinfo"
	KindUnknown              Kind = ""
)

// AuthorizeRequest is the typed request for the /authorize entry
// point, covering both the authorization_code and implicit response
// types (§4.4.1, §4.4.6).
type AuthorizeRequest struct {
	ResponseType        string
	ClientID            string
	RedirectURI         string
	Scope               string
	State               string
	CodeChallenge       string
	CodeChallengeMethod string
}

// TokenRequest is the typed request for the /token entry point,
// covering every grant_type (§4.4).
type TokenRequest struct {
	GrantType    string
	Code         string
	RedirectURI  string
	ClientID     string
	ClientSecret string
	HasBasicAuth bool
	Username     string
	Password     string
	Scope        string
	RefreshToken string
	CodeVerifier string
}

// IntrospectRequest is the typed request for the introspection
// entry point (§4.6.4, RFC 7662).
type IntrospectRequest struct {
	Token         string
	TokenTypeHint string
	ClientID      string
	ClientSecret  string
	HasBasicAuth  bool
}

// RevokeRequest is the typed request for the revocation entry point
// (§4.6.4, RFC 7009).
type RevokeRequest struct {
	Token         string
	TokenTypeHint string
	ClientID      string
	ClientSecret  string
	HasBasicAuth  bool
}

// Classify inspects an Envelope and returns its Kind together with the
// typed request it decodes to. The caller type-switches on the
// returned value.
//
// Purpose: Implements the Request Classifier of §4.1 — a single
// dispatch point that turns a transport-agnostic Envelope into one of
// the typed per-grant requests the Provider understands.
// Domain: OAuth2
func Classify(path string, e *Envelope) (Kind, any) {
	switch path {
	case "authorize":
		rt := e.Get("response_type")
		ar := AuthorizeRequest{
			ResponseType:        rt,
			ClientID:            e.Get("client_id"),
			RedirectURI:         e.Get("redirect_uri"),
			Scope:               e.Get("scope"),
			State:               e.Get("state"),
			CodeChallenge:       e.Get("code_challenge"),
			CodeChallengeMethod: e.Get("code_challenge_method"),
		}
		if rt == "token" {
			return KindAuthorizeImplicit, ar
		}
		return KindAuthorizeCode, ar
	case "token":
		tr := TokenRequest{
			GrantType:    e.Get("grant_type"),
			Code:         e.Get("code"),
			RedirectURI:  e.Get("redirect_uri"),
			ClientID:     e.BasicUser,
			ClientSecret: e.BasicPass,
			HasBasicAuth: e.HasBasicAuth,
			Username:     e.Get("username"),
			Password:     e.Get("password"),
			Scope:        e.Get("scope"),
			RefreshToken: e.Get("refresh_token"),
			CodeVerifier: e.Get("code_verifier"),
		}
		if !tr.HasBasicAuth {
			tr.ClientID = e.Get("client_id")
			tr.ClientSecret = e.Get("client_secret")
		}
		switch tr.GrantType {
		case "authorization_code":
			return KindTokenCode, tr
		case "client_credentials":
			return KindTokenClientCreds, tr
		case "password":
			return KindTokenPassword, tr
		case "refresh_token":
			return KindTokenRefresh, tr
		}
		return KindUnknown, tr
	case "introspect":
		ir := IntrospectRequest{
			Token:         e.Get("token"),
			TokenTypeHint: e.Get("token_type_hint"),
			ClientID:      e.BasicUser,
			ClientSecret:  e.BasicPass,
			HasBasicAuth:  e.HasBasicAuth,
		}
		if !ir.HasBasicAuth {
			ir.ClientID = e.Get("client_id")
			ir.ClientSecret = e.Get("client_secret")
		}
		return KindIntrospect, ir
	case "revoke":
		rr := RevokeRequest{
			Token:         e.Get("token"),
			TokenTypeHint: e.Get("token_type_hint"),
			ClientID:      e.BasicUser,
			ClientSecret:  e.BasicPass,
			HasBasicAuth:  e.HasBasicAuth,
		}
		if !rr.HasBasicAuth {
			rr.ClientID = e.Get("client_id")
			rr.ClientSecret = e.Get("client_secret")
		}
		return KindRevoke, rr
	case "userinfo":
		return KindUserinfo, e.AuthorizationHeader
	}
	return KindUnknown, nil
}
