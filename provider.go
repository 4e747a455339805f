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

// Package oauthcore is the embeddable OAuth 2.0 / OpenID Connect
// authorization server core. It owns the protocol state machines; the
// host application supplies HTTP transport, the resource-owner
// identity source, and the persistence backend (§1).
package oauthcore

import (
	"context"
	"errors"
	"time"

	"github.com/opentrusty/oauthcore/audit"
	"github.com/opentrusty/oauthcore/client"
	"github.com/opentrusty/oauthcore/clientauth"
	"github.com/opentrusty/oauthcore/grant"
	"github.com/opentrusty/oauthcore/id"
	"github.com/opentrusty/oauthcore/oautherr"
	"github.com/opentrusty/oauthcore/oidc"
	"github.com/opentrusty/oauthcore/request"
	"github.com/opentrusty/oauthcore/resourceowner"
	"github.com/opentrusty/oauthcore/schema"
	"github.com/opentrusty/oauthcore/scope"
	"github.com/opentrusty/oauthcore/token"
)

// Application is the polymorphic sink the core calls back exactly
// once per entry point, tagged by terminal outcome (§6).
type Application interface {
	AuthorizeSuccess(ctx context.Context, result *grant.AuthorizeResult)
	AuthorizeError(ctx context.Context, err oautherr.Error)
	TokenSuccess(ctx context.Context, result *grant.TokenResult)
	TokenError(ctx context.Context, err oautherr.Error)
	IntrospectSuccess(ctx context.Context, proj oidc.Projection)
	IntrospectError(ctx context.Context, err oautherr.Error)
	UserinfoFetched(ctx context.Context, claims map[string]any)
	Unauthorized(ctx context.Context, err oautherr.Error)
	RevokeSuccess(ctx context.Context)
	RevokeError(ctx context.Context, err oautherr.Error)
}

// Provider wires the pluggable collaborators (§6) into the grant
// engines and is the single entry point a host embeds.
type Provider struct {
	Clients client.Repository
	Scopes  scope.Repository
	Owners  resourceowner.ResourceOwners
	Tokens  *token.Service
	Audit   audit.Logger

	auth *clientauth.Authenticator
}

// New constructs a Provider from its pluggable collaborators. now
// overrides the Token Service's clock; pass nil to use time.Now.
func New(clients client.Repository, tokens token.Repository, scopes scope.Repository, owners resourceowner.ResourceOwners, auditLogger audit.Logger, now func() time.Time) *Provider {
	return &Provider{
		Clients: clients,
		Scopes:  scopes,
		Owners:  owners,
		Tokens:  token.NewService(tokens, now),
		Audit:   auditLogger,
		auth:    clientauth.NewAuthenticator(clients),
	}
}

func (p *Provider) publicScopes(ctx context.Context) (map[string]bool, error) {
	all, err := p.Scopes.List(ctx)
	if err != nil {
		return nil, err
	}
	public := make(map[string]bool, len(all))
	for _, s := range all {
		if s.Public {
			public[s.Name] = true
		}
	}
	return public, nil
}

func (p *Provider) logAudit(ctx context.Context, eventType, clientID, sub, resource, targetID string) {
	if p.Audit == nil {
		return
	}
	p.Audit.Log(ctx, audit.Event{
		ID:       id.NewUUIDv7(),
		Type:     eventType,
		ClientID: clientID,
		Sub:      sub,
		Resource: resource,
		TargetID: targetID,
	})
}

// Authorize runs the /authorize surface for both the authorization_code
// and implicit response types (§4.4.1, §4.4.6).
func (p *Provider) Authorize(ctx context.Context, env *request.Envelope, app Application) {
	kind, raw := request.Classify("authorize", env)
	ar := raw.(request.AuthorizeRequest)

	if err := schema.ValidateAuthorize(&ar); err != nil {
		app.AuthorizeError(ctx, oautherr.ErrInvalidRequest(ar.State, err.Error()))
		return
	}

	c, err := p.Clients.GetByID(ctx, ar.ClientID)
	if err != nil || !c.HasRedirectURI(ar.RedirectURI) {
		e := oautherr.ErrInvalidClientOrRedirect
		e.State = ar.State
		app.AuthorizeError(ctx, e)
		return
	}

	public, err := p.publicScopes(ctx)
	if err != nil {
		app.AuthorizeError(ctx, oautherr.ErrServerError(ar.State, err))
		return
	}

	var ownerScopes []string
	if env.Sub != "" {
		ownerScopes, err = p.Owners.AuthorizedScopes(ctx, env.Sub, scope.Split(ar.Scope))
		if err != nil {
			app.AuthorizeError(ctx, oautherr.ErrServerError(ar.State, err))
			return
		}
	}

	switch kind {
	case request.KindAuthorizeCode:
		if gateErr := grant.CheckSupport(c, client.GrantAuthorizationCode); gateErr != nil {
			gateErr.State = ar.State
			app.AuthorizeError(ctx, *gateErr)
			return
		}
		result, gErr := grant.AuthorizeCode(ctx, p.Tokens, grant.AuthorizeCodeParams{
			Client:               c,
			Sub:                  env.Sub,
			RedirectURI:          ar.RedirectURI,
			RequestedScope:       scope.Split(ar.Scope),
			State:                ar.State,
			CodeChallenge:        ar.CodeChallenge,
			CodeChallengeMethod:  ar.CodeChallengeMethod,
			PublicScopes:         public,
			OwnerAuthorizedScope: ownerScopes,
		})
		if gErr != nil {
			app.AuthorizeError(ctx, *gErr)
			return
		}
		p.logAudit(ctx, audit.TypeCodeIssued, c.ID, env.Sub, audit.ResourceCode, result.Value)
		app.AuthorizeSuccess(ctx, result)
	case request.KindAuthorizeImplicit:
		if gateErr := grant.CheckSupport(c, client.GrantImplicit); gateErr != nil {
			gateErr.State = ar.State
			app.AuthorizeError(ctx, *gateErr)
			return
		}
		result, gErr := grant.Implicit(ctx, p.Tokens, grant.ImplicitParams{
			Client:               c,
			Sub:                  env.Sub,
			RequestedScope:       scope.Split(ar.Scope),
			State:                ar.State,
			PublicScopes:         public,
			OwnerAuthorizedScope: ownerScopes,
		})
		if gErr != nil {
			app.AuthorizeError(ctx, *gErr)
			return
		}
		p.logAudit(ctx, audit.TypeTokenIssued, c.ID, env.Sub, audit.ResourceAccessToken, result.Value)
		app.AuthorizeSuccess(ctx, result)
	default:
		app.AuthorizeError(ctx, oautherr.ErrUnsupportedResponseType(ar.State))
	}
}

// Token runs the /token surface for every grant_type (§4.4.2-§4.4.5).
func (p *Provider) Token(ctx context.Context, env *request.Envelope, app Application) {
	kind, raw := request.Classify("token", env)
	tr := raw.(request.TokenRequest)

	if err := schema.ValidateToken(&tr); err != nil {
		app.TokenError(ctx, oautherr.ErrInvalidRequest("", err.Error()))
		return
	}

	c, err := p.auth.Authenticate(ctx, tr.ClientID, tr.ClientSecret)
	if err != nil {
		if errors.Is(err, client.ErrClientNotFound) {
			app.TokenError(ctx, oautherr.ErrClientIDNotFound)
		} else {
			app.TokenError(ctx, oautherr.ErrUnauthorizedClient)
		}
		return
	}

	public, err := p.publicScopes(ctx)
	if err != nil {
		app.TokenError(ctx, oautherr.ErrServerError("", err))
		return
	}

	switch kind {
	case request.KindTokenCode:
		if gateErr := grant.CheckSupport(c, client.GrantAuthorizationCode); gateErr != nil {
			app.TokenError(ctx, *gateErr)
			return
		}
		result, gErr := grant.TokenCode(ctx, p.Tokens, grant.TokenCodeParams{
			Client:       c,
			Code:         tr.Code,
			RedirectURI:  tr.RedirectURI,
			CodeVerifier: tr.CodeVerifier,
		})
		if gErr != nil {
			p.logAudit(ctx, audit.TypeCodeRejected, c.ID, "", audit.ResourceCode, tr.Code)
			app.TokenError(ctx, *gErr)
			return
		}
		p.logAudit(ctx, audit.TypeCodeExchanged, c.ID, "", audit.ResourceCode, tr.Code)
		app.TokenSuccess(ctx, result)
	case request.KindTokenClientCreds:
		if gateErr := grant.CheckSupport(c, client.GrantClientCredentials); gateErr != nil {
			app.TokenError(ctx, *gateErr)
			return
		}
		result, gErr := grant.ClientCredentials(ctx, p.Tokens, grant.ClientCredentialsParams{
			Client:         c,
			RequestedScope: scope.Split(tr.Scope),
			PublicScopes:   public,
		})
		if gErr != nil {
			app.TokenError(ctx, *gErr)
			return
		}
		p.logAudit(ctx, audit.TypeTokenIssued, c.ID, "", audit.ResourceAccessToken, result.AccessToken)
		app.TokenSuccess(ctx, result)
	case request.KindTokenPassword:
		if gateErr := grant.CheckSupport(c, client.GrantPassword); gateErr != nil {
			app.TokenError(ctx, *gateErr)
			return
		}
		result, gErr := grant.Password(ctx, p.Tokens, grant.PasswordParams{
			Client:         c,
			Username:       tr.Username,
			Password:       tr.Password,
			RequestedScope: scope.Split(tr.Scope),
			PublicScopes:   public,
			Owners:         p.Owners,
		})
		if gErr != nil {
			p.logAudit(ctx, audit.TypeLoginFailed, c.ID, tr.Username, audit.ResourceAccessToken, "")
			app.TokenError(ctx, *gErr)
			return
		}
		p.logAudit(ctx, audit.TypeTokenIssued, c.ID, "", audit.ResourceAccessToken, result.AccessToken)
		app.TokenSuccess(ctx, result)
	case request.KindTokenRefresh:
		if gateErr := grant.CheckSupport(c, client.GrantRefreshToken); gateErr != nil {
			app.TokenError(ctx, *gateErr)
			return
		}
		result, gErr := grant.Refresh(ctx, p.Tokens, grant.RefreshParams{
			Client:         c,
			RefreshToken:   tr.RefreshToken,
			RequestedScope: scope.Split(tr.Scope),
		})
		if gErr != nil {
			app.TokenError(ctx, *gErr)
			return
		}
		p.logAudit(ctx, audit.TypeTokenRefreshed, c.ID, "", audit.ResourceAccessToken, result.AccessToken)
		app.TokenSuccess(ctx, result)
	default:
		app.TokenError(ctx, oautherr.ErrUnsupportedGrantType)
	}
}

// Introspect runs the client-authenticated introspection entry point
// (§4.6, RFC 7662).
func (p *Provider) Introspect(ctx context.Context, env *request.Envelope, app Application) {
	_, raw := request.Classify("introspect", env)
	ir := raw.(request.IntrospectRequest)

	if err := schema.ValidateIntrospect(&ir); err != nil {
		app.IntrospectError(ctx, oautherr.ErrInvalidRequest("", err.Error()))
		return
	}

	if _, err := p.auth.Authenticate(ctx, ir.ClientID, ir.ClientSecret); err != nil {
		app.IntrospectError(ctx, oautherr.ErrInvalidRequest("", "client authentication failed."))
		return
	}

	proj := oidc.Introspect(ctx, p.Tokens, p.Owners, ir.Token)
	p.logAudit(ctx, audit.TypeTokenIntrospected, ir.ClientID, proj.Sub, audit.ResourceAccessToken, ir.Token)
	app.IntrospectSuccess(ctx, proj)
}

// Revoke runs the client-authenticated revocation entry point (§4.6,
// RFC 7009).
func (p *Provider) Revoke(ctx context.Context, env *request.Envelope, app Application) {
	_, raw := request.Classify("revoke", env)
	rr := raw.(request.RevokeRequest)

	if err := schema.ValidateRevoke(&rr); err != nil {
		app.RevokeError(ctx, oautherr.ErrInvalidRequest("", err.Error()))
		return
	}

	c, err := p.auth.Authenticate(ctx, rr.ClientID, rr.ClientSecret)
	if err != nil {
		app.RevokeError(ctx, oautherr.ErrUnauthorizedClient)
		return
	}

	if gErr := oidc.Revoke(ctx, p.Tokens.Repo(), c.ID, rr.Token, rr.TokenTypeHint); gErr != nil {
		app.RevokeError(ctx, *gErr)
		return
	}
	p.logAudit(ctx, audit.TypeTokenRevoked, c.ID, "", audit.ResourceAccessToken, rr.Token)
	app.RevokeSuccess(ctx)
}

// Userinfo runs the bearer-authenticated OIDC userinfo entry point
// (§4.6).
func (p *Provider) Userinfo(ctx context.Context, env *request.Envelope, app Application) {
	bearer, err := oidc.ExtractBearer(env.AuthorizationHeader)
	if err != nil {
		app.Unauthorized(ctx, *err)
		return
	}

	claims, err := oidc.Userinfo(ctx, p.Tokens, p.Owners, bearer)
	if err != nil {
		app.Unauthorized(ctx, *err)
		return
	}
	sub, _ := claims["sub"].(string)
	p.logAudit(ctx, audit.TypeUserinfoFetched, "", sub, audit.ResourceAccessToken, bearer)
	app.UserinfoFetched(ctx, claims)
}
