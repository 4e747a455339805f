// Copyright 2026 The OpenTrusty Authors
// SPDX-License-Identifier: Apache-2.0

package grant_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opentrusty/oauthcore/client"
	"github.com/opentrusty/oauthcore/crypto"
	"github.com/opentrusty/oauthcore/fixture"
	"github.com/opentrusty/oauthcore/grant"
	"github.com/opentrusty/oauthcore/token"
)

func testClient() *client.Client {
	return &client.Client{
		ID:                   "client-1",
		RedirectURIs:         []string{"https://app.example.com/cb"},
		SupportedGrantTypes:  []client.GrantType{client.GrantAuthorizationCode, client.GrantRefreshToken},
		AuthorizationCodeTTL: 60,
		AccessTokenTTL:       3600,
		RefreshTokenTTL:      86400,
	}
}

func TestAuthorizeCodeIssuesCode(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	svc := token.NewService(repo, nil)

	result, oerr := grant.AuthorizeCode(context.Background(), svc, grant.AuthorizeCodeParams{
		Client:         testClient(),
		Sub:            "sub-1",
		RedirectURI:    "https://app.example.com/cb",
		RequestedScope: []string{"openid"},
		State:          "xyz",
		PublicScopes:   map[string]bool{"openid": true},
	})
	require.Nil(t, oerr)
	assert.Equal(t, "code", result.Type)
	assert.NotEmpty(t, result.Value)
	assert.Equal(t, "xyz", result.State)
}

func TestAuthorizeCodeRequiresResourceOwner(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	svc := token.NewService(repo, nil)

	_, oerr := grant.AuthorizeCode(context.Background(), svc, grant.AuthorizeCodeParams{
		Client: testClient(),
		State:  "xyz",
	})
	require.NotNil(t, oerr)
	assert.Equal(t, "invalid_resource_owner", oerr.Code)
}

func TestAuthorizeCodeRequiresPKCEChallenge(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	svc := token.NewService(repo, nil)

	c := testClient()
	c.PKCE = true

	_, oerr := grant.AuthorizeCode(context.Background(), svc, grant.AuthorizeCodeParams{
		Client:      c,
		Sub:         "sub-1",
		RedirectURI: "https://app.example.com/cb",
		State:       "xyz",
	})
	require.NotNil(t, oerr)
	assert.Equal(t, "invalid_request", oerr.Code)
}

func TestAuthorizeCodePKCEDefaultsMethodToPlain(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	svc := token.NewService(repo, nil)

	c := testClient()
	c.PKCE = true

	result, oerr := grant.AuthorizeCode(context.Background(), svc, grant.AuthorizeCodeParams{
		Client:        c,
		Sub:           "sub-1",
		RedirectURI:   "https://app.example.com/cb",
		State:         "xyz",
		CodeChallenge: "challenge-value",
	})
	require.Nil(t, oerr)
	assert.Equal(t, "plain", result.CodeChallengeMethod)
}

func TestAuthorizeCodeRejectsUnauthorizedScope(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	svc := token.NewService(repo, nil)

	_, oerr := grant.AuthorizeCode(context.Background(), svc, grant.AuthorizeCodeParams{
		Client:         testClient(),
		Sub:            "sub-1",
		RedirectURI:    "https://app.example.com/cb",
		RequestedScope: []string{"admin"},
		State:          "xyz",
		PublicScopes:   map[string]bool{"openid": true},
	})
	require.NotNil(t, oerr)
	assert.Equal(t, "invalid_scope", oerr.Code)
}

func TestAuthorizeCodeStoresPKCEChallengeHash(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	svc := token.NewService(repo, nil)

	c := testClient()
	c.PKCE = true

	result, oerr := grant.AuthorizeCode(context.Background(), svc, grant.AuthorizeCodeParams{
		Client:              c,
		Sub:                 "sub-1",
		RedirectURI:         "https://app.example.com/cb",
		State:               "xyz",
		CodeChallenge:       "verifier-123",
		CodeChallengeMethod: "S256",
	})
	require.Nil(t, oerr)

	stored, err := svc.Repo().GetByValue(context.Background(), result.Value)
	require.NoError(t, err)
	assert.Equal(t, crypto.HashSHA512Hex("verifier-123"), stored.CodeChallengeHash)
}

func TestAuthorizeCodeExpiresInMatchesClientTTL(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := token.NewService(repo, func() time.Time { return now })

	result, oerr := grant.AuthorizeCode(context.Background(), svc, grant.AuthorizeCodeParams{
		Client:       testClient(),
		Sub:          "sub-1",
		RedirectURI:  "https://app.example.com/cb",
		PublicScopes: map[string]bool{},
	})
	require.Nil(t, oerr)
	assert.Equal(t, 60, result.ExpiresIn)
}
