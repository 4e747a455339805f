// Copyright 2026 The OpenTrusty Authors
// SPDX-License-Identifier: Apache-2.0

package grant_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opentrusty/oauthcore/client"
	"github.com/opentrusty/oauthcore/fixture"
	"github.com/opentrusty/oauthcore/grant"
	"github.com/opentrusty/oauthcore/token"
)

func issueTestCode(t *testing.T, svc *token.Service, c *client.Client, challenge, method string) *token.Token {
	t.Helper()
	result, oerr := grant.AuthorizeCode(context.Background(), svc, grant.AuthorizeCodeParams{
		Client:              c,
		Sub:                 "sub-1",
		RedirectURI:         "https://app.example.com/cb",
		RequestedScope:      []string{"openid"},
		PublicScopes:        map[string]bool{"openid": true},
		CodeChallenge:       challenge,
		CodeChallengeMethod: method,
	})
	require.Nil(t, oerr)
	code, err := svc.Repo().GetByValue(context.Background(), result.Value)
	require.NoError(t, err)
	return code
}

func TestTokenCodeHappyPath(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	svc := token.NewService(repo, nil)
	c := testClient()

	code := issueTestCode(t, svc, c, "", "")

	result, oerr := grant.TokenCode(context.Background(), svc, grant.TokenCodeParams{
		Client:      c,
		Code:        code.Value,
		RedirectURI: "https://app.example.com/cb",
	})
	require.Nil(t, oerr)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "bearer", result.TokenType)
}

func TestTokenCodeRejectsMismatchedRedirectURI(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	svc := token.NewService(repo, nil)
	c := testClient()

	code := issueTestCode(t, svc, c, "", "")

	_, oerr := grant.TokenCode(context.Background(), svc, grant.TokenCodeParams{
		Client:      c,
		Code:        code.Value,
		RedirectURI: "https://other.example.com/cb",
	})
	require.NotNil(t, oerr)
	assert.Equal(t, "invalid_code", oerr.Code)
}

func TestTokenCodeRejectsCodeAlreadyConsumed(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	svc := token.NewService(repo, nil)
	c := testClient()

	code := issueTestCode(t, svc, c, "", "")

	_, oerr := grant.TokenCode(context.Background(), svc, grant.TokenCodeParams{
		Client:      c,
		Code:        code.Value,
		RedirectURI: "https://app.example.com/cb",
	})
	require.Nil(t, oerr)

	_, oerr = grant.TokenCode(context.Background(), svc, grant.TokenCodeParams{
		Client:      c,
		Code:        code.Value,
		RedirectURI: "https://app.example.com/cb",
	})
	require.NotNil(t, oerr)
	assert.Equal(t, "invalid_code", oerr.Code)
}

func TestTokenCodeRequiresVerifierWhenPKCEBound(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	svc := token.NewService(repo, nil)
	c := testClient()
	c.PKCE = true

	code := issueTestCode(t, svc, c, "verifier-123", "plain")

	_, oerr := grant.TokenCode(context.Background(), svc, grant.TokenCodeParams{
		Client:      c,
		Code:        code.Value,
		RedirectURI: "https://app.example.com/cb",
	})
	require.NotNil(t, oerr)
	assert.Equal(t, "invalid_request", oerr.Code)
}

func TestTokenCodeRejectsWrongVerifier(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	svc := token.NewService(repo, nil)
	c := testClient()
	c.PKCE = true

	code := issueTestCode(t, svc, c, "verifier-123", "plain")

	_, oerr := grant.TokenCode(context.Background(), svc, grant.TokenCodeParams{
		Client:       c,
		Code:         code.Value,
		RedirectURI:  "https://app.example.com/cb",
		CodeVerifier: "wrong-verifier",
	})
	require.NotNil(t, oerr)
	assert.Equal(t, "invalid_request", oerr.Code)
}

func TestTokenCodeAcceptsCorrectVerifier(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	svc := token.NewService(repo, nil)
	c := testClient()
	c.PKCE = true

	code := issueTestCode(t, svc, c, "verifier-123", "plain")

	result, oerr := grant.TokenCode(context.Background(), svc, grant.TokenCodeParams{
		Client:       c,
		Code:         code.Value,
		RedirectURI:  "https://app.example.com/cb",
		CodeVerifier: "verifier-123",
	})
	require.Nil(t, oerr)
	assert.NotEmpty(t, result.AccessToken)
}

func TestTokenCodeRejectsUnknownCode(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	svc := token.NewService(repo, nil)

	_, oerr := grant.TokenCode(context.Background(), svc, grant.TokenCodeParams{
		Client:      testClient(),
		Code:        "nonexistent",
		RedirectURI: "https://app.example.com/cb",
	})
	require.NotNil(t, oerr)
	assert.Equal(t, "invalid_code", oerr.Code)
}
