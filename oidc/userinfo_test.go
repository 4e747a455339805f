// Copyright 2026 The OpenTrusty Authors
// SPDX-License-Identifier: Apache-2.0

package oidc_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opentrusty/oauthcore/fixture"
	"github.com/opentrusty/oauthcore/oidc"
	"github.com/opentrusty/oauthcore/token"
)

func TestUserinfoHappyPath(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	svc := token.NewService(repo, nil)
	owners := fixture.NewResourceOwners()
	ctx := context.Background()

	require.NoError(t, owners.AddOwner("sub-1", "alice", "secret", []string{"openid", "profile"}, map[string]any{
		"name": "Alice",
	}))
	require.NoError(t, repo.Create(ctx, &token.Token{
		Type:      token.TypeAccessToken,
		Value:     "tok-1",
		ClientID:  "client-1",
		Sub:       "sub-1",
		Scope:     "openid profile",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	claims, oerr := oidc.Userinfo(ctx, svc, owners, "tok-1")
	require.Nil(t, oerr)
	assert.Equal(t, "sub-1", claims["sub"])
	assert.Equal(t, "Alice", claims["name"])
}

func TestUserinfoRejectsUnknownToken(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	svc := token.NewService(repo, nil)
	owners := fixture.NewResourceOwners()

	_, oerr := oidc.Userinfo(context.Background(), svc, owners, "nonexistent")
	require.NotNil(t, oerr)
	assert.Equal(t, "invalid_access_token", oerr.Code)
}

func TestUserinfoRejectsCodeTypeToken(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	svc := token.NewService(repo, nil)
	owners := fixture.NewResourceOwners()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &token.Token{
		Type:      token.TypeCode,
		Value:     "code-1",
		ClientID:  "client-1",
		Sub:       "sub-1",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Minute),
	}))

	_, oerr := oidc.Userinfo(ctx, svc, owners, "code-1")
	require.NotNil(t, oerr)
	assert.Equal(t, "invalid_access_token", oerr.Code)
}

func TestUserinfoRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	svc := token.NewService(repo, nil)
	owners := fixture.NewResourceOwners()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &token.Token{
		Type:      token.TypeAccessToken,
		Value:     "tok-1",
		ClientID:  "client-1",
		Sub:       "sub-1",
		IssuedAt:  time.Now().Add(-time.Hour),
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	_, oerr := oidc.Userinfo(ctx, svc, owners, "tok-1")
	require.NotNil(t, oerr)
	assert.Equal(t, "invalid_access_token", oerr.Code)
}

func TestUserinfoRejectsMissingSub(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	svc := token.NewService(repo, nil)
	owners := fixture.NewResourceOwners()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &token.Token{
		Type:      token.TypeAccessToken,
		Value:     "tok-1",
		ClientID:  "client-1",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	_, oerr := oidc.Userinfo(ctx, svc, owners, "tok-1")
	require.NotNil(t, oerr)
	assert.Equal(t, "invalid_bearer", oerr.Code)
}
