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

func TestIntrospectActiveAccessToken(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	svc := token.NewService(repo, nil)
	owners := fixture.NewResourceOwners()
	ctx := context.Background()
	require.NoError(t, owners.AddOwner("sub-1", "alice", "secret", []string{"openid"}, nil))
	require.NoError(t, repo.Create(ctx, &token.Token{
		Type:      token.TypeAccessToken,
		Value:     "tok-1",
		ClientID:  "client-1",
		Sub:       "sub-1",
		Scope:     "openid",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	proj := oidc.Introspect(ctx, svc, owners, "tok-1")
	assert.True(t, proj.Active)
	assert.Equal(t, "client-1", proj.ClientID)
	assert.Equal(t, "sub-1", proj.Sub)
	assert.Equal(t, "alice", proj.Username)
	assert.Equal(t, "boruta", proj.Iss)
}

func TestIntrospectFallsBackToRefreshToken(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	svc := token.NewService(repo, nil)
	owners := fixture.NewResourceOwners()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &token.Token{
		Type:         token.TypeAccessToken,
		Value:        "tok-1",
		RefreshToken: "refresh-1",
		ClientID:     "client-1",
		IssuedAt:     time.Now(),
		ExpiresAt:    time.Now().Add(time.Hour),
	}))

	proj := oidc.Introspect(ctx, svc, owners, "refresh-1")
	assert.True(t, proj.Active)
}

func TestIntrospectInactiveWhenNotFound(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	svc := token.NewService(repo, nil)
	owners := fixture.NewResourceOwners()
	proj := oidc.Introspect(context.Background(), svc, owners, "nonexistent")
	assert.False(t, proj.Active)
	assert.Empty(t, proj.ClientID)
}

func TestIntrospectInactiveWhenExpired(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	svc := token.NewService(repo, nil)
	owners := fixture.NewResourceOwners()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &token.Token{
		Type:      token.TypeAccessToken,
		Value:     "tok-1",
		ClientID:  "client-1",
		IssuedAt:  time.Now().Add(-time.Hour),
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	proj := oidc.Introspect(ctx, svc, owners, "tok-1")
	assert.False(t, proj.Active)
}

func TestIntrospectInactiveWhenRevoked(t *testing.T) {
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
	require.NoError(t, repo.Revoke(ctx, "tok-1"))

	proj := oidc.Introspect(ctx, svc, owners, "tok-1")
	assert.False(t, proj.Active)
}
