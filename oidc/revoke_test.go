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

func TestRevokeAccessTokenSucceeds(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &token.Token{
		Type:      token.TypeAccessToken,
		Value:     "tok-1",
		ClientID:  "client-1",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	oerr := oidc.Revoke(ctx, repo, "client-1", "tok-1", "")
	assert.Nil(t, oerr)

	stored, err := repo.GetByValue(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, stored.IsRevoked())
}

func TestRevokeRejectsClientMismatch(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &token.Token{
		Type:      token.TypeAccessToken,
		Value:     "tok-1",
		ClientID:  "client-1",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	oerr := oidc.Revoke(ctx, repo, "client-2", "tok-1", "")
	require.NotNil(t, oerr)
	assert.Equal(t, "invalid_client", oerr.Code)
}

func TestRevokeUnknownTokenIsNoopSuccess(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	oerr := oidc.Revoke(context.Background(), repo, "client-1", "nonexistent", "")
	assert.Nil(t, oerr)
}

func TestRevokeHonorsTokenTypeHintOrder(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &token.Token{
		Type:         token.TypeAccessToken,
		Value:        "tok-1",
		RefreshToken: "refresh-1",
		ClientID:     "client-1",
		IssuedAt:     time.Now(),
		ExpiresAt:    time.Now().Add(time.Hour),
	}))

	oerr := oidc.Revoke(ctx, repo, "client-1", "refresh-1", "refresh_token")
	assert.Nil(t, oerr)

	stored, err := repo.GetByValue(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, stored.IsRevoked())
}
