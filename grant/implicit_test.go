// Copyright 2026 The OpenTrusty Authors
// SPDX-License-Identifier: Apache-2.0

package grant_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opentrusty/oauthcore/fixture"
	"github.com/opentrusty/oauthcore/grant"
	"github.com/opentrusty/oauthcore/token"
)

func TestImplicitHappyPath(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	svc := token.NewService(repo, nil)

	result, oerr := grant.Implicit(context.Background(), svc, grant.ImplicitParams{
		Client:         testClient(),
		Sub:            "sub-1",
		RequestedScope: []string{"openid"},
		State:          "abc",
		PublicScopes:   map[string]bool{"openid": true},
	})
	require.Nil(t, oerr)
	assert.Equal(t, "token", result.Type)
	assert.NotEmpty(t, result.Value)
	assert.Equal(t, "abc", result.State)

	stored, err := repo.GetByValue(context.Background(), result.Value)
	require.NoError(t, err)
	assert.Empty(t, stored.RefreshToken)
}

func TestImplicitRequiresResourceOwner(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	svc := token.NewService(repo, nil)

	_, oerr := grant.Implicit(context.Background(), svc, grant.ImplicitParams{
		Client: testClient(),
		State:  "abc",
	})
	require.NotNil(t, oerr)
	assert.Equal(t, "invalid_resource_owner", oerr.Code)
}

func TestImplicitRejectsUnauthorizedScope(t *testing.T) {
	t.Parallel()

	repo := fixture.NewTokenRepository()
	svc := token.NewService(repo, nil)

	_, oerr := grant.Implicit(context.Background(), svc, grant.ImplicitParams{
		Client:         testClient(),
		Sub:            "sub-1",
		RequestedScope: []string{"admin"},
		State:          "abc",
		PublicScopes:   map[string]bool{"openid": true},
	})
	require.NotNil(t, oerr)
	assert.Equal(t, "invalid_scope", oerr.Code)
	assert.Equal(t, "abc", oerr.State)
}
