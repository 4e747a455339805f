// Copyright 2026 The OpenTrusty Authors
// SPDX-License-Identifier: MIT

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/opentrusty/oauthcore/client"
)

func TestClientRepository(t *testing.T) {
	db, cleanup := SetupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewClientRepository(db)

	c := &client.Client{
		ID:                   "00000000-0000-0000-0000-000000000301",
		Secret:               "s3cret",
		RedirectURIs:         []string{"https://app.example.com/cb"},
		PKCE:                 true,
		AuthorizeScope:       true,
		AuthorizedScopes:     []string{"openid", "profile"},
		SupportedGrantTypes:  []client.GrantType{client.GrantAuthorizationCode, client.GrantRefreshToken},
		AccessTokenTTL:       3600,
		AuthorizationCodeTTL: 60,
		RefreshTokenTTL:      86400,
		IDTokenTTL:           3600,
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}

	t.Run("Create and GetByID", func(t *testing.T) {
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("failed to create client: %v", err)
		}

		got, err := repo.GetByID(ctx, c.ID)
		if err != nil {
			t.Fatalf("failed to get client: %v", err)
		}
		if got.Secret != c.Secret {
			t.Errorf("expected secret %s, got %s", c.Secret, got.Secret)
		}
		if len(got.RedirectURIs) != 1 || got.RedirectURIs[0] != c.RedirectURIs[0] {
			t.Errorf("expected redirect_uris %v, got %v", c.RedirectURIs, got.RedirectURIs)
		}
		if len(got.SupportedGrantTypes) != 2 {
			t.Errorf("expected 2 supported_grant_types, got %v", got.SupportedGrantTypes)
		}
	})

	t.Run("GetByID unknown", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000999")
		if err != client.ErrClientNotFound {
			t.Errorf("expected ErrClientNotFound, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		c.AccessTokenTTL = 7200
		if err := repo.Update(ctx, c); err != nil {
			t.Fatalf("failed to update client: %v", err)
		}

		got, err := repo.GetByID(ctx, c.ID)
		if err != nil {
			t.Fatalf("failed to get client: %v", err)
		}
		if got.AccessTokenTTL != 7200 {
			t.Errorf("expected access_token_ttl 7200, got %d", got.AccessTokenTTL)
		}
	})

	t.Run("List", func(t *testing.T) {
		clients, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list clients: %v", err)
		}
		if len(clients) == 0 {
			t.Errorf("expected at least one client")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := repo.Delete(ctx, c.ID); err != nil {
			t.Fatalf("failed to delete client: %v", err)
		}

		_, err := repo.GetByID(ctx, c.ID)
		if err != client.ErrClientNotFound {
			t.Errorf("expected ErrClientNotFound after delete, got %v", err)
		}
	})
}
