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

package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/opentrusty/oauthcore/client"
)

// ClientRepository implements client.AdminRepository against
// PostgreSQL.
type ClientRepository struct {
	db *DB
}

// NewClientRepository creates a new client repository.
func NewClientRepository(db *DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func marshalGrants(grants []client.GrantType) ([]byte, error) {
	names := make([]string, len(grants))
	for i, g := range grants {
		names[i] = string(g)
	}
	return json.Marshal(names)
}

func unmarshalGrants(raw []byte) ([]client.GrantType, error) {
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, err
	}
	grants := make([]client.GrantType, len(names))
	for i, n := range names {
		grants[i] = client.GrantType(n)
	}
	return grants, nil
}

// Create inserts a new OAuth2 client.
func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	redirectURIs, err := json.Marshal(c.RedirectURIs)
	if err != nil {
		return fmt.Errorf("failed to marshal redirect_uris: %w", err)
	}
	authorizedScopes, err := json.Marshal(c.AuthorizedScopes)
	if err != nil {
		return fmt.Errorf("failed to marshal authorized_scopes: %w", err)
	}
	grantTypes, err := marshalGrants(c.SupportedGrantTypes)
	if err != nil {
		return fmt.Errorf("failed to marshal supported_grant_types: %w", err)
	}

	_, err = r.db.pool.Exec(ctx, `
		INSERT INTO oauth2_clients (
			id, secret, redirect_uris, pkce, authorize_scope, authorized_scopes,
			supported_grant_types, access_token_ttl, authorization_code_ttl,
			refresh_token_ttl, id_token_ttl, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		c.ID, c.Secret, redirectURIs, c.PKCE, c.AuthorizeScope, authorizedScopes,
		grantTypes, c.AccessTokenTTL, c.AuthorizationCodeTTL,
		c.RefreshTokenTTL, c.IDTokenTTL, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// GetByID retrieves a client by its internal ID.
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*client.Client, error) {
	var c client.Client
	var redirectURIsJSON, authorizedScopesJSON, grantTypesJSON []byte

	err := r.db.pool.QueryRow(ctx, `
		SELECT id, secret, redirect_uris, pkce, authorize_scope, authorized_scopes,
			supported_grant_types, access_token_ttl, authorization_code_ttl,
			refresh_token_ttl, id_token_ttl, created_at, updated_at
		FROM oauth2_clients
		WHERE id = $1
	`, id).Scan(
		&c.ID, &c.Secret, &redirectURIsJSON, &c.PKCE, &c.AuthorizeScope, &authorizedScopesJSON,
		&grantTypesJSON, &c.AccessTokenTTL, &c.AuthorizationCodeTTL,
		&c.RefreshTokenTTL, &c.IDTokenTTL, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, client.ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	if err := json.Unmarshal(redirectURIsJSON, &c.RedirectURIs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal redirect_uris: %w", err)
	}
	if err := json.Unmarshal(authorizedScopesJSON, &c.AuthorizedScopes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal authorized_scopes: %w", err)
	}
	grants, err := unmarshalGrants(grantTypesJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal supported_grant_types: %w", err)
	}
	c.SupportedGrantTypes = grants

	return &c, nil
}

// Update updates an existing client's registration.
func (r *ClientRepository) Update(ctx context.Context, c *client.Client) error {
	redirectURIs, err := json.Marshal(c.RedirectURIs)
	if err != nil {
		return fmt.Errorf("failed to marshal redirect_uris: %w", err)
	}
	authorizedScopes, err := json.Marshal(c.AuthorizedScopes)
	if err != nil {
		return fmt.Errorf("failed to marshal authorized_scopes: %w", err)
	}
	grantTypes, err := marshalGrants(c.SupportedGrantTypes)
	if err != nil {
		return fmt.Errorf("failed to marshal supported_grant_types: %w", err)
	}

	result, err := r.db.pool.Exec(ctx, `
		UPDATE oauth2_clients SET
			secret = $2,
			redirect_uris = $3,
			pkce = $4,
			authorize_scope = $5,
			authorized_scopes = $6,
			supported_grant_types = $7,
			access_token_ttl = $8,
			authorization_code_ttl = $9,
			refresh_token_ttl = $10,
			id_token_ttl = $11,
			updated_at = NOW()
		WHERE id = $1
	`,
		c.ID, c.Secret, redirectURIs, c.PKCE, c.AuthorizeScope, authorizedScopes,
		grantTypes, c.AccessTokenTTL, c.AuthorizationCodeTTL,
		c.RefreshTokenTTL, c.IDTokenTTL,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	if result.RowsAffected() == 0 {
		return client.ErrClientNotFound
	}
	return nil
}

// Delete removes a client registration.
func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.pool.Exec(ctx, `DELETE FROM oauth2_clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if result.RowsAffected() == 0 {
		return client.ErrClientNotFound
	}
	return nil
}

// List returns every registered client.
func (r *ClientRepository) List(ctx context.Context) ([]*client.Client, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, secret, redirect_uris, pkce, authorize_scope, authorized_scopes,
			supported_grant_types, access_token_ttl, authorization_code_ttl,
			refresh_token_ttl, id_token_ttl, created_at, updated_at
		FROM oauth2_clients
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var clients []*client.Client
	for rows.Next() {
		var c client.Client
		var redirectURIsJSON, authorizedScopesJSON, grantTypesJSON []byte

		if err := rows.Scan(
			&c.ID, &c.Secret, &redirectURIsJSON, &c.PKCE, &c.AuthorizeScope, &authorizedScopesJSON,
			&grantTypesJSON, &c.AccessTokenTTL, &c.AuthorizationCodeTTL,
			&c.RefreshTokenTTL, &c.IDTokenTTL, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}

		if err := json.Unmarshal(redirectURIsJSON, &c.RedirectURIs); err != nil {
			continue
		}
		if err := json.Unmarshal(authorizedScopesJSON, &c.AuthorizedScopes); err != nil {
			continue
		}
		grants, err := unmarshalGrants(grantTypesJSON)
		if err != nil {
			continue
		}
		c.SupportedGrantTypes = grants

		clients = append(clients, &c)
	}
	return clients, nil
}
