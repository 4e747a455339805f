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
	"fmt"

	"github.com/opentrusty/oauthcore/scope"
)

// ScopeRepository implements scope.Repository against PostgreSQL.
type ScopeRepository struct {
	db *DB
}

// NewScopeRepository creates a new scope repository.
func NewScopeRepository(db *DB) *ScopeRepository {
	return &ScopeRepository{db: db}
}

// List returns every registered scope.
func (r *ScopeRepository) List(ctx context.Context) ([]scope.Scope, error) {
	rows, err := r.db.pool.Query(ctx, `SELECT name, label, public FROM oauth_scopes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query scopes: %w", err)
	}
	defer rows.Close()

	var scopes []scope.Scope
	for rows.Next() {
		var s scope.Scope
		if err := rows.Scan(&s.Name, &s.Label, &s.Public); err != nil {
			return nil, fmt.Errorf("failed to scan scope: %w", err)
		}
		scopes = append(scopes, s)
	}
	return scopes, nil
}

// Put upserts a scope's registration, for seeding and admin management.
func (r *ScopeRepository) Put(ctx context.Context, s scope.Scope) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO oauth_scopes (name, label, public) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET label = $2, public = $3
	`, s.Name, s.Label, s.Public)
	if err != nil {
		return fmt.Errorf("failed to upsert scope: %w", err)
	}
	return nil
}
