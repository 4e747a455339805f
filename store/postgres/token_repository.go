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
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/opentrusty/oauthcore/token"
)

// TokenRepository implements token.Repository against a single
// polymorphic `oauth_tokens` table discriminated by `type`, per the
// token polymorphism design note: codes and access tokens are the
// same row.
type TokenRepository struct {
	db *DB
}

// NewTokenRepository creates a new token repository.
func NewTokenRepository(db *DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(ctx context.Context, t *token.Token) error {
	var refreshToken, redirectURI, state, challengeHash, challengeMethod sql.NullString
	if t.RefreshToken != "" {
		refreshToken = sql.NullString{String: t.RefreshToken, Valid: true}
	}
	if t.RedirectURI != "" {
		redirectURI = sql.NullString{String: t.RedirectURI, Valid: true}
	}
	if t.State != "" {
		state = sql.NullString{String: t.State, Valid: true}
	}
	if t.CodeChallengeHash != "" {
		challengeHash = sql.NullString{String: t.CodeChallengeHash, Valid: true}
	}
	if t.CodeChallengeMethod != "" {
		challengeMethod = sql.NullString{String: t.CodeChallengeMethod, Valid: true}
	}
	var sub sql.NullString
	if t.Sub != "" {
		sub = sql.NullString{String: t.Sub, Valid: true}
	}

	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO oauth_tokens (
			id, type, value, refresh_token, client_id, sub, redirect_uri,
			scope, state, code_challenge_hash, code_challenge_method,
			issued_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		t.ID, string(t.Type), t.Value, refreshToken, t.ClientID, sub, redirectURI,
		t.Scope, state, challengeHash, challengeMethod,
		t.IssuedAt, t.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}
	return nil
}

func scanToken(row interface{ Scan(...any) error }) (*token.Token, error) {
	var t token.Token
	var typ string
	var refreshToken, sub, redirectURI, state, challengeHash, challengeMethod sql.NullString
	var revokedAt sql.NullTime

	err := row.Scan(
		&t.ID, &typ, &t.Value, &refreshToken, &t.ClientID, &sub, &redirectURI,
		&t.Scope, &state, &challengeHash, &challengeMethod,
		&t.IssuedAt, &t.ExpiresAt, &revokedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Type = token.Type(typ)
	if refreshToken.Valid {
		t.RefreshToken = refreshToken.String
	}
	if sub.Valid {
		t.Sub = sub.String
	}
	if redirectURI.Valid {
		t.RedirectURI = redirectURI.String
	}
	if state.Valid {
		t.State = state.String
	}
	if challengeHash.Valid {
		t.CodeChallengeHash = challengeHash.String
	}
	if challengeMethod.Valid {
		t.CodeChallengeMethod = challengeMethod.String
	}
	if revokedAt.Valid {
		t.RevokedAt = &revokedAt.Time
	}
	return &t, nil
}

const selectTokenColumns = `
	id, type, value, refresh_token, client_id, sub, redirect_uri,
	scope, state, code_challenge_hash, code_challenge_method,
	issued_at, expires_at, revoked_at
`

func (r *TokenRepository) GetByValue(ctx context.Context, value string) (*token.Token, error) {
	row := r.db.pool.QueryRow(ctx, `SELECT `+selectTokenColumns+` FROM oauth_tokens WHERE value = $1`, value)
	t, err := scanToken(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, token.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	return t, nil
}

func (r *TokenRepository) GetByRefreshToken(ctx context.Context, refreshToken string) (*token.Token, error) {
	row := r.db.pool.QueryRow(ctx, `SELECT `+selectTokenColumns+` FROM oauth_tokens WHERE refresh_token = $1`, refreshToken)
	t, err := scanToken(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, token.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get token by refresh_token: %w", err)
	}
	return t, nil
}

// Consume implements the single-use compare-and-swap of §5: the
// UPDATE only matches a row whose revoked_at is still null, so two
// concurrent exchanges of the same code can never both succeed.
func (r *TokenRepository) Consume(ctx context.Context, value string) (*token.Token, error) {
	row := r.db.pool.QueryRow(ctx, `
		UPDATE oauth_tokens SET revoked_at = NOW()
		WHERE value = $1 AND revoked_at IS NULL
		RETURNING `+selectTokenColumns, value)
	t, err := scanToken(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			if _, getErr := r.GetByValue(ctx, value); getErr == nil {
				return nil, token.ErrAlreadyUsed
			}
			return nil, token.ErrNotFound
		}
		return nil, fmt.Errorf("failed to consume token: %w", err)
	}
	return t, nil
}

func (r *TokenRepository) Revoke(ctx context.Context, value string) error {
	_, err := r.db.pool.Exec(ctx, `
		UPDATE oauth_tokens SET revoked_at = NOW()
		WHERE value = $1 AND revoked_at IS NULL
	`, value)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// RevokeFamily revokes every unrevoked token sharing value's
// client_id and sub, used on refresh-token replay detection (§4.4.5).
// value may be either a token's own value or its refresh_token, since
// replay is detected from the refresh token presented on the request.
func (r *TokenRepository) RevokeFamily(ctx context.Context, value string) error {
	_, err := r.db.pool.Exec(ctx, `
		UPDATE oauth_tokens SET revoked_at = $2
		WHERE revoked_at IS NULL
		  AND client_id = (SELECT client_id FROM oauth_tokens WHERE value = $1 OR refresh_token = $1)
		  AND sub IS NOT DISTINCT FROM (SELECT sub FROM oauth_tokens WHERE value = $1 OR refresh_token = $1)
	`, value, time.Now())
	if err != nil {
		return fmt.Errorf("failed to revoke token family: %w", err)
	}
	return nil
}
