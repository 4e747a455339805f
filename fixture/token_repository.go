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

package fixture

import (
	"context"
	"sync"
	"time"

	"github.com/opentrusty/oauthcore/token"
)

// TokenRepository is an in-memory token.Repository, safe for
// concurrent use. Consume and Revoke implement the compare-and-swap
// single-use semantics of §5 with a mutex standing in for the
// conditional UPDATE a SQL-backed repository would issue.
type TokenRepository struct {
	mu           sync.Mutex
	byValue      map[string]*token.Token
	byRefresh    map[string]*token.Token
}

// NewTokenRepository constructs an empty TokenRepository.
func NewTokenRepository() *TokenRepository {
	return &TokenRepository{
		byValue:   make(map[string]*token.Token),
		byRefresh: make(map[string]*token.Token),
	}
}

func (r *TokenRepository) Create(ctx context.Context, t *token.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.byValue[t.Value] = &cp
	if t.RefreshToken != "" {
		r.byRefresh[t.RefreshToken] = &cp
	}
	return nil
}

func (r *TokenRepository) GetByValue(ctx context.Context, value string) (*token.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byValue[value]
	if !ok {
		return nil, token.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *TokenRepository) GetByRefreshToken(ctx context.Context, refreshToken string) (*token.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byRefresh[refreshToken]
	if !ok {
		return nil, token.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

// Consume is the compare-and-swap: it only succeeds against a row
// that is not already revoked.
func (r *TokenRepository) Consume(ctx context.Context, value string) (*token.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byValue[value]
	if !ok {
		return nil, token.ErrNotFound
	}
	if t.RevokedAt != nil {
		return nil, token.ErrAlreadyUsed
	}
	now := time.Now()
	t.RevokedAt = &now
	cp := *t
	return &cp, nil
}

func (r *TokenRepository) Revoke(ctx context.Context, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byValue[value]
	if !ok {
		return nil
	}
	if t.RevokedAt == nil {
		now := time.Now()
		t.RevokedAt = &now
	}
	return nil
}

// RevokeFamily revokes value and every other token sharing its
// sub+client_id, approximating the grant lineage a SQL-backed
// repository would track via a foreign key to the originating code.
// value may be either a token's own value or its refresh token.
func (r *TokenRepository) RevokeFamily(ctx context.Context, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.byValue[value]
	if !ok {
		target, ok = r.byRefresh[value]
	}
	if !ok {
		return nil
	}
	now := time.Now()
	for _, t := range r.byValue {
		if t.ClientID == target.ClientID && t.Sub == target.Sub && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}
