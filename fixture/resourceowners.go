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

	"github.com/opentrusty/oauthcore/resourceowner"
)

type ownerRecord struct {
	sub          string
	username     string
	passwordHash string
	scopes       []string
	claims       map[string]any
}

// ResourceOwners is an in-memory resourceowner.ResourceOwners backed
// by Hasher, for tests and for hosts embedding the core.
type ResourceOwners struct {
	mu     sync.RWMutex
	hasher *Hasher
	bySub  map[string]*ownerRecord
	byUser map[string]*ownerRecord
}

// NewResourceOwners constructs an empty ResourceOwners fixture.
func NewResourceOwners() *ResourceOwners {
	return &ResourceOwners{
		hasher: NewHasher(),
		bySub:  make(map[string]*ownerRecord),
		byUser: make(map[string]*ownerRecord),
	}
}

// AddOwner registers a resource owner with a plaintext password
// (hashed immediately), authorized scopes, and OIDC claims.
func (r *ResourceOwners) AddOwner(sub, username, password string, scopes []string, claims map[string]any) error {
	hash, err := r.hasher.Hash(password)
	if err != nil {
		return err
	}
	rec := &ownerRecord{sub: sub, username: username, passwordHash: hash, scopes: scopes, claims: claims}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySub[sub] = rec
	r.byUser[username] = rec
	return nil
}

func (r *ResourceOwners) Authenticate(ctx context.Context, username, password string) (string, error) {
	r.mu.RLock()
	rec, ok := r.byUser[username]
	r.mu.RUnlock()
	if !ok {
		return "", resourceowner.ErrInvalidCredentials
	}
	ok, err := r.hasher.Verify(password, rec.passwordHash)
	if err != nil || !ok {
		return "", resourceowner.ErrInvalidCredentials
	}
	return rec.sub, nil
}

func (r *ResourceOwners) AuthorizedScopes(ctx context.Context, sub string, requested []string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.bySub[sub]
	if !ok {
		return nil, resourceowner.ErrNotFound
	}
	return rec.scopes, nil
}

func (r *ResourceOwners) Claims(ctx context.Context, sub string, scopes []string) (map[string]any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.bySub[sub]
	if !ok {
		return nil, resourceowner.ErrNotFound
	}
	out := make(map[string]any, len(rec.claims))
	for k, v := range rec.claims {
		out[k] = v
	}
	return out, nil
}

func (r *ResourceOwners) Username(ctx context.Context, sub string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.bySub[sub]
	if !ok {
		return "", resourceowner.ErrNotFound
	}
	return rec.username, nil
}
