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

// Package cache decorates a client.Repository with an LRU cache, so a
// host backed by a network database does not round-trip on every
// grant-support gate and redirect_uri check.
package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/opentrusty/oauthcore/client"
)

// ClientRepository wraps a client.Repository with a bounded LRU cache
// keyed by client ID. It never caches negative lookups: a cache miss
// always falls through to the underlying repository, since
// registering a new client must be visible immediately.
type ClientRepository struct {
	underlying client.Repository
	cache      *lru.Cache[string, *client.Client]
}

// NewClientRepository wraps underlying with an LRU cache holding up
// to size entries.
func NewClientRepository(underlying client.Repository, size int) (*ClientRepository, error) {
	c, err := lru.New[string, *client.Client](size)
	if err != nil {
		return nil, err
	}
	return &ClientRepository{underlying: underlying, cache: c}, nil
}

// GetByID returns the cached client if present, otherwise falls
// through to the underlying repository and populates the cache.
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*client.Client, error) {
	if c, ok := r.cache.Get(id); ok {
		return c, nil
	}
	c, err := r.underlying.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Add(id, c)
	return c, nil
}

// Invalidate evicts id from the cache; the host admin flow should
// call this after any Update or Delete.
func (r *ClientRepository) Invalidate(id string) {
	r.cache.Remove(id)
}
