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

	"github.com/opentrusty/oauthcore/client"
)

// ClientRepository is an in-memory client.AdminRepository, safe for
// concurrent use. Intended for tests and for hosts embedding the core.
type ClientRepository struct {
	mu      sync.RWMutex
	clients map[string]*client.Client
}

// NewClientRepository constructs an empty ClientRepository.
func NewClientRepository() *ClientRepository {
	return &ClientRepository{clients: make(map[string]*client.Client)}
}

func (r *ClientRepository) GetByID(ctx context.Context, id string) (*client.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[id]
	if !ok {
		return nil, client.ErrClientNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.clients[c.ID]; exists {
		return client.ErrClientAlreadyExists
	}
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *ClientRepository) Update(ctx context.Context, c *client.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.clients[c.ID]; !exists {
		return client.ErrClientNotFound
	}
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, id)
	return nil
}

func (r *ClientRepository) List(ctx context.Context) ([]*client.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*client.Client, 0, len(r.clients))
	for _, c := range r.clients {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}
