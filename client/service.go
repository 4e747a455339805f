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

package client

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/opentrusty/oauthcore/audit"
	"github.com/opentrusty/oauthcore/id"
)

// Registrar manages the client registration lifecycle. It is not
// consumed by the protocol entry points themselves (those only need
// Repository) — it is the host admin flow's write path, created by
// the core for convenience since every host needs one (§1).
//
// Purpose: Enforces registration-time invariants (valid redirect URIs,
// grant types drawn from the supported set) and persists clients.
// Domain: OAuth2
type Registrar struct {
	repo  AdminRepository
	audit audit.Logger
}

// AdminRepository extends Repository with the write operations the
// host admin flow needs; the protocol entry points only ever see the
// read-only Repository.
type AdminRepository interface {
	Repository
	Create(ctx context.Context, c *Client) error
	Update(ctx context.Context, c *Client) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Client, error)
}

// NewRegistrar constructs a Registrar.
func NewRegistrar(repo AdminRepository, auditLogger audit.Logger) *Registrar {
	return &Registrar{repo: repo, audit: auditLogger}
}

// Register validates and persists a new client, assigning it an ID
// and a freshly generated secret if one was not already set.
func (s *Registrar) Register(ctx context.Context, c *Client) (*Client, error) {
	if err := validate(c); err != nil {
		return nil, err
	}

	if c.ID == "" {
		c.ID = id.NewUUIDv7()
	}
	if c.Secret == "" {
		c.Secret = GenerateSecret()
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, audit.Event{
		ID:       id.NewUUIDv7(),
		Type:     audit.TypeClientRegistered,
		ClientID: c.ID,
		Resource: audit.ResourceClient,
		TargetID: c.ID,
	})

	return c, nil
}

// Update validates and persists changes to an existing client.
func (s *Registrar) Update(ctx context.Context, c *Client) error {
	if err := validate(c); err != nil {
		return err
	}
	c.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, c); err != nil {
		return err
	}

	s.audit.Log(ctx, audit.Event{
		ID:       id.NewUUIDv7(),
		Type:     audit.TypeClientUpdated,
		ClientID: c.ID,
		Resource: audit.ResourceClient,
		TargetID: c.ID,
	})
	return nil
}

// Delete removes a client from the registry.
func (s *Registrar) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Log(ctx, audit.Event{
		Type:     audit.TypeClientDeleted,
		ClientID: id,
		Resource: audit.ResourceClient,
		TargetID: id,
	})
	return nil
}

// List returns every registered client.
func (s *Registrar) List(ctx context.Context) ([]*Client, error) {
	return s.repo.List(ctx)
}

func validate(c *Client) error {
	for _, uri := range c.RedirectURIs {
		parsed, err := url.ParseRequestURI(uri)
		if err != nil || !parsed.IsAbs() {
			return fmt.Errorf("%w: %s", ErrInvalidRedirectURI, uri)
		}
	}
	for _, g := range c.SupportedGrantTypes {
		switch g {
		case GrantAuthorizationCode, GrantImplicit, GrantPassword, GrantClientCredentials, GrantRefreshToken:
		default:
			return fmt.Errorf("%w: %s", ErrInvalidGrantType, g)
		}
	}
	return nil
}
