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

// Package id centralizes identifier generation so every entity in the
// core (clients, tokens, audit events) gets a time-sortable, globally
// unique primary key.
package id

import "github.com/google/uuid"

// NewUUIDv7 returns a new version 7 UUID as its canonical string form.
//
// Purpose: Primary key generator for clients, tokens, and audit events.
// Domain: Platform
// Invariants: Monotonically increasing within a millisecond resolution.
// Audited: No
// Errors: None (falls back to v4 on the near-impossible entropy failure)
func NewUUIDv7() string {
	v, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return v.String()
}
