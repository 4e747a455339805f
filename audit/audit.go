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

// Package audit records the security-relevant events emitted by the
// OAuth2 core: grant issuance, revocation, and failed authentication.
package audit

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Event types emitted by the grant engines and the introspection/userinfo
// entry points.
const (
	TypeCodeIssued       = "code_issued"
	TypeCodeExchanged    = "code_exchanged"
	TypeCodeRejected     = "code_rejected"
	TypeTokenIssued      = "token_issued"
	TypeTokenRefreshed   = "token_refreshed"
	TypeTokenRevoked     = "token_revoked"
	TypeTokenIntrospected = "token_introspected"
	TypeUserinfoFetched  = "userinfo_fetched"
	TypeLoginFailed      = "login_failed"
	TypeClientAuthFailed = "client_auth_failed"
	TypeClientRegistered = "client_registered"
	TypeClientUpdated    = "client_updated"
	TypeClientDeleted    = "client_deleted"
)

// Standard audit attribute keys.
const (
	AttrAuditType  = "audit_type"
	AttrClientID   = "client_id"
	AttrSub        = "sub"
	AttrScope      = "scope"
	AttrGrantType  = "grant_type"
	AttrResource   = "resource"
	AttrTargetID   = "target_id"
	AttrTimestamp  = "timestamp"
	AttrComponent  = "component"
	AttrMetadata   = "metadata"
	AttrReason     = "reason"
)

// Common resource types.
const (
	ResourceCode        = "code"
	ResourceAccessToken = "access_token"
	ResourceClient      = "client"
)

// Event represents an auditable OAuth2 protocol action.
//
// Purpose: Canonical representation of a grant/introspection/revocation
// outcome, independent of the transport that triggered it.
// Domain: Audit
// Invariants: Type must be a known Type constant. Timestamp must be set.
type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	ClientID  string         `json:"client_id"`
	Sub       string         `json:"sub,omitempty"`
	Resource  string         `json:"resource"`
	TargetID  string         `json:"target_id"`
	Metadata  map[string]any `json:"metadata"`
	Timestamp time.Time      `json:"created_at"`
}

// Logger defines the interface for audit logging.
//
// Purpose: Abstraction for emitting protocol events; the core calls this
// on every successful authorize/token/introspect/revoke/userinfo
// outcome, and on two failures only: a rejected code exchange
// (TypeCodeRejected) and a failed password login (TypeLoginFailed).
// Domain: Audit
type Logger interface {
	Log(ctx context.Context, event Event)
}

// Filter defines criteria for listing audit events.
type Filter struct {
	ClientID  *string
	Type      *string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// Repository defines storage for audit events.
//
// Purpose: Persistence and retrieval of audit trails.
// Domain: Audit
type Repository interface {
	Log(ctx context.Context, event Event) error
	List(ctx context.Context, filter Filter) ([]Event, int, error)
}

// SlogLogger implements Logger using slog.
type SlogLogger struct{}

// NewSlogLogger creates a new audit logger.
//
// Purpose: Default logger implementation using structured logging.
// Domain: Audit
// Audited: No
// Errors: None
func NewSlogLogger() *SlogLogger {
	return &SlogLogger{}
}

// Log records an audit event.
func (l *SlogLogger) Log(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	attrs := []any{
		slog.String(AttrAuditType, event.Type),
		slog.String(AttrClientID, event.ClientID),
		slog.String(AttrResource, event.Resource),
		slog.String(AttrTargetID, event.TargetID),
		slog.Time(AttrTimestamp, event.Timestamp),
	}

	if event.Sub != "" {
		attrs = append(attrs, slog.String(AttrSub, event.Sub))
	}

	if len(event.Metadata) > 0 {
		group := []any{}
		for k, v := range event.Metadata {
			if isSecret(k) {
				v = "[REDACTED]"
			}
			group = append(group, slog.Any(k, v))
		}
		attrs = append(attrs, slog.Group(AttrMetadata, group...))
	}

	slog.InfoContext(ctx, "AUDIT_EVENT", append(attrs, slog.String(AttrComponent, "audit"))...)
}

// RepositoryLogger implements Logger using a Repository and Slog.
type RepositoryLogger struct {
	repo Repository
	slog *SlogLogger
}

// NewRepositoryLogger creates a new repository-backed logger.
func NewRepositoryLogger(repo Repository) *RepositoryLogger {
	return &RepositoryLogger{
		repo: repo,
		slog: NewSlogLogger(),
	}
}

// Log records an audit event to both Slog and the Repository.
func (l *RepositoryLogger) Log(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	l.slog.Log(ctx, event)

	if err := l.repo.Log(ctx, event); err != nil {
		slog.ErrorContext(ctx, "failed to persist audit event", "error", err)
	}
}

// isSecret checks if a metadata key likely contains a secret, using
// case-insensitive substring matching against common sensitive keywords.
func isSecret(key string) bool {
	k := strings.ToLower(key)
	secrets := []string{
		"password", "secret", "token", "verifier", "challenge",
		"hash", "credential", "private", "authorization",
	}
	for _, s := range secrets {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}
