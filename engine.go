package authcore

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/carelink/authcore/mfa"
	"github.com/carelink/authcore/password"
	"github.com/carelink/authcore/session"
	"github.com/carelink/authcore/token"
)

// Engine is the facade over the security core: credential policy and
// hashing, TOTP enrollment, token issuance, and distributed sessions.
// Engines are immutable after Build and safe for concurrent use.
type Engine struct {
	config   Config
	users    UserStore
	policy   *password.Policy
	hasher   *password.Hasher
	tokens   *token.Manager
	mfa      *mfa.Engine
	sessions *session.Store
	audit    *auditDispatcher
	metrics  *Metrics
	logger   zerolog.Logger
}

// Tokens exposes the token manager for middleware wiring.
func (e *Engine) Tokens() *token.Manager {
	return e.tokens
}

// Sessions exposes the session store for middleware wiring.
func (e *Engine) Sessions() *session.Store {
	return e.sessions
}

// MFA exposes the TOTP engine.
func (e *Engine) MFA() *mfa.Engine {
	return e.mfa
}

// Policy exposes the password policy for pre-flight validation in signup
// forms.
func (e *Engine) Policy() *password.Policy {
	return e.policy
}

// Logger exposes the engine's structured logger.
func (e *Engine) Logger() zerolog.Logger {
	return e.logger
}

// Close flushes and stops the audit dispatcher. The engine must not be
// used afterwards.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were discarded under
// backpressure since the engine started.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// Audit submits an event to the audit pipeline. Exposed for the gate
// middleware, which reports denials and elevated grants through the same
// dispatcher as the engine's own operations.
func (e *Engine) Audit(ctx context.Context, event AuditEvent) {
	e.emitAudit(ctx, event)
}

// ObserveDenial counts an authorization denial by reason code.
func (e *Engine) ObserveDenial(reason string) {
	e.metrics.denial(reason)
}

// ObserveTokenFailure counts a token verification failure by reason.
func (e *Engine) ObserveTokenFailure(reason string) {
	e.metrics.tokenFailure(reason)
}

func (e *Engine) emitAudit(ctx context.Context, event AuditEvent) {
	if e.audit == nil {
		return
	}
	e.audit.Emit(ctx, event)
}
