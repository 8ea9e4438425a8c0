package authcore

import (
	"context"
	"errors"
	"fmt"

	"github.com/carelink/authcore/mfa"
	"github.com/carelink/authcore/session"
	"github.com/carelink/authcore/token"
)

// LoginRequest carries everything one login attempt needs. MFACode may be
// a TOTP code or a backup code and is only consulted when the account
// requires a second factor.
type LoginRequest struct {
	Email    string
	Password string
	MFACode  string

	Metadata session.Metadata
}

// LoginResult is a completed login: the account, its new session, and a
// signed token pair bound to that session.
type LoginResult struct {
	User    *UserRecord
	Session *session.Session
	Tokens  token.Pair
}

// Login composes the full authentication sequence: credential check, MFA
// gate, session creation, token issuance. Healthcare-professional roles
// must present a second factor; ErrMFARequired signals the caller to
// collect one and retry.
func (e *Engine) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := e.VerifyCredentials(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			e.metrics.loginOutcome("invalid_credentials")
			e.emitAudit(ctx, loginAuditEvent(req, nil, OutcomeDenied, "invalid_credentials"))
		case errors.Is(err, ErrAccountInactive):
			e.metrics.loginOutcome("account_inactive")
			e.emitAudit(ctx, loginAuditEvent(req, nil, OutcomeDenied, "account_inactive"))
		}
		return nil, err
	}

	mfaVerified := false
	needsMFA := user.MFAEnabled || mfa.RequiredForRole(user.Role)
	if needsMFA {
		if !user.MFAEnabled {
			// Professional role without an enrolled authenticator: the
			// account cannot log in until enrollment completes.
			e.metrics.loginOutcome("mfa_required")
			e.emitAudit(ctx, loginAuditEvent(req, user, OutcomeDenied, "mfa_not_enrolled"))
			return nil, ErrMFARequired
		}
		if req.MFACode == "" {
			e.metrics.loginOutcome("mfa_required")
			return nil, ErrMFARequired
		}
		if err := e.verifySecondFactor(ctx, user, req.MFACode); err != nil {
			if errors.Is(err, ErrMFAInvalid) {
				e.metrics.loginOutcome("mfa_failed")
				e.emitAudit(ctx, loginAuditEvent(req, user, OutcomeDenied, "mfa_failed"))
			}
			return nil, err
		}
		mfaVerified = true
	}

	sess, err := e.sessions.Create(ctx, session.NewSession{
		UserID:      user.ID,
		Role:        user.Role,
		TenantID:    user.TenantID,
		Metadata:    req.Metadata,
		MFAVerified: mfaVerified,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	e.metrics.sessionCreated()

	pair, err := e.tokens.IssuePair(token.Identity{
		UserID:      user.ID,
		Email:       user.Email,
		Role:        user.Role,
		TenantID:    user.TenantID,
		MFAVerified: mfaVerified,
	})
	if err != nil {
		return nil, err
	}

	e.metrics.loginOutcome("success")
	event := loginAuditEvent(req, user, OutcomeSuccess, "")
	event.SessionID = sess.ID
	e.emitAudit(ctx, event)

	return &LoginResult{
		User:    user,
		Session: sess,
		Tokens:  pair,
	}, nil
}

// Logout destroys one session. Unknown session IDs are a no-op, matching
// the store's idempotent delete.
func (e *Engine) Logout(ctx context.Context, sessionID string) error {
	if err := e.sessions.Destroy(ctx, sessionID); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	e.metrics.sessionRevoked()

	event := NewAuditEvent("session.logout", OutcomeSuccess)
	event.SessionID = sessionID
	e.emitAudit(ctx, event)
	return nil
}

// LogoutAll destroys every session the user holds and returns the count.
func (e *Engine) LogoutAll(ctx context.Context, userID string) (int, error) {
	revoked, err := e.sessions.DestroyAllForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	for i := 0; i < revoked; i++ {
		e.metrics.sessionRevoked()
	}

	event := NewAuditEvent("session.logout_all", OutcomeSuccess)
	event.ActorID = userID
	event.Detail = map[string]string{"sessions_revoked": fmt.Sprint(revoked)}
	e.emitAudit(ctx, event)
	return revoked, nil
}

func loginAuditEvent(req LoginRequest, user *UserRecord, outcome, reason string) AuditEvent {
	event := NewAuditEvent("login", outcome)
	event.NetworkOrigin = req.Metadata.IPAddress
	if user != nil {
		event.ActorID = user.ID
		event.Role = user.Role
		event.TenantID = user.TenantID
	}
	if reason != "" {
		event.Detail = map[string]string{"reason": reason}
	}
	return event
}
