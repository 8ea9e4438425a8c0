package authcore

import (
	"context"
	"fmt"
	"strings"

	"github.com/carelink/authcore/session"
)

// GetSession returns the live session or nil when it is missing or
// expired.
func (e *Engine) GetSession(ctx context.Context, sessionID string) (*session.Session, error) {
	sess, err := e.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return sess, nil
}

// ListSessions returns the user's live sessions, for account-security
// pages that show active devices.
func (e *Engine) ListSessions(ctx context.Context, userID string) ([]*session.Session, error) {
	sessions, err := e.sessions.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return sessions, nil
}

// TouchSession records request activity against a session and surfaces
// suspicion. Suspicious activity is audited and counted but the session
// stays alive; revocation is a product decision, not the core's.
func (e *Engine) TouchSession(ctx context.Context, sessionID string, act session.Activity) (*session.ActivityResult, error) {
	result, err := e.sessions.RecordActivity(ctx, sessionID, act)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if result == nil {
		return nil, nil
	}

	if result.Suspicious {
		e.metrics.suspiciousActivity()
		event := NewAuditEvent("session.suspicious_activity", OutcomeFailure)
		event.ActorID = result.Session.UserID
		event.Role = result.Session.Role
		event.SessionID = sessionID
		event.NetworkOrigin = act.IPAddress
		event.Detail = map[string]string{"reasons": strings.Join(result.Reasons, ",")}
		e.emitAudit(ctx, event)

		e.logger.Warn().
			Str("session_id", sessionID).
			Str("user_id", result.Session.UserID).
			Strs("reasons", result.Reasons).
			Msg("suspicious session activity")
	}

	return result, nil
}

// RenewSession swaps a live session for a fresh one with a new identifier
// and a restarted lifetime, the defense against session fixation. Returns
// nil when the session is missing or expired.
func (e *Engine) RenewSession(ctx context.Context, sessionID string) (*session.Session, error) {
	renewed, err := e.sessions.Renew(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if renewed == nil {
		return nil, nil
	}

	event := NewAuditEvent("session.renew", OutcomeSuccess)
	event.ActorID = renewed.UserID
	event.SessionID = renewed.ID
	e.emitAudit(ctx, event)

	return renewed, nil
}
