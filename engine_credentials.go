package authcore

import (
	"context"
	"errors"
	"fmt"

	"github.com/carelink/authcore/password"
)

// ValidatePassword runs the policy against a candidate password with the
// user's personal context. It never touches storage and never errors;
// violations come back as a structured result.
func (e *Engine) ValidatePassword(candidate string, user *UserRecord) password.ValidationResult {
	ctx := &password.Context{}
	if user != nil {
		ctx.Email = user.Email
		ctx.Name = user.Name
		ctx.PriorHashes = append([]string{user.PasswordHash}, user.PriorHashes...)
	}
	return e.policy.Validate(candidate, ctx)
}

// SetPassword hashes and stores the initial credential for a user. Used at
// account provisioning; it performs no current-password check and does not
// revoke sessions.
func (e *Engine) SetPassword(ctx context.Context, userID, newPassword string) error {
	user, err := e.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	result := e.ValidatePassword(newPassword, user)
	if !result.Valid {
		return &PolicyViolationError{Reasons: result.Errors}
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	return e.users.UpdatePassword(ctx, userID, hash, user.PriorHashes)
}

// ChangePassword verifies the current credential, enforces policy and
// history on the replacement, persists the new hash with the old one pushed
// into history, and revokes every session the user holds.
func (e *Engine) ChangePassword(ctx context.Context, userID, current, replacement string) error {
	user, err := e.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !e.hasher.Compare(current, user.PasswordHash) {
		e.emitAudit(ctx, passwordAuditEvent(user, OutcomeDenied, "wrong_current_password"))
		return ErrInvalidCredentials
	}

	result := e.ValidatePassword(replacement, user)
	if !result.Valid {
		e.emitAudit(ctx, passwordAuditEvent(user, OutcomeDenied, "policy_violation"))
		return &PolicyViolationError{Reasons: result.Errors}
	}

	hash, err := e.hasher.Hash(replacement)
	if err != nil {
		return err
	}

	history := password.History(user.PriorHashes).Push(user.PasswordHash, e.config.Password.HistoryLimit)
	if err := e.users.UpdatePassword(ctx, userID, hash, history); err != nil {
		return err
	}

	// A credential change invalidates every existing login.
	revoked, err := e.sessions.DestroyAllForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	for i := 0; i < revoked; i++ {
		e.metrics.sessionRevoked()
	}

	event := passwordAuditEvent(user, OutcomeSuccess, "")
	event.Detail = map[string]string{"sessions_revoked": fmt.Sprint(revoked)}
	e.emitAudit(ctx, event)

	return nil
}

// VerifyCredentials checks an email and password pair. A match on an active
// account returns the record; every failure mode returns
// ErrInvalidCredentials except an inactive account, which is reported
// distinctly because the caller must not offer a retry. Hashes at a stale
// cost factor are transparently upgraded on success.
func (e *Engine) VerifyCredentials(ctx context.Context, email, pass string) (*UserRecord, error) {
	if email == "" || pass == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := e.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Burn a comparison so unknown accounts cost the same as a
			// wrong password.
			e.hasher.Compare(pass, phantomHash)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !e.hasher.Compare(pass, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrAccountInactive
	}

	if e.hasher.NeedsRehash(user.PasswordHash) {
		if hash, hashErr := e.hasher.Hash(pass); hashErr == nil {
			if updateErr := e.users.UpdatePassword(ctx, user.ID, hash, user.PriorHashes); updateErr == nil {
				user.PasswordHash = hash
			} else {
				e.logger.Warn().Err(updateErr).Str("user_id", user.ID).Msg("credential cost upgrade not persisted")
			}
		}
	}

	return user, nil
}

// phantomHash is a well-formed bcrypt digest compared against when the
// account does not exist, so the miss costs a full verification.
const phantomHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func passwordAuditEvent(user *UserRecord, outcome, reason string) AuditEvent {
	event := NewAuditEvent("password.change", outcome)
	event.ActorID = user.ID
	event.Role = user.Role
	event.TenantID = user.TenantID
	if reason != "" {
		event.Detail = map[string]string{"reason": reason}
	}
	return event
}
