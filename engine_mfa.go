package authcore

import (
	"context"

	"github.com/carelink/authcore/mfa"
)

// BeginMFAEnrollment generates a fresh TOTP secret, QR code, and backup
// codes for the user and stores them in the disabled state. The
// authenticator does not count until CompleteMFAEnrollment proves the user
// can produce a working code.
func (e *Engine) BeginMFAEnrollment(ctx context.Context, userID string) (*mfa.Enrollment, error) {
	user, err := e.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	enrollment, err := e.mfa.Enroll(user.Email)
	if err != nil {
		return nil, err
	}

	if err := e.users.SetMFA(ctx, userID, enrollment.Secret, enrollment.BackupCodes, false); err != nil {
		return nil, err
	}

	return enrollment, nil
}

// CompleteMFAEnrollment activates the pending authenticator once the user
// supplies one valid current code.
func (e *Engine) CompleteMFAEnrollment(ctx context.Context, userID, code string) error {
	user, err := e.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.MFASecret == "" {
		return ErrMFANotEnrolled
	}

	if !e.mfa.CompleteEnrollment(user.MFASecret, code) {
		e.emitAudit(ctx, mfaAuditEvent(user, "mfa.enroll", OutcomeDenied))
		return ErrMFAInvalid
	}

	if err := e.users.SetMFA(ctx, userID, user.MFASecret, user.BackupCodes, true); err != nil {
		return err
	}

	e.emitAudit(ctx, mfaAuditEvent(user, "mfa.enroll", OutcomeSuccess))
	return nil
}

// VerifyMFA checks a second factor for the user: a current TOTP code, or
// failing that a backup code, which is consumed on success.
func (e *Engine) VerifyMFA(ctx context.Context, userID, code string) error {
	user, err := e.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	return e.verifySecondFactor(ctx, user, code)
}

func (e *Engine) verifySecondFactor(ctx context.Context, user *UserRecord, code string) error {
	if !user.MFAEnabled || user.MFASecret == "" {
		return ErrMFANotEnrolled
	}

	if e.mfa.VerifyCode(user.MFASecret, code).Valid {
		e.emitAudit(ctx, mfaAuditEvent(user, "mfa.verify", OutcomeSuccess))
		return nil
	}

	backup := mfa.VerifyBackupCode(user.BackupCodes, code)
	if backup.Valid {
		if err := e.users.ReplaceBackupCodes(ctx, user.ID, backup.Remaining); err != nil {
			return err
		}
		user.BackupCodes = backup.Remaining
		event := mfaAuditEvent(user, "mfa.verify", OutcomeSuccess)
		event.Detail = map[string]string{"factor": "backup_code"}
		e.emitAudit(ctx, event)
		return nil
	}

	e.emitAudit(ctx, mfaAuditEvent(user, "mfa.verify", OutcomeDenied))
	return ErrMFAInvalid
}

// RegenerateBackupCodes replaces the user's remaining backup codes with a
// full fresh set and returns the new codes for one-time display.
func (e *Engine) RegenerateBackupCodes(ctx context.Context, userID string) ([]string, error) {
	user, err := e.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.MFAEnabled {
		return nil, ErrMFANotEnrolled
	}

	codes, err := e.mfa.RegenerateBackupCodes()
	if err != nil {
		return nil, err
	}
	if err := e.users.ReplaceBackupCodes(ctx, userID, codes); err != nil {
		return nil, err
	}

	e.emitAudit(ctx, mfaAuditEvent(user, "mfa.backup_codes.regenerate", OutcomeSuccess))
	return codes, nil
}

func mfaAuditEvent(user *UserRecord, action, outcome string) AuditEvent {
	event := NewAuditEvent(action, outcome)
	event.ActorID = user.ID
	event.Role = user.Role
	event.TenantID = user.TenantID
	return event
}
