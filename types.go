package authcore

import (
	"context"

	"github.com/carelink/authcore/rbac"
)

// UserRecord is the account view the engine needs. It is read from the
// caller's persistence layer through [UserStore]; the engine never owns
// account storage.
type UserRecord struct {
	ID       string
	Email    string
	Name     string
	Role     rbac.Role
	TenantID string

	PasswordHash  string
	PriorHashes   []string
	PasswordCost  int
	Active        bool
	EmailVerified bool

	MFAEnabled  bool
	MFASecret   string
	BackupCodes []string
}

// UserStore is the persistence interface callers implement. Lookup methods
// return ErrUserNotFound for unknown accounts; every other error is treated
// as infrastructure failure.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*UserRecord, error)
	GetUserByID(ctx context.Context, userID string) (*UserRecord, error)

	// UpdatePassword replaces the credential hash and the retained history
	// in one write.
	UpdatePassword(ctx context.Context, userID, hash string, history []string) error

	// SetMFA stores the TOTP secret and backup codes. enabled is false
	// during enrollment and true once the first code has been verified.
	SetMFA(ctx context.Context, userID, secret string, backupCodes []string, enabled bool) error

	// ReplaceBackupCodes overwrites the remaining backup codes, typically
	// after one was consumed or the set was regenerated.
	ReplaceBackupCodes(ctx context.Context, userID string, codes []string) error
}
