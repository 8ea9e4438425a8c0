package authcore

import "errors"

var (
	// ErrEngineNotReady is returned when an Engine method is called before
	// Build completed or after Close.
	ErrEngineNotReady = errors.New("engine not ready")
	// ErrInvalidCredentials is returned for any failed credential check.
	// Unknown account and wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned by user store lookups for unknown accounts.
	ErrUserNotFound = errors.New("user not found")
	// ErrAccountInactive is returned when a disabled account attempts to
	// authenticate.
	ErrAccountInactive = errors.New("account inactive")
	// ErrMFARequired is returned when a professional account logs in without
	// a second factor.
	ErrMFARequired = errors.New("mfa verification required")
	// ErrMFAInvalid is returned when a supplied TOTP or backup code fails.
	ErrMFAInvalid = errors.New("mfa code invalid")
	// ErrMFANotEnrolled is returned when an MFA operation targets an account
	// without an enrolled authenticator.
	ErrMFANotEnrolled = errors.New("mfa not enrolled")
	// ErrPasswordPolicy is returned when a new password fails validation.
	// The structured reasons travel alongside in PolicyViolationError.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrSessionNotFound is returned by engine operations that require a
	// live session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrStoreUnavailable is returned when the backing session store cannot
	// be reached.
	ErrStoreUnavailable = errors.New("backing store unavailable")
)

// PolicyViolationError carries the individual policy failures behind
// ErrPasswordPolicy so callers can surface them to the user.
type PolicyViolationError struct {
	Reasons []string
}

func (e *PolicyViolationError) Error() string {
	return "password policy violation"
}

func (e *PolicyViolationError) Unwrap() error {
	return ErrPasswordPolicy
}
