// Package mfa implements TOTP-based multi-factor authentication: secret
// generation and QR provisioning, time-step code verification with a drift
// window, and the single-use backup-code lifecycle.
//
// The package holds no state. Secrets and backup codes are generated here
// and persisted by the caller; verification is pure computation keyed only
// by the wall clock and the stored secret. Attempt throttling and lockout
// policy live with the external rate-limit collaborator, not here.
package mfa
