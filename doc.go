// Package authcore is the authentication and session-security core of the
// CareLink healthcare platform.
//
// It bundles password policy and bcrypt credential hashing, TOTP-based MFA
// with backup codes, JWT access/refresh token issuance with per-kind signing
// secrets, Redis-backed distributed sessions with a per-user concurrency cap
// and activity anomaly detection, and a closed role-based authorization
// matrix for the platform's five roles.
//
// The [Engine] facade wires those pieces over a caller-provided [UserStore]:
//
//	engine, err := authcore.New().
//		WithConfig(cfg).
//		WithRedis(rdb).
//		WithUserStore(users).
//		Build()
//
// Each concern is also usable on its own through the password, token, mfa,
// session, rbac, and middleware subpackages.
package authcore
