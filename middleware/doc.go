// Package middleware exposes the HTTP request gate for authcore: bearer
// token authentication plus role, permission, MFA, affiliation, and
// ownership guards.
//
// # Guards
//
//   - [Gate.Authenticate] — verifies the bearer token and attaches the
//     identity; denies with NO_TOKEN, INVALID_TOKEN, or TOKEN_EXPIRED.
//   - [Gate.OptionalAuthenticate] — attaches identity when possible, never
//     denies.
//   - [Gate.RequireMFA], [Gate.RequireAffiliation] — compose after the
//     base gate.
//   - [Gate.RequireRole], [Gate.RequirePermission],
//     [Gate.RequireAllPermissions], [Gate.RequireAnyPermission],
//     [Gate.RequireOwnershipOrRole] — authorization guards built on the
//     rbac decision helpers.
//
// Denials are returned as a JSON body {code, message} with a stable
// machine-readable code; internal error detail stays in server-side logs.
// Every denial and every elevated grant feeds the engine's audit pipeline.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to the engine).
//   - Make authorization decisions itself (delegates to rbac).
package middleware
