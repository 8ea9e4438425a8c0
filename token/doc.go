// Package token issues and verifies the platform's signed access and
// refresh tokens.
//
// Both kinds are HS256 JWTs carrying subject, email, role, and tenant
// affiliation, plus a "typ" discriminator. The two kinds are signed with
// distinct secrets: even a forged discriminator cannot move a token across
// the access/refresh boundary without the other secret.
//
// # Failure taxonomy
//
// Verification distinguishes [ErrExpired], [ErrTypeMismatch], [ErrInvalid],
// and [ErrMissing] so gate code can map each to a distinct client-facing
// response ("token expired, please refresh" vs "invalid token, please
// re-authenticate").
//
// # Performance contract
//
// Issue and verify are pure in-process computations with no I/O and no
// shared mutable state; they may run fully in parallel across requests.
package token
