// Package session manages distributed login sessions in Redis.
//
// Each session is a JSON record stored under its own key with a TTL equal to
// its role-derived lifetime, indexed by a per-user set that enforces the
// concurrent-session cap. Expiry is double-checked at read time, so a record
// whose Redis TTL lags its absolute expiry is destroyed lazily and never
// served.
//
// Lookups that find nothing return (nil, nil); an error always means the
// backing store misbehaved, never an ordinary miss.
//
// The package also carries the activity suspicion heuristic: each recorded
// request is compared against the device binding captured at creation, and
// mismatches are surfaced to the caller without revoking anything.
package session
