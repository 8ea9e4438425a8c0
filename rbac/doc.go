// Package rbac implements role-based authorization over a static
// role-permission matrix.
//
// The role set and the matrix are closed: both are compiled into the
// binary, loaded once at package init, and treated as read-only for the
// life of the process. Adding a role or permission is a data change in
// matrix.go, not a logic change.
//
// All checks are pure in-process lookups with no I/O and no shared mutable
// state; they are safe to run fully in parallel across requests.
package rbac
