// Package internal contains helper utilities that are intentionally private to
// authcore, such as secure random session identifier generation.
//
// Nothing in this package is part of the public API and it must not be imported
// outside the authcore module.
package internal
