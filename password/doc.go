// Package password implements the credential policy engine and the one-way
// credential hasher.
//
// # Output format
//
// Hashes are standard bcrypt strings:
//
//	$2a$<cost>$<salt+hash>
//
// The [Hasher] supports transparent work-factor upgrades: if the stored hash
// was produced at a lower cost than currently configured,
// [Hasher.NeedsRehash] returns true so the caller can re-hash on the next
// successful login.
//
// # Architecture boundaries
//
// The policy side ([Policy.Validate], [Estimate], [Policy.GenerateCompliant])
// is pure computation over the configured policy: validation never returns
// an error, it returns a structured result the caller branches on.
//
// # What this package must NOT do
//
//   - Store or retrieve credentials — callers supply plaintext and receive hashes.
//   - Compare plaintext against history entries — reuse checks go through
//     the hasher's constant-time verification.
//   - Log plaintext passwords at runtime.
package password
