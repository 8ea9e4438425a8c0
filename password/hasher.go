package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredential is returned by Hash when the plaintext fails the
// policy check.
var ErrInvalidCredential = errors.New("credential does not meet password policy")

// ErrHashingFailed wraps failures from the underlying hash primitive.
var ErrHashingFailed = errors.New("credential hashing failed")

// Hasher produces and verifies bcrypt credential hashes at a configured
// work factor. Hashing is deliberately CPU-expensive; callers should keep
// it off latency-sensitive paths.
type Hasher struct {
	cost   int
	policy *Policy
}

// NewHasher constructs a Hasher at the given bcrypt cost. policy, when
// non-nil, is re-checked on every Hash call so non-compliant plaintexts
// can never reach storage. Costs outside bcrypt's supported range are an
// error rather than silently clamped.
func NewHasher(cost int, policy *Policy) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Hasher{cost: cost, policy: policy}, nil
}

// Hash validates password against the policy and returns its salted bcrypt
// hash with the cost factor embedded in the output.
func (h *Hasher) Hash(password string) (string, error) {
	return h.HashInContext(password, nil)
}

// HashInContext is Hash with per-user validation context (email, name,
// credential history).
func (h *Hasher) HashInContext(password string, ctx *Context) (string, error) {
	if h.policy != nil {
		if result := h.policy.Validate(password, ctx); !result.Valid {
			return "", fmt.Errorf("%w: %s", ErrInvalidCredential, result.Errors[0])
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashingFailed, err)
	}
	return string(hash), nil
}

// Compare reports whether password matches hash. It returns false, never an
// error, for an empty password or empty hash. Mismatch position timing is
// delegated to bcrypt's constant-time verification.
func (h *Hasher) Compare(password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NeedsRehash reports whether hash should be regenerated: true when its
// embedded cost factor is below the configured cost, and true for an
// unparseable hash (treat as needing upgrade).
func (h *Hasher) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return true
	}
	return cost < h.cost
}

// Cost returns the configured work factor.
func (h *Hasher) Cost() int {
	return h.cost
}
