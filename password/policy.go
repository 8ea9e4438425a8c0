package password

import (
	"fmt"
	"strings"
	"unicode"
)

const specialSymbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?~` + "`"

// Config defines the password policy parameters. The zero value is not
// usable; construct through DefaultConfig and override fields as needed.
type Config struct {
	MinLength    int
	MaxLength    int
	HistoryLimit int
}

// DefaultConfig returns the platform policy defaults.
func DefaultConfig() Config {
	return Config{
		MinLength:    12,
		MaxLength:    128,
		HistoryLimit: 5,
	}
}

// Context supplies optional per-user data for validation. Email and Name
// reject passwords containing obvious personal identifiers; PriorHashes
// enables the reuse check against the credential history.
type Context struct {
	Email       string
	Name        string
	PriorHashes []string
}

// ValidationResult is the structured outcome of Validate. Validation never
// fails with an error: every violated rule contributes one entry to Errors.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Policy enforces the credential policy. A Policy is immutable after
// construction and safe for concurrent use.
type Policy struct {
	config  Config
	compare func(password, hash string) bool
}

// NewPolicy constructs a Policy. compare is the hasher's verification
// routine, used for the history reuse check; it may be nil when history
// checking is not needed.
func NewPolicy(cfg Config, compare func(password, hash string) bool) *Policy {
	if cfg.MinLength <= 0 {
		cfg.MinLength = 12
	}
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = 128
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 5
	}
	return &Policy{config: cfg, compare: compare}
}

// Validate checks password against the policy. ctx may be nil.
func (p *Policy) Validate(password string, ctx *Context) ValidationResult {
	var errs []string

	if len(password) < p.config.MinLength {
		errs = append(errs, fmt.Sprintf("password must be at least %d characters long", p.config.MinLength))
	}
	if len(password) > p.config.MaxLength {
		errs = append(errs, fmt.Sprintf("password must be at most %d characters long", p.config.MaxLength))
	}

	classes := classify(password)
	if !classes.upper {
		errs = append(errs, "password must contain at least one uppercase letter")
	}
	if !classes.lower {
		errs = append(errs, "password must contain at least one lowercase letter")
	}
	if !classes.digit {
		errs = append(errs, "password must contain at least one digit")
	}
	if !classes.special {
		errs = append(errs, "password must contain at least one special character")
	}

	if matchesCommonPassword(password) {
		errs = append(errs, "password is too common")
	}

	if ctx != nil {
		lower := strings.ToLower(password)
		if local := emailLocalPart(ctx.Email); local != "" && strings.Contains(lower, strings.ToLower(local)) {
			errs = append(errs, "password must not contain your email address")
		}
		if ctx.Name != "" && strings.Contains(lower, strings.ToLower(ctx.Name)) {
			errs = append(errs, "password must not contain your name")
		}
		if p.compare != nil {
			limit := p.config.HistoryLimit
			if limit > len(ctx.PriorHashes) {
				limit = len(ctx.PriorHashes)
			}
			for _, hash := range ctx.PriorHashes[:limit] {
				if p.compare(password, hash) {
					errs = append(errs, fmt.Sprintf("password must not match any of your last %d passwords", p.config.HistoryLimit))
					break
				}
			}
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// History is an ordered, most-recent-first list of prior credential hashes.
type History []string

// Push prepends hash and evicts entries beyond limit. The receiver is not
// mutated; callers persist the returned slice.
func (h History) Push(hash string, limit int) History {
	if limit <= 0 {
		limit = DefaultConfig().HistoryLimit
	}
	out := make(History, 0, limit)
	out = append(out, hash)
	for _, prior := range h {
		if len(out) == limit {
			break
		}
		out = append(out, prior)
	}
	return out
}

type charClasses struct {
	upper, lower, digit, special bool
}

func classify(password string) charClasses {
	var c charClasses
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			c.upper = true
		case unicode.IsLower(r):
			c.lower = true
		case unicode.IsDigit(r):
			c.digit = true
		case strings.ContainsRune(specialSymbols, r):
			c.special = true
		}
	}
	return c
}

func (c charClasses) count() int {
	n := 0
	for _, set := range []bool{c.upper, c.lower, c.digit, c.special} {
		if set {
			n++
		}
	}
	return n
}

func matchesCommonPassword(password string) bool {
	lower := strings.ToLower(password)
	for _, common := range commonPasswords {
		if lower == common || strings.Contains(lower, common) {
			return true
		}
	}
	return false
}

func emailLocalPart(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return ""
	}
	return email[:at]
}
