package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/carelink/authcore/rbac"
)

// Kind discriminates access from refresh tokens inside the claim set.
type Kind string

const (
	// KindAccess marks short-lived bearer tokens.
	KindAccess Kind = "access"
	// KindRefresh marks long-lived tokens accepted only by Refresh.
	KindRefresh Kind = "refresh"
)

var (
	// ErrExpired is returned for a structurally valid token past its expiry.
	ErrExpired = errors.New("token expired")
	// ErrTypeMismatch is returned when a valid token of one kind is
	// presented where the other kind is required.
	ErrTypeMismatch = errors.New("token type mismatch")
	// ErrInvalid covers malformed tokens and bad signatures.
	ErrInvalid = errors.New("invalid token")
	// ErrMissing is returned when no token was supplied at all.
	ErrMissing = errors.New("token missing")
)

// Identity is the principal context embedded into every issued token.
type Identity struct {
	UserID      string
	Email       string
	Role        rbac.Role
	TenantID    string
	MFAVerified bool
}

// Claims is the signed claim set. Subject carries the user ID; TenantID is
// empty for principals without a tenant affiliation.
type Claims struct {
	Email       string `json:"email,omitempty"`
	Role        string `json:"role"`
	TenantID    string `json:"tenant,omitempty"`
	Kind        Kind   `json:"typ"`
	MFAVerified bool   `json:"mfa,omitempty"`
	jwt.RegisteredClaims
}

// Identity reconstructs the Identity carried by the claims.
func (c *Claims) Identity() Identity {
	return Identity{
		UserID:      c.Subject,
		Email:       c.Email,
		Role:        rbac.Role(c.Role),
		TenantID:    c.TenantID,
		MFAVerified: c.MFAVerified,
	}
}

// Config holds the signing material and token parameters. Access and
// refresh tokens are signed with distinct secrets so a refresh token can
// never verify as an access token even with a forged discriminator.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Audience      string
}

// Manager issues and verifies the platform's access and refresh tokens.
// A Manager is immutable after construction and safe for concurrent use.
type Manager struct {
	config Config
	now    func() time.Time
}

// NewManager validates cfg and constructs a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.AccessSecret) == 0 {
		return nil, errors.New("access signing secret is required")
	}
	if len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("refresh signing secret is required")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token TTLs must be > 0")
	}
	if cfg.Issuer == "" {
		return nil, errors.New("token issuer is required")
	}
	return &Manager{config: cfg, now: time.Now}, nil
}

// Pair bundles a freshly issued access and refresh token. ExpiresIn is the
// access token lifetime in seconds, for transport to clients.
type Pair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// IssueAccess signs a new access token for id.
func (m *Manager) IssueAccess(id Identity) (string, error) {
	return m.issue(id, KindAccess)
}

// IssueRefresh signs a new refresh token for id.
func (m *Manager) IssueRefresh(id Identity) (string, error) {
	return m.issue(id, KindRefresh)
}

// IssuePair signs a fresh access and refresh token for id.
func (m *Manager) IssuePair(id Identity) (Pair, error) {
	access, err := m.IssueAccess(id)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := m.IssueRefresh(id)
	if err != nil {
		return Pair{}, err
	}
	return Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.config.AccessTTL.Seconds()),
	}, nil
}

func (m *Manager) issue(id Identity, kind Kind) (string, error) {
	now := m.now()
	ttl := m.config.AccessTTL
	secret := m.config.AccessSecret
	if kind == KindRefresh {
		ttl = m.config.RefreshTTL
		secret = m.config.RefreshSecret
	}

	claims := Claims{
		Email:       id.Email,
		Role:        string(id.Role),
		TenantID:    id.TenantID,
		Kind:        kind,
		MFAVerified: id.MFAVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    m.config.Issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if m.config.Audience != "" {
		claims.Audience = jwt.ClaimStrings{m.config.Audience}
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyAccess verifies tokenStr as an access token: signature, issuer,
// audience, expiry, and the kind discriminator.
func (m *Manager) VerifyAccess(tokenStr string) (*Claims, error) {
	return m.verify(tokenStr, KindAccess)
}

// VerifyRefresh verifies tokenStr as a refresh token.
func (m *Manager) VerifyRefresh(tokenStr string) (*Claims, error) {
	return m.verify(tokenStr, KindRefresh)
}

func (m *Manager) verify(tokenStr string, kind Kind) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrMissing
	}

	secret, other := m.config.AccessSecret, m.config.RefreshSecret
	otherKind := KindRefresh
	if kind == KindRefresh {
		secret, other = m.config.RefreshSecret, m.config.AccessSecret
		otherKind = KindAccess
	}

	claims, err := m.parse(tokenStr, secret)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			// A genuine token of the other kind carries the other secret's
			// signature; distinguish it so callers can surface a precise
			// message instead of a generic verification failure.
			if otherClaims, otherErr := m.parse(tokenStr, other); otherErr == nil && otherClaims.Kind == otherKind {
				return nil, ErrTypeMismatch
			}
			return nil, ErrInvalid
		default:
			return nil, ErrInvalid
		}
	}

	if claims.Kind != kind {
		return nil, ErrTypeMismatch
	}
	return claims, nil
}

func (m *Manager) parse(tokenStr string, secret []byte) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.config.Audience != "" {
		options = append(options, jwt.WithAudience(m.config.Audience))
	}

	parsed, err := jwt.NewParser(options...).ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// Refresh verifies refreshToken and mints a wholly new access+refresh pair
// for the same identity. The old pair is not renewed in place; revocation
// of outstanding sessions is the session store's concern.
func (m *Manager) Refresh(refreshToken string) (Pair, error) {
	claims, err := m.VerifyRefresh(refreshToken)
	if err != nil {
		return Pair{}, err
	}
	return m.IssuePair(claims.Identity())
}

// AccessTTL returns the configured access token lifetime.
func (m *Manager) AccessTTL() time.Duration {
	return m.config.AccessTTL
}
