package authcore

import (
	"errors"
	"time"

	"github.com/carelink/authcore/rbac"
)

// Config carries every tunable of the security core. Instances are
// configured during initialization and treated as immutable afterwards.
type Config struct {
	Token    TokenConfig
	Password PasswordConfig
	MFA      MFAConfig
	Session  SessionConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig controls JWT issuance. Access and refresh tokens are signed
// with separate secrets so one kind can never pass for the other.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Audience      string
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig controls the credential hasher and the policy engine.
type PasswordConfig struct {
	Cost         int
	MinLength    int
	MaxLength    int
	HistoryLimit int
}

/*
====================================
MFA CONFIG
====================================
*/

// MFAConfig controls TOTP enrollment and verification.
type MFAConfig struct {
	Issuer           string
	Period           uint
	Skew             uint
	SecretSize       uint
	QRSize           int
	BackupCodeCount  int
	BackupCodeLength int
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls the distributed session store.
type SessionConfig struct {
	Prefix        string
	MaxConcurrent int
	// Lifetimes overrides the built-in role lifetime table when non-nil.
	Lifetimes map[rbac.Role]time.Duration
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls the Prometheus collectors.
type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

/*
====================================
SECURITY CONFIG
====================================
*/

// SecurityConfig carries the hardening posture. StrictMode is meant for
// production and turns weak-configuration warnings into build failures.
type SecurityConfig struct {
	StrictMode      bool
	MinSecretLength int
}

/*
====================================
LOGGING CONFIG
====================================
*/

// LoggingConfig controls the zerolog output of the engine.
type LoggingConfig struct {
	Level string // debug, info, warn, error
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL:  time.Hour,
			RefreshTTL: 7 * 24 * time.Hour,
			Issuer:     "carelink-auth",
			Audience:   "carelink-api",
		},
		Password: PasswordConfig{
			Cost:         10,
			MinLength:    12,
			MaxLength:    128,
			HistoryLimit: 5,
		},
		MFA: MFAConfig{
			Issuer:           "CareLink",
			Period:           30,
			Skew:             1,
			SecretSize:       32,
			QRSize:           200,
			BackupCodeCount:  10,
			BackupCodeLength: 8,
		},
		Session: SessionConfig{
			Prefix:        "authcore",
			MaxConcurrent: 3,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:   false,
			Namespace: "authcore",
		},
		Security: SecurityConfig{
			StrictMode:      false,
			MinSecretLength: 32,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks the configuration for values that cannot work. Under
// StrictMode it additionally rejects values that work but are unsafe for
// production, such as short signing secrets or a trivial bcrypt cost.
func (c *Config) Validate() error {
	if c.Token.AccessSecret == "" {
		return errors.New("config: token access secret required")
	}
	if c.Token.RefreshSecret == "" {
		return errors.New("config: token refresh secret required")
	}
	if c.Token.AccessSecret == c.Token.RefreshSecret {
		return errors.New("config: access and refresh secrets must differ")
	}
	if c.Token.AccessTTL <= 0 || c.Token.RefreshTTL <= 0 {
		return errors.New("config: token TTLs must be positive")
	}
	if c.Token.RefreshTTL <= c.Token.AccessTTL {
		return errors.New("config: refresh TTL must exceed access TTL")
	}
	if c.Password.MinLength <= 0 || c.Password.MaxLength < c.Password.MinLength {
		return errors.New("config: password length bounds invalid")
	}
	if c.Session.MaxConcurrent <= 0 {
		return errors.New("config: session concurrency cap must be positive")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("config: audit buffer size must be positive")
	}

	if c.Security.StrictMode {
		minSecret := c.Security.MinSecretLength
		if minSecret <= 0 {
			minSecret = 32
		}
		if len(c.Token.AccessSecret) < minSecret || len(c.Token.RefreshSecret) < minSecret {
			return errors.New("config: strict mode requires longer signing secrets")
		}
		if c.Password.Cost < 10 {
			return errors.New("config: strict mode requires bcrypt cost >= 10")
		}
		if c.Token.AccessTTL > time.Hour {
			return errors.New("config: strict mode caps access TTL at one hour")
		}
	}

	return nil
}
