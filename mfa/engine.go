package mfa

import (
	"bytes"
	"image/png"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/carelink/authcore/rbac"
)

// Config holds the TOTP and backup-code parameters. Zero fields fall back
// to the defaults applied by NewEngine.
type Config struct {
	Issuer           string
	Period           uint
	Skew             uint
	SecretSize       uint
	QRSize           int
	BackupCodeCount  int
	BackupCodeLength int
}

// Engine implements TOTP enrollment and verification plus the backup-code
// lifecycle. An Engine is immutable after construction and safe for
// concurrent use; verification is a pure computation over the stored
// secret and the wall clock.
type Engine struct {
	config Config
	now    func() time.Time
}

// NewEngine constructs an Engine, filling unset config fields with the
// platform defaults (30s period, ±1 step drift, 32-byte secrets, 10 backup
// codes of 8 characters).
func NewEngine(cfg Config) *Engine {
	if cfg.Issuer == "" {
		cfg.Issuer = "CareLink"
	}
	if cfg.Period == 0 {
		cfg.Period = 30
	}
	if cfg.SecretSize == 0 {
		cfg.SecretSize = 32
	}
	if cfg.QRSize == 0 {
		cfg.QRSize = 200
	}
	if cfg.BackupCodeCount == 0 {
		cfg.BackupCodeCount = 10
	}
	if cfg.BackupCodeLength == 0 {
		cfg.BackupCodeLength = 8
	}
	if cfg.Skew == 0 {
		cfg.Skew = 1
	}
	return &Engine{config: cfg, now: time.Now}
}

// Enrollment is the artifact bundle produced by Enroll. The secret is
// base32 for compatibility with standard authenticator apps; QRCode is a
// PNG rendering of the provisioning URI. Persistence of all three is the
// caller's responsibility.
type Enrollment struct {
	Secret          string
	ProvisioningURI string
	QRCode          []byte
	BackupCodes     []string
}

// Enroll generates a fresh random secret for account, the otpauth://
// provisioning URI embedding the configured issuer, its QR rendering, and
// a full set of backup codes. Enrollment is not final until the user
// proves possession of a working authenticator via CompleteEnrollment.
func (e *Engine) Enroll(account string) (*Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      e.config.Issuer,
		AccountName: account,
		Period:      e.config.Period,
		SecretSize:  e.config.SecretSize,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, err
	}

	img, err := key.Image(e.config.QRSize, e.config.QRSize)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	codes, err := GenerateBackupCodes(e.config.BackupCodeCount, e.config.BackupCodeLength)
	if err != nil {
		return nil, err
	}

	return &Enrollment{
		Secret:          key.Secret(),
		ProvisioningURI: key.URL(),
		QRCode:          buf.Bytes(),
		BackupCodes:     codes,
	}, nil
}

// VerifyResult is the structured outcome of a code check. Verification
// failures are results, not errors; rate-limiting repeated attempts is an
// upstream concern.
type VerifyResult struct {
	Valid   bool
	Message string
}

// VerifyCode checks a 6-digit code against secret for the current time
// step plus the configured drift window. A missing secret or code fails
// immediately without computing anything.
func (e *Engine) VerifyCode(secret, code string) VerifyResult {
	if secret == "" {
		return VerifyResult{Message: "no MFA secret is configured"}
	}
	if code == "" {
		return VerifyResult{Message: "verification code is required"}
	}

	valid, err := totp.ValidateCustom(code, secret, e.now().UTC(), totp.ValidateOpts{
		Period:    e.config.Period,
		Skew:      e.config.Skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil || !valid {
		return VerifyResult{Message: "invalid verification code"}
	}
	return VerifyResult{Valid: true, Message: "code verified"}
}

// CompleteEnrollment reports whether the just-generated secret should be
// activated: the user must supply one valid current code, which defends
// against typos and misscanned QR codes during setup.
func (e *Engine) CompleteEnrollment(secret, code string) bool {
	return e.VerifyCode(secret, code).Valid
}

// CurrentCode computes the code for the current time step. Intended for
// enrollment tooling and tests, not for verification paths.
func (e *Engine) CurrentCode(secret string) (string, error) {
	return totp.GenerateCodeCustom(secret, e.now().UTC(), totp.ValidateOpts{
		Period:    e.config.Period,
		Skew:      e.config.Skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
}

// RequiredForRole reports whether MFA enrollment is mandatory for role.
// The rule is fixed: required for the healthcare-professional class, not
// required for patients or delivery staff.
func RequiredForRole(role rbac.Role) bool {
	return role.Professional()
}

// TimeRemaining returns the seconds until the current code rotates.
func (e *Engine) TimeRemaining() int {
	period := int64(e.config.Period)
	return int(period - e.now().Unix()%period)
}
