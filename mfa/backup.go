package mfa

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// GenerateBackupCodes produces count single-use recovery codes of the
// given length, uppercase alphanumeric, from crypto/rand. Each code is
// assembled from base32-encoded random bytes with non-alphanumeric
// characters stripped, then length-checked, so short reads can never
// produce a truncated code.
func GenerateBackupCodes(count, length int) ([]string, error) {
	if count <= 0 {
		count = 10
	}
	if length <= 0 {
		length = 8
	}

	codes := make([]string, 0, count)
	for len(codes) < count {
		code, err := randomCode(length)
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, nil
}

func randomCode(length int) (string, error) {
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	var out strings.Builder
	for out.Len() < length {
		raw := make([]byte, length)
		if _, err := rand.Read(raw); err != nil {
			return "", err
		}
		for _, c := range enc.EncodeToString(raw) {
			if out.Len() == length {
				break
			}
			if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
				out.WriteRune(c)
			}
		}
	}
	return out.String(), nil
}

// BackupVerifyResult is the outcome of VerifyBackupCode. On success,
// Remaining is the stored list with exactly the matched entry removed;
// persisting it (and thereby consuming the code) is the caller's
// responsibility. On failure, Remaining is the stored list unchanged.
type BackupVerifyResult struct {
	Valid     bool
	Message   string
	Remaining []string
}

// VerifyBackupCode checks submitted against the stored codes. Both sides
// are normalized (whitespace stripped, uppercased) before the exact-match
// lookup, so codes survive being read over the phone.
func VerifyBackupCode(codes []string, submitted string) BackupVerifyResult {
	normalized := normalizeCode(submitted)
	if normalized == "" {
		return BackupVerifyResult{Message: "backup code is required", Remaining: codes}
	}

	for i, stored := range codes {
		if normalizeCode(stored) == normalized {
			remaining := make([]string, 0, len(codes)-1)
			remaining = append(remaining, codes[:i]...)
			remaining = append(remaining, codes[i+1:]...)
			return BackupVerifyResult{Valid: true, Message: "backup code accepted", Remaining: remaining}
		}
	}
	return BackupVerifyResult{Message: "invalid backup code", Remaining: codes}
}

// RegenerateBackupCodes produces an entirely new set. Callers must replace
// any stored set with the result: regeneration invalidates every
// previously issued code.
func (e *Engine) RegenerateBackupCodes() ([]string, error) {
	return GenerateBackupCodes(e.config.BackupCodeCount, e.config.BackupCodeLength)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(code), ""))
}
