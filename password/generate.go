package password

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	upperChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars = "abcdefghijklmnopqrstuvwxyz"
	digitChars = "0123456789"

	// A collision with the common-password list is astronomically unlikely
	// for random output; the cap guards against a pathological policy
	// configuration rather than expected behavior.
	maxGenerateAttempts = 8
)

// ErrGenerateExhausted is returned when GenerateCompliant cannot produce a
// policy-compliant password within the attempt cap.
var ErrGenerateExhausted = errors.New("password generation attempts exhausted")

// GenerateCompliant produces a random password of the given length that is
// guaranteed to contain at least one character of each required class.
// length values below the policy minimum are raised to it.
func (p *Policy) GenerateCompliant(length int) (string, error) {
	if length < p.config.MinLength {
		length = p.config.MinLength
	}
	if length > p.config.MaxLength {
		length = p.config.MaxLength
	}

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		candidate, err := generateOnce(length)
		if err != nil {
			return "", err
		}
		if !matchesCommonPassword(candidate) {
			return candidate, nil
		}
	}
	return "", ErrGenerateExhausted
}

func generateOnce(length int) (string, error) {
	all := upperChars + lowerChars + digitChars + specialSymbols

	// One guaranteed pick per class, random fill for the remainder, then a
	// shuffle so class positions are not predictable.
	out := make([]byte, 0, length)
	for _, set := range []string{upperChars, lowerChars, digitChars, specialSymbols} {
		c, err := randomByte(set)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	for len(out) < length {
		c, err := randomByte(all)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}

	if err := shuffle(out); err != nil {
		return "", err
	}
	return string(out), nil
}

func randomByte(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[n.Int64()], nil
}

// shuffle is a Fisher-Yates shuffle driven by crypto/rand.
func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return err
		}
		j := n.Int64()
		b[i], b[j] = b[j], b[i]
	}
	return nil
}
