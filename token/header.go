package token

import "strings"

// FromHeader extracts the bearer token from an Authorization header value.
// Only the exact two-part "Bearer <token>" form is accepted; anything else
// returns ok=false, never an error.
func FromHeader(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// ValidStructure is a cheap pre-check that tokenStr looks like a JWT:
// exactly three dot-separated segments of base64url characters. It proves
// nothing about the signature; use it to reject garbage before paying for
// cryptographic verification.
func ValidStructure(tokenStr string) bool {
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		return false
	}
	for _, part := range parts {
		if part == "" || !base64urlCharset(part) {
			return false
		}
	}
	return true
}

func base64urlCharset(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_' || c == '=':
		default:
			return false
		}
	}
	return true
}
