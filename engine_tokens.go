package authcore

import (
	"errors"

	"github.com/carelink/authcore/token"
)

// VerifyAccess checks an access token and returns its claims. Failures are
// counted by reason for the metrics endpoint.
func (e *Engine) VerifyAccess(tokenStr string) (*token.Claims, error) {
	claims, err := e.tokens.VerifyAccess(tokenStr)
	if err != nil {
		e.metrics.tokenFailure(tokenFailureReason(err))
		return nil, err
	}
	return claims, nil
}

// RefreshTokens exchanges a valid refresh token for a wholly new pair. The
// old refresh token's remaining lifetime does not carry over.
func (e *Engine) RefreshTokens(refreshToken string) (token.Pair, error) {
	pair, err := e.tokens.Refresh(refreshToken)
	if err != nil {
		e.metrics.tokenFailure(tokenFailureReason(err))
		return token.Pair{}, err
	}
	return pair, nil
}

func tokenFailureReason(err error) string {
	switch {
	case errors.Is(err, token.ErrExpired):
		return "expired"
	case errors.Is(err, token.ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, token.ErrMissing):
		return "missing"
	default:
		return "invalid"
	}
}
