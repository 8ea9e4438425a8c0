package test

import (
	"context"
	"net/http"
	"testing"

	"github.com/carelink/authcore"
	"github.com/carelink/authcore/middleware"
	"github.com/carelink/authcore/rbac"
	"github.com/carelink/authcore/session"
	"github.com/carelink/authcore/token"
)

// This test intentionally guards public API compile-compat for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = authcore.New

	var _ *authcore.Engine
	var _ authcore.Config
	var _ authcore.LoginRequest
	var _ authcore.LoginResult
	var _ authcore.UserRecord
	var _ authcore.UserStore
	var _ authcore.AuditSink
	var _ authcore.AuditEvent

	var _ error = authcore.ErrInvalidCredentials
	var _ error = authcore.ErrUserNotFound
	var _ error = authcore.ErrAccountInactive
	var _ error = authcore.ErrMFARequired
	var _ error = authcore.ErrMFAInvalid
	var _ error = authcore.ErrMFANotEnrolled
	var _ error = authcore.ErrPasswordPolicy
	var _ error = authcore.ErrSessionNotFound
	var _ error = authcore.ErrStoreUnavailable

	var _ error = token.ErrExpired
	var _ error = token.ErrTypeMismatch
	var _ error = token.ErrInvalid
	var _ error = token.ErrMissing

	var _ func(*middleware.Gate, http.Handler) http.Handler = (*middleware.Gate).Authenticate
	var _ func(*middleware.Gate, http.Handler) http.Handler = (*middleware.Gate).OptionalAuthenticate
	var _ func(*middleware.Gate, http.Handler) http.Handler = (*middleware.Gate).RequireMFA
	var _ func(*middleware.Gate, http.Handler) http.Handler = (*middleware.Gate).RequireAffiliation
	var _ func(*middleware.Gate, ...rbac.Role) func(http.Handler) http.Handler = (*middleware.Gate).RequireRole
	var _ func(*middleware.Gate, rbac.Permission) func(http.Handler) http.Handler = (*middleware.Gate).RequirePermission

	var _ func(*authcore.Engine, context.Context, authcore.LoginRequest) (*authcore.LoginResult, error) = (*authcore.Engine).Login
	var _ func(*authcore.Engine, context.Context, string) error = (*authcore.Engine).Logout
	var _ func(*authcore.Engine, context.Context, string) (int, error) = (*authcore.Engine).LogoutAll
	var _ func(*authcore.Engine, string) (*token.Claims, error) = (*authcore.Engine).VerifyAccess
	var _ func(*authcore.Engine, string) (token.Pair, error) = (*authcore.Engine).RefreshTokens
	var _ func(*authcore.Engine, context.Context, string) (*session.Session, error) = (*authcore.Engine).GetSession
	var _ func(*authcore.Engine, context.Context, string, session.Activity) (*session.ActivityResult, error) = (*authcore.Engine).TouchSession
	var _ func(*authcore.Engine, context.Context, string, string) error = (*authcore.Engine).SetPassword
	var _ func(*authcore.Engine, context.Context, string, string, string) error = (*authcore.Engine).ChangePassword
}
