package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carelink/authcore"
	"github.com/carelink/authcore/rbac"
	"github.com/carelink/authcore/token"
)

// Gate authenticates requests against the engine's token service and
// produces the authorization guards. One Gate serves all routes.
type Gate struct {
	engine *authcore.Engine
}

func NewGate(engine *authcore.Engine) *Gate {
	return &Gate{engine: engine}
}

type identityContextKey struct{}

// IdentityFromContext returns the authenticated identity attached by
// Authenticate or OptionalAuthenticate.
func IdentityFromContext(ctx context.Context) (token.Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(token.Identity)
	return id, ok
}

func withIdentity(ctx context.Context, id token.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// Denial codes produced by the gate itself; the authorization guards reuse
// the rbac package's reason codes.
const (
	CodeNoToken             = "NO_TOKEN"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeTokenExpired        = "TOKEN_EXPIRED"
	CodeMFARequired         = "MFA_REQUIRED"
	CodeAffiliationRequired = "AFFILIATION_REQUIRED"
)

type denialBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Authenticate verifies the bearer token and attaches the identity to the
// request context. Missing or failed tokens deny with a stable code;
// internal detail never reaches the response body.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, code, message := g.authenticate(r)
		if code != "" {
			g.deny(r, w, http.StatusUnauthorized, code, message, "", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
	})
}

// OptionalAuthenticate attaches the identity when a valid token is present
// and proceeds anonymously otherwise. Failures are logged for audit but
// never denied.
func (g *Gate) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, code, _ := g.authenticate(r)
		if code != "" {
			if code != CodeNoToken {
				logger := g.engine.Logger()
				logger.Debug().
					Str("code", code).
					Str("path", r.URL.Path).
					Msg("optional authentication failed")
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
	})
}

func (g *Gate) authenticate(r *http.Request) (token.Identity, string, string) {
	raw, ok := token.FromHeader(r.Header.Get("Authorization"))
	if !ok {
		return token.Identity{}, CodeNoToken, "authentication token is required"
	}

	claims, err := g.engine.VerifyAccess(raw)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return token.Identity{}, CodeTokenExpired, "authentication token has expired"
		}
		return token.Identity{}, CodeInvalidToken, "authentication token is invalid"
	}
	return claims.Identity(), "", ""
}

// RequireMFA composes after Authenticate and denies unless the verified
// token carries the MFA-verified flag.
func (g *Gate) RequireMFA(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			g.deny(r, w, http.StatusUnauthorized, string(rbac.ReasonNoAuth), "authentication required", "", nil)
			return
		}
		if !identity.MFAVerified {
			g.deny(r, w, http.StatusForbidden, CodeMFARequired, "multi-factor verification is required", "mfa_verified", &identity)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAffiliation denies unless the identity carries a tenant
// affiliation, for routes scoped to a pharmacy or clinic.
func (g *Gate) RequireAffiliation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			g.deny(r, w, http.StatusUnauthorized, string(rbac.ReasonNoAuth), "authentication required", "", nil)
			return
		}
		if identity.TenantID == "" {
			g.deny(r, w, http.StatusForbidden, CodeAffiliationRequired, "a tenant affiliation is required", "tenant_affiliation", &identity)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *Gate) deny(r *http.Request, w http.ResponseWriter, status int, code, message, required string, identity *token.Identity) {
	g.engine.ObserveDenial(code)

	event := authcore.NewAuditEvent("request.denied", authcore.OutcomeDenied)
	event.NetworkOrigin = r.RemoteAddr
	event.Detail = map[string]string{
		"code":   code,
		"path":   r.URL.Path,
		"method": r.Method,
	}
	if required != "" {
		event.Detail["required"] = required
	}
	if identity != nil {
		event.ActorID = identity.UserID
		event.Role = identity.Role
		event.TenantID = identity.TenantID
	}
	g.engine.Audit(r.Context(), event)

	writeDenial(w, status, code, message)
}

func (g *Gate) grant(r *http.Request, identity token.Identity, detail map[string]string) {
	event := authcore.NewAuditEvent("request.elevated_grant", authcore.OutcomeSuccess)
	event.ActorID = identity.UserID
	event.Role = identity.Role
	event.TenantID = identity.TenantID
	event.NetworkOrigin = r.RemoteAddr
	event.Detail = detail
	g.engine.Audit(r.Context(), event)
}

func writeDenial(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(denialBody{Code: code, Message: message})
}
