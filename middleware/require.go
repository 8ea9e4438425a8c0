package middleware

import (
	"net/http"
	"strings"

	"github.com/carelink/authcore/rbac"
	"github.com/carelink/authcore/token"
)

// RequireRole permits only identities whose role is in allowed.
func (g *Gate) RequireRole(allowed ...rbac.Role) func(http.Handler) http.Handler {
	return g.decide("role:"+roleNames(allowed), func(id token.Identity) rbac.Decision {
		return rbac.CheckRole(id.Role, allowed)
	})
}

// RequirePermission permits only roles holding perm in the matrix.
func (g *Gate) RequirePermission(perm rbac.Permission) func(http.Handler) http.Handler {
	return g.decide("permission:"+string(perm), func(id token.Identity) rbac.Decision {
		return rbac.CheckPermission(id.Role, perm)
	})
}

// RequireAllPermissions permits only roles holding every listed permission.
func (g *Gate) RequireAllPermissions(perms ...rbac.Permission) func(http.Handler) http.Handler {
	return g.decide("all_permissions:"+permissionNames(perms), func(id token.Identity) rbac.Decision {
		return rbac.CheckAllPermissions(id.Role, perms)
	})
}

// RequireAnyPermission permits roles holding at least one listed permission.
func (g *Gate) RequireAnyPermission(perms ...rbac.Permission) func(http.Handler) http.Handler {
	return g.decide("any_permission:"+permissionNames(perms), func(id token.Identity) rbac.Decision {
		return rbac.CheckAnyPermission(id.Role, perms)
	})
}

// decide builds a guard around check. required names the role or
// permission the guard enforces; it rides along on both the denial and
// the elevated-grant audit events.
func (g *Gate) decide(required string, check func(token.Identity) rbac.Decision) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				g.deny(r, w, http.StatusUnauthorized, string(rbac.ReasonNoAuth), "authentication required", required, nil)
				return
			}

			decision := check(identity)
			if !decision.Allowed {
				g.deny(r, w, http.StatusForbidden, string(decision.Reason), decision.Message, required, &identity)
				return
			}

			// Passing a privilege gate is part of the audit trail, same as
			// failing one.
			g.grant(r, identity, map[string]string{
				"path":     r.URL.Path,
				"method":   r.Method,
				"required": required,
			})

			next.ServeHTTP(w, r)
		})
	}
}

func roleNames(roles []rbac.Role) string {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	return strings.Join(names, ",")
}

func permissionNames(perms []rbac.Permission) string {
	names := make([]string, len(perms))
	for i, perm := range perms {
		names[i] = string(perm)
	}
	return strings.Join(names, ",")
}
