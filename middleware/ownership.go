package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carelink/authcore/rbac"
)

// maxOwnerBodyBytes caps how much of a request body the ownership guard
// will read looking for the owner field.
const maxOwnerBodyBytes = 1 << 20

// RequireOwnershipOrRole permits the request when the identity's role is
// in allowed, or when the identity's user ID equals the value of
// ownerField resolved from the route parameters (falling back to a JSON
// body field of the same name). A request that carries neither is a bad
// request, distinct from an ownership mismatch.
//
// Elevated grants, where a privileged role accesses another user's
// resource, are audited.
func (g *Gate) RequireOwnershipOrRole(ownerField string, allowed ...rbac.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		required := "ownership:" + ownerField
		if len(allowed) > 0 {
			required += " role:" + roleNames(allowed)
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				g.deny(r, w, http.StatusUnauthorized, string(rbac.ReasonNoAuth), "authentication required", required, nil)
				return
			}

			ownerID := chi.URLParam(r, ownerField)
			if ownerID == "" {
				ownerID = ownerFromBody(r, ownerField)
			}

			decision := rbac.CheckOwnershipOrRole(identity.UserID, identity.Role, allowed, ownerID)
			if !decision.Allowed {
				status := http.StatusForbidden
				if decision.Reason == rbac.ReasonMissingOwnerField {
					status = http.StatusBadRequest
				}
				g.deny(r, w, status, string(decision.Reason), decision.Message, required, &identity)
				return
			}

			if ownerID != identity.UserID {
				g.grant(r, identity, map[string]string{
					"path":     r.URL.Path,
					"owner_id": ownerID,
					"required": required,
				})
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ownerFromBody extracts a string field from a JSON body without consuming
// it for the downstream handler.
func ownerFromBody(r *http.Request, field string) string {
	if r.Body == nil {
		return ""
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxOwnerBodyBytes))
	r.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil {
		return ""
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	if v, ok := payload[field].(string); ok {
		return v
	}
	return ""
}
