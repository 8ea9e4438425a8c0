package rbac

import "strings"

// DenyReason is the machine-readable code attached to a denied Decision.
// The codes are stable: clients and audit pipelines match on them.
type DenyReason string

const (
	// ReasonNoAuth is an exported denial reason code.
	ReasonNoAuth DenyReason = "NO_AUTH"
	// ReasonInsufficientRole is an exported denial reason code.
	ReasonInsufficientRole DenyReason = "INSUFFICIENT_ROLE"
	// ReasonMissingPermission is an exported denial reason code.
	ReasonMissingPermission DenyReason = "MISSING_PERMISSION"
	// ReasonMissingPermissions is an exported denial reason code.
	ReasonMissingPermissions DenyReason = "MISSING_PERMISSIONS"
	// ReasonNoMatchingPermission is an exported denial reason code.
	ReasonNoMatchingPermission DenyReason = "NO_MATCHING_PERMISSION"
	// ReasonNotOwner is an exported denial reason code.
	ReasonNotOwner DenyReason = "NOT_OWNER"
	// ReasonMissingOwnerField is an exported denial reason code.
	ReasonMissingOwnerField DenyReason = "MISSING_OWNER_FIELD"
)

// Decision is the structured outcome of an authorization check. Allowed
// decisions carry an empty reason; denied decisions carry a stable reason
// code and a human-readable message safe to return to clients.
type Decision struct {
	Allowed bool
	Reason  DenyReason
	Message string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason DenyReason, message string) Decision {
	return Decision{Reason: reason, Message: message}
}

// CheckRole permits a principal whose role is in allowed. An invalid role
// (including the zero value for an unauthenticated principal) denies with
// ReasonNoAuth.
func CheckRole(role Role, allowed []Role) Decision {
	if !role.Valid() {
		return deny(ReasonNoAuth, "authentication required")
	}
	for _, a := range allowed {
		if role == a {
			return allow()
		}
	}
	return deny(ReasonInsufficientRole, "role "+string(role)+" is not permitted, requires one of: "+joinRoles(allowed))
}

// CheckPermission permits a principal whose role holds perm.
func CheckPermission(role Role, perm Permission) Decision {
	if !role.Valid() {
		return deny(ReasonNoAuth, "authentication required")
	}
	if !HasPermission(role, perm) {
		return deny(ReasonMissingPermission, "missing required permission: "+string(perm))
	}
	return allow()
}

// CheckAllPermissions permits only when role holds every permission in perms.
func CheckAllPermissions(role Role, perms []Permission) Decision {
	if !role.Valid() {
		return deny(ReasonNoAuth, "authentication required")
	}
	var missing []string
	for _, perm := range perms {
		if !HasPermission(role, perm) {
			missing = append(missing, string(perm))
		}
	}
	if len(missing) > 0 {
		return deny(ReasonMissingPermissions, "missing required permissions: "+strings.Join(missing, ", "))
	}
	return allow()
}

// CheckAnyPermission permits when role holds at least one of perms.
func CheckAnyPermission(role Role, perms []Permission) Decision {
	if !role.Valid() {
		return deny(ReasonNoAuth, "authentication required")
	}
	for _, perm := range perms {
		if HasPermission(role, perm) {
			return allow()
		}
	}
	return deny(ReasonNoMatchingPermission, "none of the required permissions are held")
}

// CheckOwnershipOrRole permits when the role is in allowed, or when the
// acting principal's ID equals the resource owner's ID. An empty ownerID
// denies with ReasonMissingOwnerField; callers surface that as a bad
// request rather than a forbidden response.
func CheckOwnershipOrRole(actorID string, role Role, allowed []Role, ownerID string) Decision {
	if actorID == "" || !role.Valid() {
		return deny(ReasonNoAuth, "authentication required")
	}
	for _, a := range allowed {
		if role == a {
			return allow()
		}
	}
	if ownerID == "" {
		return deny(ReasonMissingOwnerField, "resource owner identifier is missing from the request")
	}
	if actorID == ownerID {
		return allow()
	}
	return deny(ReasonNotOwner, "you can only access your own resources")
}

func joinRoles(roles []Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}
