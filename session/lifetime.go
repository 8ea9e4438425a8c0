package session

import (
	"time"

	"github.com/carelink/authcore/rbac"
)

// roleLifetimes is the fixed role-to-session-lifetime table. Healthcare
// professionals get the longest window, delivery staff a short one,
// patients an extended one. Adding a role is a data change here, not a
// logic change.
var roleLifetimes = map[rbac.Role]time.Duration{
	rbac.RolePharmacist: 12 * time.Hour,
	rbac.RoleDoctor:     12 * time.Hour,
	rbac.RoleNurse:      12 * time.Hour,
	rbac.RolePatient:    4 * time.Hour,
	rbac.RoleDelivery:   30 * time.Minute,
}

// defaultLifetime applies when a role is missing from an override table.
const defaultLifetime = time.Hour

// LifetimeForRole returns the session lifetime for role from the fixed
// table, falling back to a conservative default for anything unknown.
func LifetimeForRole(role rbac.Role) time.Duration {
	if d, ok := roleLifetimes[role]; ok {
		return d
	}
	return defaultLifetime
}
