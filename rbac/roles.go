package rbac

// Role is the closed set of principal roles recognized by the platform.
// Role values travel inside signed tokens and session records, so the set
// is fixed at compile time and never extended from user input.
type Role string

const (
	// RolePharmacist is a licensed pharmacist operating within a pharmacy tenant.
	RolePharmacist Role = "pharmacist"
	// RoleDoctor is a prescribing physician.
	RoleDoctor Role = "doctor"
	// RoleNurse is clinical support staff.
	RoleNurse Role = "nurse"
	// RolePatient is an end user accessing their own records.
	RolePatient Role = "patient"
	// RoleDelivery is courier staff handling prescription deliveries.
	RoleDelivery Role = "delivery"
)

// Roles lists every valid role. The slice is treated as read-only.
var Roles = []Role{RolePharmacist, RoleDoctor, RoleNurse, RolePatient, RoleDelivery}

// ProfessionalRoles is the healthcare-professional role class. Members get
// the longest session lifetime and are required to enroll in MFA.
var ProfessionalRoles = []Role{RolePharmacist, RoleDoctor, RoleNurse}

// ParseRole returns the Role for s, or false if s is not a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	if r.Valid() {
		return r, true
	}
	return "", false
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RolePharmacist, RoleDoctor, RoleNurse, RolePatient, RoleDelivery:
		return true
	}
	return false
}

// Professional reports whether r belongs to the healthcare-professional
// role class.
func (r Role) Professional() bool {
	switch r {
	case RolePharmacist, RoleDoctor, RoleNurse:
		return true
	}
	return false
}
