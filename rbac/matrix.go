package rbac

// Permission is a fine-grained capability granted to roles through the
// static matrix below.
type Permission string

const (
	// PermCreatePrescription is an exported permission constant.
	PermCreatePrescription Permission = "create_prescription"
	// PermApprovePrescription is an exported permission constant.
	PermApprovePrescription Permission = "approve_prescription"
	// PermDispensePrescription is an exported permission constant.
	PermDispensePrescription Permission = "dispense_prescription"
	// PermViewPrescription is an exported permission constant.
	PermViewPrescription Permission = "view_prescription"
	// PermManageInventory is an exported permission constant.
	PermManageInventory Permission = "manage_inventory"
	// PermViewInventory is an exported permission constant.
	PermViewInventory Permission = "view_inventory"
	// PermViewPatientRecords is an exported permission constant.
	PermViewPatientRecords Permission = "view_patient_records"
	// PermViewOwnRecords is an exported permission constant.
	PermViewOwnRecords Permission = "view_own_records"
	// PermManageDeliveries is an exported permission constant.
	PermManageDeliveries Permission = "manage_deliveries"
	// PermViewAssignedDeliveries is an exported permission constant.
	PermViewAssignedDeliveries Permission = "view_assigned_deliveries"
	// PermUpdateDeliveryStatus is an exported permission constant.
	PermUpdateDeliveryStatus Permission = "update_delivery_status"
)

// Permissions lists every permission in the matrix. Read-only.
var Permissions = []Permission{
	PermCreatePrescription,
	PermApprovePrescription,
	PermDispensePrescription,
	PermViewPrescription,
	PermManageInventory,
	PermViewInventory,
	PermViewPatientRecords,
	PermViewOwnRecords,
	PermManageDeliveries,
	PermViewAssignedDeliveries,
	PermUpdateDeliveryStatus,
}

// matrix maps every permission to the non-empty set of roles holding it.
// The mapping is total over Permissions and loaded once at init; nothing
// mutates it after that.
var matrix = map[Permission][]Role{
	PermCreatePrescription:     {RoleDoctor},
	PermApprovePrescription:    {RolePharmacist},
	PermDispensePrescription:   {RolePharmacist},
	PermViewPrescription:       {RolePharmacist, RoleDoctor, RoleNurse, RolePatient},
	PermManageInventory:        {RolePharmacist},
	PermViewInventory:          {RolePharmacist, RoleNurse},
	PermViewPatientRecords:     {RoleDoctor, RoleNurse},
	PermViewOwnRecords:         {RolePatient},
	PermManageDeliveries:       {RolePharmacist},
	PermViewAssignedDeliveries: {RoleDelivery},
	PermUpdateDeliveryStatus:   {RoleDelivery, RolePharmacist},
}

// grants is the role-keyed inversion of matrix, built once at package init
// so HasPermission is a two-map lookup with no allocation.
var grants = buildGrants()

func buildGrants() map[Role]map[Permission]struct{} {
	out := make(map[Role]map[Permission]struct{}, len(Roles))
	for _, role := range Roles {
		out[role] = make(map[Permission]struct{})
	}
	for perm, roles := range matrix {
		if len(roles) == 0 {
			panic("rbac: permission " + string(perm) + " has no roles")
		}
		for _, role := range roles {
			out[role][perm] = struct{}{}
		}
	}
	return out
}

// HasPermission reports whether role holds perm under the static matrix.
// Unknown roles and unknown permissions are simply not granted.
func HasPermission(role Role, perm Permission) bool {
	set, ok := grants[role]
	if !ok {
		return false
	}
	_, ok = set[perm]
	return ok
}

// PermissionsFor returns every permission held by role, in matrix order.
func PermissionsFor(role Role) []Permission {
	set, ok := grants[role]
	if !ok {
		return nil
	}
	out := make([]Permission, 0, len(set))
	for _, perm := range Permissions {
		if _, held := set[perm]; held {
			out = append(out, perm)
		}
	}
	return out
}

// RolesFor returns the roles holding perm, or nil for an unknown permission.
func RolesFor(perm Permission) []Role {
	roles, ok := matrix[perm]
	if !ok {
		return nil
	}
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}
