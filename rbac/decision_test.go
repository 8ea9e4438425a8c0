package rbac

import "testing"

func TestCheckRole(t *testing.T) {
	tests := []struct {
		name    string
		role    Role
		allowed []Role
		want    bool
		reason  DenyReason
	}{
		{"allowed role", RoleDoctor, []Role{RoleDoctor, RoleNurse}, true, ""},
		{"disallowed role", RolePatient, []Role{RoleDoctor}, false, ReasonInsufficientRole},
		{"unauthenticated", Role(""), []Role{RoleDoctor}, false, ReasonNoAuth},
		{"unknown role", Role("root"), []Role{RoleDoctor}, false, ReasonNoAuth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CheckRole(tt.role, tt.allowed)
			if d.Allowed != tt.want {
				t.Fatalf("Allowed = %v, want %v", d.Allowed, tt.want)
			}
			if d.Reason != tt.reason {
				t.Fatalf("Reason = %s, want %s", d.Reason, tt.reason)
			}
		})
	}
}

func TestCheckPermission(t *testing.T) {
	if d := CheckPermission(RoleDoctor, PermCreatePrescription); !d.Allowed {
		t.Fatalf("doctor should create prescriptions: %+v", d)
	}
	d := CheckPermission(RolePatient, PermCreatePrescription)
	if d.Allowed || d.Reason != ReasonMissingPermission {
		t.Fatalf("patient create prescription: %+v", d)
	}
	if d := CheckPermission("", PermCreatePrescription); d.Reason != ReasonNoAuth {
		t.Fatalf("empty role should deny with NO_AUTH, got %s", d.Reason)
	}
}

func TestCheckAllPermissions(t *testing.T) {
	d := CheckAllPermissions(RolePharmacist, []Permission{PermApprovePrescription, PermManageInventory})
	if !d.Allowed {
		t.Fatalf("pharmacist should hold both: %+v", d)
	}
	d = CheckAllPermissions(RoleNurse, []Permission{PermViewInventory, PermManageInventory})
	if d.Allowed || d.Reason != ReasonMissingPermissions {
		t.Fatalf("nurse manage inventory: %+v", d)
	}
}

func TestCheckAnyPermission(t *testing.T) {
	d := CheckAnyPermission(RoleNurse, []Permission{PermManageInventory, PermViewInventory})
	if !d.Allowed {
		t.Fatalf("nurse should match view_inventory: %+v", d)
	}
	d = CheckAnyPermission(RoleDelivery, []Permission{PermManageInventory, PermCreatePrescription})
	if d.Allowed || d.Reason != ReasonNoMatchingPermission {
		t.Fatalf("delivery inventory permissions: %+v", d)
	}
}

func TestCheckOwnershipOrRole(t *testing.T) {
	// Elevated role bypasses the ownership comparison entirely.
	if d := CheckOwnershipOrRole("u1", RolePharmacist, []Role{RolePharmacist}, "someone-else"); !d.Allowed {
		t.Fatalf("pharmacist bypass: %+v", d)
	}
	// Non-elevated actor matching the owner field is permitted.
	if d := CheckOwnershipOrRole("u1", RolePatient, []Role{RolePharmacist}, "u1"); !d.Allowed {
		t.Fatalf("owner access: %+v", d)
	}
	d := CheckOwnershipOrRole("u1", RolePatient, []Role{RolePharmacist}, "u2")
	if d.Allowed || d.Reason != ReasonNotOwner {
		t.Fatalf("non-owner access: %+v", d)
	}
	d = CheckOwnershipOrRole("u1", RolePatient, []Role{RolePharmacist}, "")
	if d.Allowed || d.Reason != ReasonMissingOwnerField {
		t.Fatalf("missing owner field: %+v", d)
	}
	if d := CheckOwnershipOrRole("", RolePatient, nil, "u1"); d.Reason != ReasonNoAuth {
		t.Fatalf("missing actor: %+v", d)
	}
}
