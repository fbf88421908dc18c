package authz

// Role is a fixed named category of user. It is a value carried on the user
// record, not a stored entity with its own lifecycle.
type Role string

const (
	RoleSuperAdmin    Role = "super_admin"
	RoleAdmin         Role = "admin"
	RoleDoctor        Role = "doctor"
	RoleNurse         Role = "nurse"
	RoleReceptionist  Role = "receptionist"
	RolePharmacist    Role = "pharmacist"
	RoleLabTechnician Role = "lab_technician"
	RoleStaff         Role = "staff"
)

// Roles lists the full enumeration. super_admin is included so that admin UIs
// can render it, even though it is never a valid assignment target.
var Roles = []Role{
	RoleSuperAdmin,
	RoleAdmin,
	RoleDoctor,
	RoleNurse,
	RoleReceptionist,
	RolePharmacist,
	RoleLabTechnician,
	RoleStaff,
}

// Valid reports whether r is part of the enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleDoctor, RoleNurse,
		RoleReceptionist, RolePharmacist, RoleLabTechnician, RoleStaff:
		return true
	}
	return false
}

// IsSuperAdmin reports whether r is the cross-tenant universal-access role.
func (r Role) IsSuperAdmin() bool {
	return r == RoleSuperAdmin
}

func (r Role) String() string {
	return string(r)
}

// ParseRole maps a raw string onto the enumeration. Unknown names return
// ErrInvalidRole rather than an empty role so misconfiguration is not masked.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.Valid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
