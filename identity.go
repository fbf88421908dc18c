package authz

import "github.com/google/uuid"

// Identity carries the per-request facts every authorization decision needs:
// who is acting, as what role, on behalf of which hospital. It is resolved once
// at authentication and passed explicitly into every check; there is no ambient
// "current user" lookup.
type Identity struct {
	UserID     uuid.UUID `json:"user_id"`
	Role       Role      `json:"role"`
	HospitalID *uint     `json:"hospital_id,omitempty"`
}

// NewIdentity builds a tenant-scoped identity.
func NewIdentity(userID uuid.UUID, role Role, hospitalID uint) Identity {
	return Identity{UserID: userID, Role: role, HospitalID: &hospitalID}
}

// NewSuperAdminIdentity builds the one identity shape allowed to omit a tenant.
func NewSuperAdminIdentity(userID uuid.UUID) Identity {
	return Identity{UserID: userID, Role: RoleSuperAdmin}
}

// Valid reports whether the identity is usable for authorization: the role must
// be in the enumeration and only super_admin may lack a hospital. The engine
// denies on an invalid identity instead of erroring, so callers can treat
// "no identity" uniformly as "denied".
func (id Identity) Valid() bool {
	if !id.Role.Valid() {
		return false
	}
	if id.Role.IsSuperAdmin() {
		return true
	}
	return id.HospitalID != nil
}
