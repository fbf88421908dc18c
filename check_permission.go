package authz

import "context"

// Decision is the outcome of a combined permission + tenant check. Both
// component results are kept even when one already fails, so a denial is
// observable with its full reason in audit and logging contexts.
type Decision struct {
	Allowed           bool `json:"allowed"`
	PermissionGranted bool `json:"permission_granted"`
	TenantMatched     bool `json:"tenant_matched"`
}

// HasPermission reports whether identity holds the named permission.
// super_admin passes unconditionally. The hot path never returns an error:
// a malformed identity, an unknown role or an unknown permission name all fail
// closed to false, so a caller mishandling an exceptional path cannot turn it
// into an accidental allow.
func (s *Service) HasPermission(ctx context.Context, identity Identity, name string) bool {
	if s.allowAll {
		return true
	}
	if !identity.Valid() {
		return false
	}
	if identity.Role.IsSuperAdmin() {
		return true
	}

	names, err := s.rolePermissionNames(ctx, identity.Role)
	if err != nil {
		s.logger.Errorw("permission lookup failed, denying",
			"role", identity.Role, "permission", name, "error", err)
		return false
	}

	_, ok := names[name]
	return ok
}

// HasAnyPermission reports whether identity holds at least one of names.
// An empty list denies: a vacuous "any" must not open a gate that an empty
// configuration left behind.
func (s *Service) HasAnyPermission(ctx context.Context, identity Identity, names []string) bool {
	for _, name := range names {
		if s.HasPermission(ctx, identity, name) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether identity holds every one of names.
// An empty list allows: requiring nothing should not block.
func (s *Service) HasAllPermissions(ctx context.Context, identity Identity, names []string) bool {
	for _, name := range names {
		if !s.HasPermission(ctx, identity, name) {
			return false
		}
	}
	return true
}

// CanView and friends are sugar over HasPermission for the
// "{action}_{module}" convention.

func (s *Service) CanView(ctx context.Context, identity Identity, module string) bool {
	return s.HasPermission(ctx, identity, PermissionName(ActionView, module))
}

func (s *Service) CanCreate(ctx context.Context, identity Identity, module string) bool {
	return s.HasPermission(ctx, identity, PermissionName(ActionCreate, module))
}

func (s *Service) CanEdit(ctx context.Context, identity Identity, module string) bool {
	return s.HasPermission(ctx, identity, PermissionName(ActionEdit, module))
}

func (s *Service) CanDelete(ctx context.Context, identity Identity, module string) bool {
	return s.HasPermission(ctx, identity, PermissionName(ActionDelete, module))
}

func (s *Service) CanExport(ctx context.Context, identity Identity, module string) bool {
	return s.HasPermission(ctx, identity, PermissionName(ActionExport, module))
}

// AuthorizeTenant reports whether identity may touch resources belonging to
// resourceHospitalID. super_admin crosses tenants; every other identity must
// match exactly. Independent of and additional to permission checks.
func (s *Service) AuthorizeTenant(identity Identity, resourceHospitalID uint) bool {
	if s.allowAll {
		return true
	}
	if !identity.Valid() {
		return false
	}
	if identity.Role.IsSuperAdmin() {
		return true
	}
	return *identity.HospitalID == resourceHospitalID
}

// Explain runs the combined gate and returns both component results. The
// tenant check runs regardless of the permission outcome so both denial
// reasons surface together.
func (s *Service) Explain(ctx context.Context, identity Identity, name string, resourceHospitalID uint) Decision {
	d := Decision{
		PermissionGranted: s.HasPermission(ctx, identity, name),
		TenantMatched:     s.AuthorizeTenant(identity, resourceHospitalID),
	}
	d.Allowed = d.PermissionGranted && d.TenantMatched
	return d
}

// Authorize is the combined gate used by every protected read and write:
// permission AND tenant. The decision is audited when audit logging is on.
func (s *Service) Authorize(ctx context.Context, identity Identity, name string, resourceHospitalID uint) bool {
	d := s.Explain(ctx, identity, name, resourceHospitalID)
	s.recordDecision(ctx, identity, name, resourceHospitalID, d)
	return d.Allowed
}
