package authz

// Modules lists the functional areas of the hospital system that permissions
// are grouped by.
var Modules = []string{
	"hospitals",
	"patients",
	"doctors",
	"appointments",
	"billing",
	"pharmacy",
	"lab",
	"users",
	"roles",
	"reports",
}

// DefaultCatalog builds the full permission universe: every action crossed with
// every module, named "{action}_{module}". IDs are assigned by the store when
// the catalog is seeded.
func DefaultCatalog() []Permission {
	perms := make([]Permission, 0, len(Modules)*len(Actions))
	for _, module := range Modules {
		for _, action := range Actions {
			perms = append(perms, Permission{
				Name:   PermissionName(action, module),
				Module: module,
				Action: action,
			})
		}
	}
	return perms
}

// DefaultGrants returns the baseline permission names each role starts with.
// super_admin is absent on purpose: it bypasses the link table entirely.
func DefaultGrants() map[Role][]string {
	grants := map[Role][]string{
		RoleDoctor: {
			PermissionName(ActionView, "patients"),
			PermissionName(ActionEdit, "patients"),
			PermissionName(ActionExport, "patients"),
			PermissionName(ActionView, "appointments"),
			PermissionName(ActionCreate, "appointments"),
			PermissionName(ActionEdit, "appointments"),
			PermissionName(ActionView, "lab"),
			PermissionName(ActionCreate, "lab"),
			PermissionName(ActionView, "pharmacy"),
			PermissionName(ActionCreate, "pharmacy"),
			PermissionName(ActionView, "reports"),
		},
		RoleNurse: {
			PermissionName(ActionView, "patients"),
			PermissionName(ActionEdit, "patients"),
			PermissionName(ActionView, "appointments"),
			PermissionName(ActionView, "lab"),
			PermissionName(ActionView, "pharmacy"),
		},
		RoleReceptionist: {
			PermissionName(ActionView, "patients"),
			PermissionName(ActionCreate, "patients"),
			PermissionName(ActionView, "doctors"),
			PermissionName(ActionView, "appointments"),
			PermissionName(ActionCreate, "appointments"),
			PermissionName(ActionEdit, "appointments"),
			PermissionName(ActionDelete, "appointments"),
			PermissionName(ActionView, "billing"),
			PermissionName(ActionCreate, "billing"),
		},
		RolePharmacist: {
			PermissionName(ActionView, "patients"),
			PermissionName(ActionView, "pharmacy"),
			PermissionName(ActionCreate, "pharmacy"),
			PermissionName(ActionEdit, "pharmacy"),
			PermissionName(ActionDelete, "pharmacy"),
			PermissionName(ActionExport, "pharmacy"),
		},
		RoleLabTechnician: {
			PermissionName(ActionView, "patients"),
			PermissionName(ActionView, "lab"),
			PermissionName(ActionCreate, "lab"),
			PermissionName(ActionEdit, "lab"),
			PermissionName(ActionDelete, "lab"),
			PermissionName(ActionExport, "lab"),
		},
		RoleStaff: {
			PermissionName(ActionView, "patients"),
			PermissionName(ActionView, "doctors"),
			PermissionName(ActionView, "appointments"),
		},
	}

	// admin holds every catalog entry, still tenant-scoped.
	var all []string
	for _, module := range Modules {
		for _, action := range Actions {
			all = append(all, PermissionName(action, module))
		}
	}
	grants[RoleAdmin] = all

	return grants
}
