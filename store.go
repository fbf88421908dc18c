package authz

import "context"

// Store is the persistence boundary for the permission catalog and the
// role→permission link table. Two implementations ship with the package: the
// gorm/Postgres store used in production and an in-memory store for tests and
// examples.
//
// Reads during an in-flight ReplacePermissions must observe either the fully
// old or fully new set, never a partial one.
type Store interface {
	// SeedCatalog inserts any catalog entries not already present, keyed by
	// name. Existing entries are left untouched, so seeding is idempotent.
	SeedCatalog(ctx context.Context, perms []Permission) error

	// ListPermissions returns every catalog entry.
	ListPermissions(ctx context.Context) ([]Permission, error)

	// PermissionsForRole returns the catalog entries linked to role. A role
	// with no rows yields an empty slice, not an error. super_admin is not
	// special-cased here; the engine synthesizes its access above this layer.
	PermissionsForRole(ctx context.Context, role Role) ([]Permission, error)

	// ReplacePermissions atomically sets role's full permission set to exactly
	// permissionIDs. Any id missing from the catalog fails the whole write
	// with ErrUnknownPermission and leaves the prior set intact.
	ReplacePermissions(ctx context.Context, role Role, permissionIDs []int) error
}
