package authz

import "context"

// PermissionSnapshot returns the full catalog as a name→held map for one
// identity. UIs use this to render an entire screen of conditional
// controls from a single fetch instead of one check per button.
// super_admin snapshots as all-true. An invalid identity snapshots as
// all-false rather than erroring, matching the deny-not-throw hot path.
func (s *Service) PermissionSnapshot(ctx context.Context, identity Identity) (map[string]bool, error) {
	catalog, err := s.store.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := make(map[string]bool, len(catalog))

	if s.allowAll || (identity.Valid() && identity.Role.IsSuperAdmin()) {
		for _, perm := range catalog {
			snapshot[perm.Name] = true
		}
		return snapshot, nil
	}

	if !identity.Valid() {
		for _, perm := range catalog {
			snapshot[perm.Name] = false
		}
		return snapshot, nil
	}

	held, err := s.rolePermissionNames(ctx, identity.Role)
	if err != nil {
		return nil, err
	}
	for _, perm := range catalog {
		_, ok := held[perm.Name]
		snapshot[perm.Name] = ok
	}
	return snapshot, nil
}
