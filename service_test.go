package authz

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRolePermissionsSynthesizesFullCatalogForSuperAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	perms, err := svc.GetRolePermissions(ctx, RoleSuperAdmin)
	require.NoError(t, err)
	assert.Len(t, perms, len(Modules)*len(Actions))
}

func TestGetRolePermissionsRejectsUnknownRole(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetRolePermissions(context.Background(), Role("janitor"))
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestReplacePermissionsRejectsSuperAdmin(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	err := svc.ReplacePermissions(ctx, RoleSuperAdmin, []int{permissionID(t, store, "view_patients")})
	require.ErrorIs(t, err, ErrImmutableRole)

	// No observable effect: super_admin still synthesizes the full catalog.
	perms, err := svc.GetRolePermissions(ctx, RoleSuperAdmin)
	require.NoError(t, err)
	assert.Len(t, perms, len(Modules)*len(Actions))
}

func TestReplacePermissionsRejectsUnknownRole(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.ReplacePermissions(context.Background(), Role("janitor"), nil)
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestReplacePermissionsIsIdempotent(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	set := []int{
		permissionID(t, store, "view_patients"),
		permissionID(t, store, "view_doctors"),
	}
	require.NoError(t, svc.ReplacePermissions(ctx, RoleStaff, set))
	require.NoError(t, svc.ReplacePermissions(ctx, RoleStaff, set))

	perms, err := svc.GetRolePermissions(ctx, RoleStaff)
	require.NoError(t, err)
	assert.Len(t, perms, 2)
}

func TestConcurrentReplacesLeaveConsistentSet(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	setA := []int{permissionID(t, store, "view_patients")}
	setB := []int{
		permissionID(t, store, "view_doctors"),
		permissionID(t, store, "view_appointments"),
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = svc.ReplacePermissions(ctx, RoleStaff, setA)
		}()
		go func() {
			defer wg.Done()
			_ = svc.ReplacePermissions(ctx, RoleStaff, setB)
		}()
	}
	wg.Wait()

	// Writes interleave in order but never mix: the final set is exactly one
	// of the two replacements, never a blend.
	perms, err := svc.GetRolePermissions(ctx, RoleStaff)
	require.NoError(t, err)

	got := make([]int, 0, len(perms))
	for _, perm := range perms {
		got = append(got, perm.ID)
	}
	if len(got) == 1 {
		assert.ElementsMatch(t, setA, got)
	} else {
		assert.ElementsMatch(t, setB, got)
	}
}

func TestSeedDefaultGrantsSkipsConfiguredRoles(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	svc, err := NewService(Config{Store: store, SeedCatalog: true, SeedDefaultGrants: true})
	require.NoError(t, err)

	// An administrator narrows staff down to a single permission.
	custom := []int{permissionID(t, store, "view_patients")}
	require.NoError(t, svc.ReplacePermissions(ctx, RoleStaff, custom))

	// A service restart re-runs seeding against the same store; the custom
	// set must survive.
	svc2, err := NewService(Config{Store: store, SeedCatalog: true, SeedDefaultGrants: true})
	require.NoError(t, err)

	perms, err := svc2.GetRolePermissions(ctx, RoleStaff)
	require.NoError(t, err)
	require.Len(t, perms, 1)
	assert.Equal(t, "view_patients", perms[0].Name)
}

func TestFreshStoreSeedsDefaultGrants(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for role, names := range DefaultGrants() {
		perms, err := svc.GetRolePermissions(ctx, role)
		require.NoError(t, err)

		got := make([]string, 0, len(perms))
		for _, perm := range perms {
			got = append(got, perm.Name)
		}
		assert.ElementsMatch(t, names, got, "role %s", role)
	}
}

func TestPermissionSnapshot(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	snapshot, err := svc.PermissionSnapshot(ctx, NewIdentity(uuid.New(), RoleLabTechnician, 2))
	require.NoError(t, err)
	require.Len(t, snapshot, len(Modules)*len(Actions))
	assert.True(t, snapshot["view_lab"])
	assert.True(t, snapshot["delete_lab"])
	assert.False(t, snapshot["view_billing"])

	all, err := svc.PermissionSnapshot(ctx, NewSuperAdminIdentity(uuid.New()))
	require.NoError(t, err)
	for name, held := range all {
		assert.True(t, held, "super_admin should hold %s", name)
	}

	none, err := svc.PermissionSnapshot(ctx, Identity{})
	require.NoError(t, err)
	for name, held := range none {
		assert.False(t, held, "missing identity should not hold %s", name)
	}
}
