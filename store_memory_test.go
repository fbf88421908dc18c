package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCatalogIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SeedCatalog(ctx, DefaultCatalog()))
	first, err := store.ListPermissions(ctx)
	require.NoError(t, err)
	require.Len(t, first, len(Modules)*len(Actions))

	require.NoError(t, store.SeedCatalog(ctx, DefaultCatalog()))
	second, err := store.ListPermissions(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestReplacePermissionsSetsExactSet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.SeedCatalog(ctx, DefaultCatalog()))

	catalog, err := store.ListPermissions(ctx)
	require.NoError(t, err)

	oldSet := []int{catalog[0].ID, catalog[1].ID, catalog[2].ID}
	require.NoError(t, store.ReplacePermissions(ctx, RoleStaff, oldSet))

	newSet := []int{catalog[3].ID, catalog[4].ID}
	require.NoError(t, store.ReplacePermissions(ctx, RoleStaff, newSet))

	perms, err := store.PermissionsForRole(ctx, RoleStaff)
	require.NoError(t, err)

	got := make([]int, 0, len(perms))
	for _, perm := range perms {
		got = append(got, perm.ID)
	}
	assert.ElementsMatch(t, newSet, got, "no residue of the prior set, no omissions")
}

func TestReplacePermissionsRejectsUnknownID(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.SeedCatalog(ctx, DefaultCatalog()))

	catalog, err := store.ListPermissions(ctx)
	require.NoError(t, err)

	prior := []int{catalog[0].ID}
	require.NoError(t, store.ReplacePermissions(ctx, RoleNurse, prior))

	err = store.ReplacePermissions(ctx, RoleNurse, []int{catalog[1].ID, 99999})
	require.ErrorIs(t, err, ErrUnknownPermission)

	// Nothing partially applied: the prior set survives.
	perms, err := store.PermissionsForRole(ctx, RoleNurse)
	require.NoError(t, err)
	require.Len(t, perms, 1)
	assert.Equal(t, catalog[0].ID, perms[0].ID)
}

func TestReplacePermissionsDeduplicates(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.SeedCatalog(ctx, DefaultCatalog()))

	catalog, err := store.ListPermissions(ctx)
	require.NoError(t, err)

	id := catalog[0].ID
	require.NoError(t, store.ReplacePermissions(ctx, RoleStaff, []int{id, id, id}))

	perms, err := store.PermissionsForRole(ctx, RoleStaff)
	require.NoError(t, err)
	assert.Len(t, perms, 1)
}

func TestUnassignedRoleHoldsZeroPermissions(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.SeedCatalog(ctx, DefaultCatalog()))

	perms, err := store.PermissionsForRole(ctx, RoleStaff)
	require.NoError(t, err)
	assert.Empty(t, perms)
}
