package authz

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *MemoryStore) {
	t.Helper()

	store := NewMemoryStore()
	svc, err := NewService(Config{
		Store:             store,
		SeedCatalog:       true,
		SeedDefaultGrants: true,
	})
	require.NoError(t, err)
	return svc, store
}

func permissionID(t *testing.T, store *MemoryStore, name string) int {
	t.Helper()

	perm, ok := store.LookupPermission(name)
	require.True(t, ok, "permission %s not in catalog", name)
	return perm.ID
}

func TestSuperAdminBypassesEveryCheck(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	superAdmin := NewSuperAdminIdentity(uuid.New())

	for _, module := range Modules {
		for _, action := range Actions {
			assert.True(t, svc.HasPermission(ctx, superAdmin, PermissionName(action, module)))
		}
	}

	// Even names outside the catalog pass for super_admin.
	assert.True(t, svc.HasPermission(ctx, superAdmin, "launch_rockets"))

	for _, hospitalID := range []uint{0, 1, 3, 42} {
		assert.True(t, svc.AuthorizeTenant(superAdmin, hospitalID))
	}
}

func TestTenantIsolation(t *testing.T) {
	svc, _ := newTestService(t)
	doctor := NewIdentity(uuid.New(), RoleDoctor, 7)

	assert.True(t, svc.AuthorizeTenant(doctor, 7))
	assert.False(t, svc.AuthorizeTenant(doctor, 8))
	assert.False(t, svc.AuthorizeTenant(doctor, 0))
}

func TestVacuousSemantics(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	identities := []Identity{
		NewIdentity(uuid.New(), RoleDoctor, 1),
		NewSuperAdminIdentity(uuid.New()),
		{}, // malformed
	}

	for _, identity := range identities {
		assert.False(t, svc.HasAnyPermission(ctx, identity, nil),
			"empty any must deny for %v", identity.Role)
		assert.True(t, svc.HasAllPermissions(ctx, identity, nil),
			"empty all must allow for %v", identity.Role)
	}
}

func TestMalformedIdentityDeniesWithoutError(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := map[string]Identity{
		"zero value":             {},
		"unknown role":           {UserID: uuid.New(), Role: Role("janitor")},
		"missing hospital":       {UserID: uuid.New(), Role: RoleDoctor},
		"empty role with tenant": NewIdentity(uuid.New(), "", 3),
	}

	for name, identity := range cases {
		t.Run(name, func(t *testing.T) {
			assert.False(t, svc.HasPermission(ctx, identity, "view_patients"))
			assert.False(t, svc.AuthorizeTenant(identity, 3))
			assert.False(t, svc.Authorize(ctx, identity, "view_patients", 3))
		})
	}
}

func TestUnknownPermissionNameDenies(t *testing.T) {
	svc, _ := newTestService(t)
	doctor := NewIdentity(uuid.New(), RoleDoctor, 1)

	assert.False(t, svc.HasPermission(context.Background(), doctor, "frobnicate_patients"))
}

func TestActionSugar(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	pharmacist := NewIdentity(uuid.New(), RolePharmacist, 2)

	assert.True(t, svc.CanView(ctx, pharmacist, "pharmacy"))
	assert.True(t, svc.CanCreate(ctx, pharmacist, "pharmacy"))
	assert.True(t, svc.CanEdit(ctx, pharmacist, "pharmacy"))
	assert.True(t, svc.CanDelete(ctx, pharmacist, "pharmacy"))
	assert.True(t, svc.CanExport(ctx, pharmacist, "pharmacy"))

	assert.True(t, svc.CanView(ctx, pharmacist, "patients"))
	assert.False(t, svc.CanEdit(ctx, pharmacist, "patients"))
	assert.False(t, svc.CanView(ctx, pharmacist, "billing"))
}

func TestExplainReportsBothDenialReasons(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	doctor := NewIdentity(uuid.New(), RoleDoctor, 3)

	d := svc.Explain(ctx, doctor, "view_patients", 3)
	assert.True(t, d.Allowed)
	assert.True(t, d.PermissionGranted)
	assert.True(t, d.TenantMatched)

	// Held permission, wrong tenant: the permission result stays visible.
	d = svc.Explain(ctx, doctor, "view_patients", 5)
	assert.False(t, d.Allowed)
	assert.True(t, d.PermissionGranted)
	assert.False(t, d.TenantMatched)

	// Missing permission, right tenant.
	d = svc.Explain(ctx, doctor, "delete_billing", 3)
	assert.False(t, d.Allowed)
	assert.False(t, d.PermissionGranted)
	assert.True(t, d.TenantMatched)

	// Both wrong.
	d = svc.Explain(ctx, doctor, "delete_billing", 5)
	assert.False(t, d.Allowed)
	assert.False(t, d.PermissionGranted)
	assert.False(t, d.TenantMatched)
}

func TestReceptionistGrantScenario(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	receptionist := NewIdentity(uuid.New(), RoleReceptionist, 3)

	assert.False(t, svc.HasPermission(ctx, receptionist, "edit_billing"))

	current, err := svc.GetRolePermissions(ctx, RoleReceptionist)
	require.NoError(t, err)
	ids := make([]int, 0, len(current)+1)
	for _, perm := range current {
		ids = append(ids, perm.ID)
	}
	ids = append(ids, permissionID(t, store, "edit_billing"))

	require.NoError(t, svc.ReplacePermissions(ctx, RoleReceptionist, ids))

	assert.True(t, svc.HasPermission(ctx, receptionist, "edit_billing"))

	// Holding the permission does not cross tenants: a bill from hospital 5
	// stays out of reach for a hospital 3 receptionist.
	assert.False(t, svc.Authorize(ctx, receptionist, "edit_billing", 5))
	assert.True(t, svc.Authorize(ctx, receptionist, "edit_billing", 3))
}

func TestDoctorCrossTenantScenario(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	doctor := NewIdentity(uuid.New(), RoleDoctor, 4)

	assert.True(t, svc.Authorize(ctx, doctor, "view_patients", 4))

	// Permission alone passes, the combined gate does not.
	assert.True(t, svc.HasPermission(ctx, doctor, "view_patients"))
	assert.False(t, svc.Authorize(ctx, doctor, "view_patients", 9))
}

func TestInsecureAllowAllBypass(t *testing.T) {
	store := NewMemoryStore()
	svc, err := NewService(Config{
		Store:            store,
		SeedCatalog:      true,
		InsecureAllowAll: true,
	})
	require.NoError(t, err)

	ctx := context.Background()
	nobody := Identity{}

	assert.True(t, svc.HasPermission(ctx, nobody, "delete_hospitals"))
	assert.True(t, svc.AuthorizeTenant(nobody, 99))
	assert.True(t, svc.Authorize(ctx, nobody, "delete_hospitals", 99))
}
