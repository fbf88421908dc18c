package authz

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store intended for tests and local development
// wiring. Replace visibility matches the transactional stores: a reader sees
// either the fully old or fully new set for a role.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int
	byID   map[int]Permission
	byName map[string]int
	grants map[Role][]int
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		byID:   make(map[int]Permission),
		byName: make(map[string]int),
		grants: make(map[Role][]int),
	}
}

func (m *MemoryStore) SeedCatalog(_ context.Context, perms []Permission) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, perm := range perms {
		if _, exists := m.byName[perm.Name]; exists {
			continue
		}
		perm.ID = m.nextID
		m.nextID++
		m.byID[perm.ID] = perm
		m.byName[perm.Name] = perm.ID
	}
	return nil
}

func (m *MemoryStore) ListPermissions(_ context.Context) ([]Permission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	perms := make([]Permission, 0, len(m.byID))
	for _, perm := range m.byID {
		perms = append(perms, perm)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i].ID < perms[j].ID })
	return perms, nil
}

func (m *MemoryStore) PermissionsForRole(_ context.Context, role Role) ([]Permission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.grants[role]
	perms := make([]Permission, 0, len(ids))
	for _, id := range ids {
		if perm, ok := m.byID[id]; ok {
			perms = append(perms, perm)
		}
	}
	return perms, nil
}

func (m *MemoryStore) ReplacePermissions(_ context.Context, role Role, permissionIDs []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Validate the whole batch before touching the role so a bad id leaves
	// the prior set intact.
	seen := make(map[int]struct{}, len(permissionIDs))
	next := make([]int, 0, len(permissionIDs))
	for _, id := range permissionIDs {
		if _, ok := m.byID[id]; !ok {
			return ErrUnknownPermission
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		next = append(next, id)
	}

	m.grants[role] = next
	return nil
}

// LookupPermission returns the catalog entry for a name. Handy for tests and
// example wiring that need ids without a round trip through ListPermissions.
func (m *MemoryStore) LookupPermission(name string) (Permission, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byName[name]
	if !ok {
		return Permission{}, false
	}
	return m.byID[id], true
}
