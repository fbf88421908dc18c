package authz

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// GormStore persists the catalog and link table in Postgres through gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open gorm handle. Migration and seeding are driven by
// the service, not here.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates the permissions, role_permissions and audits tables.
func (s *GormStore) AutoMigrate() error {
	if err := s.db.AutoMigrate(&Permission{}, &RolePermission{}, &Audit{}); err != nil {
		return fmt.Errorf("failed to auto-migrate authorization tables: %w", err)
	}
	return nil
}

func (s *GormStore) SeedCatalog(ctx context.Context, perms []Permission) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []Permission
		if err := tx.Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to read existing catalog: %w", err)
		}
		known := make(map[string]struct{}, len(existing))
		for _, perm := range existing {
			known[perm.Name] = struct{}{}
		}

		for _, perm := range perms {
			if _, ok := known[perm.Name]; ok {
				continue
			}
			perm.ID = 0
			if err := tx.Create(&perm).Error; err != nil {
				return fmt.Errorf("failed to seed permission %s: %w", perm.Name, err)
			}
		}
		return nil
	})
}

func (s *GormStore) ListPermissions(ctx context.Context) ([]Permission, error) {
	var perms []Permission
	if err := s.db.WithContext(ctx).Order("id").Find(&perms).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch permissions: %w", err)
	}
	return perms, nil
}

func (s *GormStore) PermissionsForRole(ctx context.Context, role Role) ([]Permission, error) {
	var links []RolePermission
	if err := s.db.WithContext(ctx).Where("role = ?", string(role)).Find(&links).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch role permissions: %w", err)
	}
	if len(links) == 0 {
		return []Permission{}, nil
	}

	ids := make([]int, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.PermissionID)
	}

	var perms []Permission
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&perms).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch permissions: %w", err)
	}
	return perms, nil
}

func (s *GormStore) ReplacePermissions(ctx context.Context, role Role, permissionIDs []int) error {
	unique := make([]int, 0, len(permissionIDs))
	seen := make(map[int]struct{}, len(permissionIDs))
	for _, id := range permissionIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	// Single transaction: either the full new set commits or the prior set
	// survives untouched.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(unique) > 0 {
			var count int64
			if err := tx.Model(&Permission{}).Where("id IN ?", unique).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to validate permission ids: %w", err)
			}
			if count != int64(len(unique)) {
				return ErrUnknownPermission
			}
		}

		if err := tx.Where("role = ?", string(role)).Delete(&RolePermission{}).Error; err != nil {
			return fmt.Errorf("failed to clear existing permissions: %w", err)
		}

		for _, id := range unique {
			link := RolePermission{Role: string(role), PermissionID: id}
			if err := tx.Create(&link).Error; err != nil {
				return fmt.Errorf("failed to assign permission %d: %w", id, err)
			}
		}
		return nil
	})
}
