package authz

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config holds the configuration for the authorization service.
type Config struct {
	// DB backs the gorm store and the audit trail. Optional when Store is set,
	// in which case audit logging is unavailable.
	DB *gorm.DB
	// Store overrides the default gorm store. Used by tests and the examples
	// binary with MemoryStore.
	Store Store
	// RedisClient enables the role permission cache. nil disables caching.
	RedisClient *redis.Client
	Logger      *zap.SugaredLogger

	CacheTTL    time.Duration
	CachePrefix string

	AutoMigrate        bool
	SeedCatalog        bool
	SeedDefaultGrants  bool
	EnableAuditLogging bool

	// InsecureAllowAll short-circuits every check to allow. It exists so that
	// development environments have an explicit, loudly-logged bypass instead
	// of an inline "return true" buried in a handler. Never enable it in
	// production configuration.
	InsecureAllowAll bool
}

// Service is the authorization core: permission catalog, role assignment store
// and the request-time decision engine. The read path is safe for concurrent
// use; writes are serialized per role.
type Service struct {
	store        Store
	db           *gorm.DB
	redisClient  *redis.Client
	logger       *zap.SugaredLogger
	cacheTTL     time.Duration
	cachePrefix  string
	auditEnabled bool
	allowAll     bool

	mu        sync.Mutex
	roleLocks map[Role]*sync.Mutex
}

// NewService initializes the authorization service, migrating and seeding the
// catalog when asked to.
func NewService(cfg Config) (*Service, error) {
	if cfg.Store == nil && cfg.DB == nil {
		return nil, fmt.Errorf("either a database handle or a store is required")
	}

	if cfg.CachePrefix == "" {
		cfg.CachePrefix = "authz:"
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 30 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}

	store := cfg.Store
	if store == nil {
		gs := NewGormStore(cfg.DB)
		if cfg.AutoMigrate {
			if err := gs.AutoMigrate(); err != nil {
				return nil, err
			}
		}
		store = gs
	}

	s := &Service{
		store:        store,
		db:           cfg.DB,
		redisClient:  cfg.RedisClient,
		logger:       cfg.Logger,
		cacheTTL:     cfg.CacheTTL,
		cachePrefix:  cfg.CachePrefix,
		auditEnabled: cfg.EnableAuditLogging && cfg.DB != nil,
		allowAll:     cfg.InsecureAllowAll,
		roleLocks:    make(map[Role]*sync.Mutex),
	}

	if cfg.EnableAuditLogging && cfg.DB == nil {
		s.logger.Warn("audit logging requested without a database handle; disabled")
	}
	if s.allowAll {
		s.logger.Warn("INSECURE: authorization bypass enabled, every check will allow")
	}

	ctx := context.Background()
	if cfg.SeedCatalog {
		if err := store.SeedCatalog(ctx, DefaultCatalog()); err != nil {
			return nil, fmt.Errorf("failed to seed permission catalog: %w", err)
		}
	}
	if cfg.SeedDefaultGrants {
		if err := s.seedDefaultGrants(ctx); err != nil {
			return nil, fmt.Errorf("failed to seed default role grants: %w", err)
		}
	}

	return s, nil
}

// seedDefaultGrants applies DefaultGrants to every role that has no
// assignments yet. Roles an administrator has already configured are left
// alone, so repeated boots are safe.
func (s *Service) seedDefaultGrants(ctx context.Context) error {
	catalog, err := s.store.ListPermissions(ctx)
	if err != nil {
		return err
	}
	idByName := make(map[string]int, len(catalog))
	for _, perm := range catalog {
		idByName[perm.Name] = perm.ID
	}

	for role, names := range DefaultGrants() {
		existing, err := s.store.PermissionsForRole(ctx, role)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			continue
		}

		ids := make([]int, 0, len(names))
		for _, name := range names {
			id, ok := idByName[name]
			if !ok {
				return fmt.Errorf("default grant %s for role %s: %w", name, role, ErrUnknownPermission)
			}
			ids = append(ids, id)
		}
		if err := s.store.ReplacePermissions(ctx, role, ids); err != nil {
			return err
		}
		s.logger.Infof("seeded %d default permissions for role %s", len(ids), role)
	}
	return nil
}

// ListPermissionCatalog returns every catalog entry.
func (s *Service) ListPermissionCatalog(ctx context.Context) ([]Permission, error) {
	return s.store.ListPermissions(ctx)
}

// GetRolePermissions returns the permissions currently granted to role.
// super_admin synthesizes the full catalog so admin UIs can render "all
// granted" consistently; it is never read from the link table. An unknown role
// name is a caller programming error and fails with ErrInvalidRole.
func (s *Service) GetRolePermissions(ctx context.Context, role Role) ([]Permission, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("role %q: %w", role, ErrInvalidRole)
	}
	if role.IsSuperAdmin() {
		return s.store.ListPermissions(ctx)
	}
	return s.store.PermissionsForRole(ctx, role)
}

// ReplacePermissions atomically replaces role's full permission set with
// exactly permissionIDs. The write is serialized per role; concurrent replaces
// for different roles proceed independently. The role's cache entry is dropped
// before the call returns.
func (s *Service) ReplacePermissions(ctx context.Context, role Role, permissionIDs []int) error {
	if !role.Valid() {
		return fmt.Errorf("role %q: %w", role, ErrInvalidRole)
	}
	if role.IsSuperAdmin() {
		return ErrImmutableRole
	}

	lock := s.roleLock(role)
	lock.Lock()
	defer lock.Unlock()

	if err := s.store.ReplacePermissions(ctx, role, permissionIDs); err != nil {
		return err
	}

	if err := s.invalidateRoleCache(ctx, role); err != nil {
		// The write committed; a lingering cache entry would re-allow revoked
		// permissions until TTL, so surface the failure to the caller.
		return err
	}

	s.logger.Infow("replaced role permissions", "role", role, "count", len(permissionIDs))
	return nil
}

// roleLock returns the mutex serializing writes for one role.
func (s *Service) roleLock(role Role) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.roleLocks[role]
	if !ok {
		lock = &sync.Mutex{}
		s.roleLocks[role] = lock
	}
	return lock
}

// rolePermissionNames returns the set of permission names held by role,
// reading through the cache when one is configured.
func (s *Service) rolePermissionNames(ctx context.Context, role Role) (map[string]struct{}, error) {
	if names, ok := s.cachedRolePermissions(ctx, role); ok {
		return nameSet(names), nil
	}

	// Fill the cache under the role's write lock. Without it, a concurrent
	// ReplacePermissions could commit and invalidate between our store read
	// and the cache write, leaving the pre-write set cached for a full TTL.
	lock := s.roleLock(role)
	lock.Lock()
	defer lock.Unlock()

	if names, ok := s.cachedRolePermissions(ctx, role); ok {
		return nameSet(names), nil
	}

	perms, err := s.store.PermissionsForRole(ctx, role)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(perms))
	for _, perm := range perms {
		names = append(names, perm.Name)
	}
	s.cacheRolePermissions(ctx, role, names)
	return nameSet(names), nil
}

func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
