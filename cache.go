package authz

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// roleCacheKey generates the Redis key holding a role's permission names.
func (s *Service) roleCacheKey(role Role) string {
	return fmt.Sprintf("%srole:%s:permissions", s.cachePrefix, role)
}

// cachedRolePermissions reads a role's permission names from Redis. A miss,
// a decode failure or a disabled cache all report !ok and fall through to the
// store.
func (s *Service) cachedRolePermissions(ctx context.Context, role Role) ([]string, bool) {
	if s.redisClient == nil {
		return nil, false
	}

	val, err := s.redisClient.Get(ctx, s.roleCacheKey(role)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		s.logger.Warnf("role permission cache read failed for %s: %v", role, err)
		return nil, false
	}

	var names []string
	if err := json.Unmarshal([]byte(val), &names); err != nil {
		return nil, false
	}
	return names, true
}

// cacheRolePermissions stores a role's permission names. Failures are logged
// and otherwise ignored; the cache is an optimization, not a source of truth.
func (s *Service) cacheRolePermissions(ctx context.Context, role Role, names []string) {
	if s.redisClient == nil {
		return
	}

	payload, err := json.Marshal(names)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, s.roleCacheKey(role), payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warnf("role permission cache write failed for %s: %v", role, err)
	}
}

// invalidateRoleCache drops a role's cached permission set. Called
// synchronously inside ReplacePermissions so a stale-allow window cannot
// outlive the write.
func (s *Service) invalidateRoleCache(ctx context.Context, role Role) error {
	if s.redisClient == nil {
		return nil
	}

	if err := s.redisClient.Del(ctx, s.roleCacheKey(role)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache for role %s: %w", role, err)
	}
	return nil
}
