package authz

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// recordDecision persists one authorization decision. Audit failures are
// logged but never alter the decision itself.
func (s *Service) recordDecision(ctx context.Context, identity Identity, permission string, resourceHospitalID uint, d Decision) {
	if !s.auditEnabled {
		return
	}

	hospitalID := resourceHospitalID
	audit := Audit{
		UserID:            identity.UserID.String(),
		Role:              string(identity.Role),
		Permission:        permission,
		HospitalID:        &hospitalID,
		PermissionGranted: d.PermissionGranted,
		TenantMatched:     d.TenantMatched,
		Allowed:           d.Allowed,
		Timestamp:         time.Now(),
	}

	if err := s.db.WithContext(ctx).Create(&audit).Error; err != nil {
		s.logger.Errorw("failed to record authorization audit entry",
			"user_id", audit.UserID, "permission", permission, "error", err)
	}
}

// AuditTrail retrieves decision audit entries, optionally filtered by actor,
// permission name and time window.
func (s *Service) AuditTrail(ctx context.Context, userID *uuid.UUID, permission *string, start, end *time.Time) ([]Audit, error) {
	if !s.auditEnabled {
		return nil, fmt.Errorf("audit logging is not enabled")
	}

	query := s.db.WithContext(ctx).Model(&Audit{}).Order("timestamp DESC")
	if userID != nil {
		query = query.Where("user_id = ?", userID.String())
	}
	if permission != nil {
		query = query.Where("permission = ?", *permission)
	}
	if start != nil {
		query = query.Where("timestamp >= ?", *start)
	}
	if end != nil {
		query = query.Where("timestamp <= ?", *end)
	}

	var audits []Audit
	if err := query.Find(&audits).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch audit entries: %w", err)
	}
	return audits, nil
}
