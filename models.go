package authz

import (
	"fmt"
	"time"
)

// Action is the operation kind a permission authorizes.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionExport Action = "export"
)

// Actions lists the closed action set in catalog order.
var Actions = []Action{ActionView, ActionCreate, ActionEdit, ActionDelete, ActionExport}

// Valid reports whether a is part of the closed action set.
func (a Action) Valid() bool {
	switch a {
	case ActionView, ActionCreate, ActionEdit, ActionDelete, ActionExport:
		return true
	}
	return false
}

// Permission is an immutable catalog entry. Module and Action are stored as
// typed fields derived once at seed time, never re-parsed from Name on a check.
type Permission struct {
	ID     int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name   string `gorm:"unique;not null" json:"name"`
	Module string `gorm:"not null;index" json:"module"`
	Action Action `gorm:"type:varchar(16);not null" json:"action"`
}

// PermissionName builds the canonical "{action}_{module}" permission name.
func PermissionName(action Action, module string) string {
	return fmt.Sprintf("%s_%s", action, module)
}

// RolePermission links a role to a granted catalog entry. super_admin never
// appears here; its access is hardcoded in the engine.
type RolePermission struct {
	Role         string `gorm:"primaryKey" json:"role"`
	PermissionID int    `gorm:"primaryKey;autoIncrement:false" json:"permission_id"`
}

// Audit records one authorization decision. Both denial reasons are kept so a
// denied request shows whether the permission, the tenant match, or both failed.
type Audit struct {
	ID                uint   `gorm:"primaryKey"`
	UserID            string `gorm:"index"`
	Role              string
	Permission        string
	HospitalID        *uint
	PermissionGranted bool
	TenantMatched     bool
	Allowed           bool
	Timestamp         time.Time
}
