package models

import "time"

// Permission is one resource:action pair of the authorization system.
// Permissions are granted to roles and can be granted or revoked per user with overrides.
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uint `gorm:"primaryKey" json:"id"`
	// Resource is the resource this permission applies to (e.g., "izin", "lokasi", "pengguna").
	Resource string `gorm:"size:100;not null;uniqueIndex:idx_permission_key" json:"resource"`
	// Action is the action allowed on the resource: create, read, update or delete.
	Action string `gorm:"size:50;not null;uniqueIndex:idx_permission_key" json:"action"`
	// Description provides a human-readable explanation of what this permission grants.
	Description string `gorm:"size:255" json:"description"`
	// CreatedAt is the timestamp when the permission was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the permission was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Permission model.
func (Permission) TableName() string {
	return "permissions"
}
