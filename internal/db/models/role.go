package models

import "time"

// Role names seeded on first start.
const (
	RoleAdmin         = "ADMIN"
	RoleKepalaSekolah = "KEPALA_SEKOLAH"
	RoleGuru          = "GURU"
	RolePegawai       = "PEGAWAI"
)

// Role is a named collection of permissions assigned to users.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is the unique name of the role (e.g., "ADMIN", "GURU").
	Name string `gorm:"unique;size:100;not null" json:"name"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255" json:"description"`
	// IsSystem indicates if this is a seeded role that cannot be deleted.
	IsSystem bool `gorm:"default:false" json:"is_system"`
	// Permissions are the permissions granted to the role.
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}
