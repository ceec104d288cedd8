package models

import "time"

// RolePermission grants one permission to one role. Rows disappear with their role or permission.
type RolePermission struct {
	RoleID       uint       `gorm:"primaryKey;column:role_id" json:"role_id"`
	PermissionID uint       `gorm:"primaryKey;column:permission_id;index" json:"permission_id"`
	Role         Role       `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"-"`
	Permission   Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE" json:"-"`
	// CreatedAt is when the grant was added; unchanged grants keep it across replacements.
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the database table name for the RolePermission model.
func (RolePermission) TableName() string {
	return "role_permissions"
}
