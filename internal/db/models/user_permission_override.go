package models

import "time"

// UserPermissionOverride grants or revokes a single permission for one user,
// regardless of what the user's roles grant. A missing row defers to the roles.
type UserPermissionOverride struct {
	// UserID is the ID of the user the override applies to.
	UserID uint64 `gorm:"primaryKey;column:user_id" json:"user_id"`
	// PermissionID is the ID of the overridden permission.
	PermissionID uint `gorm:"primaryKey;column:permission_id" json:"permission_id"`
	// Grant adds the permission when true and removes it when false.
	Grant bool `gorm:"column:granted;not null" json:"grant"`
	// User is the associated user.
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	// Permission is the associated permission.
	Permission Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE" json:"permission"`
	// UpdatedAt is the timestamp when the override was last written.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the UserPermissionOverride model.
func (UserPermissionOverride) TableName() string {
	return "user_permission_overrides"
}
