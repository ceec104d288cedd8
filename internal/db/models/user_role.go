package models

import "time"

// UserRole links a user to a role. The schema allows many roles per user;
// the administration API keeps exactly one.
type UserRole struct {
	UserID    uint64 `gorm:"primaryKey;column:user_id"`
	RoleID    uint   `gorm:"primaryKey;column:role_id"`
	User      User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Role      Role   `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// TableName specifies the database table name for the UserRole model.
func (UserRole) TableName() string {
	return "user_roles"
}
