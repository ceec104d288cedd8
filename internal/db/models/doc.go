// Package models contains database model definitions.
package models

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&Role{},
		&Permission{},
		&User{},
		&RolePermission{},
		&UserRole{},
		&UserPermissionOverride{},
		&Lokasi{},
		&Shift{},
		&Pengajuan{},
		&FaceReset{},
	}
}
