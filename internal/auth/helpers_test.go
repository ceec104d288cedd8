package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoAbsensi/GoAbsensi/internal/db/models"
)

func seedPermission(t *testing.T, db *gorm.DB, resource, action string) models.Permission {
	t.Helper()

	p := models.Permission{Resource: resource, Action: action}
	require.NoError(t, db.Create(&p).Error)

	return p
}

func seedRole(t *testing.T, db *gorm.DB, name string, perms ...models.Permission) models.Role {
	t.Helper()

	r := models.Role{Name: name}
	require.NoError(t, db.Create(&r).Error)

	for _, p := range perms {
		require.NoError(t, db.Create(&models.RolePermission{RoleID: r.ID, PermissionID: p.ID}).Error)
	}

	return r
}

func seedUser(t *testing.T, db *gorm.DB, username string, roles ...models.Role) models.User {
	t.Helper()

	u := models.User{Active: true, Username: username, Password: models.HashPassword("rahasia123")}
	require.NoError(t, db.Create(&u).Error)

	for _, r := range roles {
		require.NoError(t, db.Create(&models.UserRole{UserID: u.ID, RoleID: r.ID}).Error)
	}

	return u
}
