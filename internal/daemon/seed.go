package daemon

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoAbsensi/GoAbsensi/internal/auth"
	"github.com/GoAbsensi/GoAbsensi/internal/config"
	"github.com/GoAbsensi/GoAbsensi/internal/db/models"
	"github.com/GoAbsensi/GoAbsensi/internal/permission"
)

// ErrSeedAdminIncomplete is returned when the seed admin has no username or password.
var ErrSeedAdminIncomplete = errors.New("seed admin username and password must be set")

// staffGrants are the default grants of teachers and employees.
var staffGrants = []permission.Key{ //nolint:gochecknoglobals
	permission.NewKey(auth.ResourceAbsensi, permission.ActionCreate),
	permission.NewKey(auth.ResourceAbsensi, permission.ActionRead),
	permission.NewKey(auth.ResourceIzin, permission.ActionCreate),
	permission.NewKey(auth.ResourceIzin, permission.ActionRead),
	permission.NewKey(auth.ResourceResetWajah, permission.ActionCreate),
	permission.NewKey(auth.ResourceLokasi, permission.ActionRead),
	permission.NewKey(auth.ResourceShift, permission.ActionRead),
}

// defaultGrants decides whether role holds key on a fresh install.
func defaultGrants(role string, key permission.Key) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleKepalaSekolah:
		return key.Action() == permission.ActionRead ||
			key == permission.NewKey(auth.ResourceIzin, permission.ActionUpdate) ||
			key == permission.NewKey(auth.ResourceResetWajah, permission.ActionUpdate)
	default:
		for _, k := range staffGrants {
			if k == key {
				return true
			}
		}

		return false
	}
}

var roleDescriptions = map[string]string{ //nolint:gochecknoglobals
	models.RoleAdmin:         "Full access to every resource",
	models.RoleKepalaSekolah: "Headmaster: reads everything, reviews leave and face reset requests",
	models.RoleGuru:          "Teacher",
	models.RolePegawai:       "Employee",
}

// Seed creates the permission catalogue, the system roles with their default grants and the
// first administrator. Existing rows are left alone, so it is safe to run on every start.
func Seed(ctx context.Context, db *gorm.DB, cfg config.Seed) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		perms, err := seedPermissions(tx)
		if err != nil {
			return err
		}

		roles := make(map[string]models.Role, len(roleDescriptions))

		for _, name := range []string{models.RoleAdmin, models.RoleKepalaSekolah, models.RoleGuru, models.RolePegawai} {
			role, created, err := seedRole(tx, name, perms)
			if err != nil {
				return err
			}

			if created {
				log.Info().Str("role", name).Msg("seeded role")
			}

			roles[name] = role
		}

		return seedAdmin(tx, cfg, roles[models.RoleAdmin])
	})
}

func seedPermissions(tx *gorm.DB) ([]models.Permission, error) {
	perms := make([]models.Permission, 0, len(auth.Resources)*len(permission.Actions))

	for _, resource := range auth.Resources {
		for _, action := range permission.Actions {
			perms = append(perms, models.Permission{
				Resource:    resource,
				Action:      action,
				Description: fmt.Sprintf("%s %s", action, auth.ResourceLabels[resource]),
			})
		}
	}

	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&perms).Error; err != nil {
		return nil, fmt.Errorf("failed to seed permissions: %w", err)
	}

	var all []models.Permission
	if err := tx.Find(&all).Error; err != nil {
		return nil, fmt.Errorf("failed to load permissions: %w", err)
	}

	return all, nil
}

// seedRole creates a missing system role with its default grants. Grants of an existing role
// are never touched, administrators may have changed them.
func seedRole(tx *gorm.DB, name string, perms []models.Permission) (models.Role, bool, error) {
	var role models.Role

	err := tx.Where("name = ?", name).First(&role).Error
	if err == nil {
		return role, false, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return role, false, fmt.Errorf("failed to load role %s: %w", name, err)
	}

	role = models.Role{Name: name, Description: roleDescriptions[name], IsSystem: true}
	if err := tx.Omit(clause.Associations).Create(&role).Error; err != nil {
		return role, false, fmt.Errorf("failed to seed role %s: %w", name, err)
	}

	var grants []models.RolePermission

	for _, p := range perms {
		if defaultGrants(name, permission.NewKey(p.Resource, p.Action)) {
			grants = append(grants, models.RolePermission{RoleID: role.ID, PermissionID: p.ID})
		}
	}

	if len(grants) == 0 {
		return role, true, nil
	}

	if err := tx.Omit(clause.Associations).Create(&grants).Error; err != nil {
		return role, true, fmt.Errorf("failed to grant permissions to %s: %w", name, err)
	}

	return role, true, nil
}

func seedAdmin(tx *gorm.DB, cfg config.Seed, admin models.Role) error {
	var count int64

	if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}

	if count > 0 {
		return nil
	}

	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return ErrSeedAdminIncomplete
	}

	u := models.User{
		Active:   true,
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		FullName: "Administrator",
		Password: models.HashPassword(cfg.AdminPassword),
	}

	if err := tx.Omit(clause.Associations).Create(&u).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	if err := tx.Omit(clause.Associations).Create(&models.UserRole{UserID: u.ID, RoleID: admin.ID}).Error; err != nil {
		return fmt.Errorf("failed to assign admin role: %w", err)
	}

	log.Warn().Str("username", u.Username).Msg("created initial admin user, change its password")

	return nil
}
