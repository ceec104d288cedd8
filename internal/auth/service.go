package auth

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoAbsensi/GoAbsensi/internal/db/models"
	"github.com/GoAbsensi/GoAbsensi/internal/permission"
)

// Service is the database backed permission store.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

var (
	_ permission.Store      = (*Service)(nil)
	_ permission.AdminStore = (*Service)(nil)
)

// RolePermissions implements permission.Store.
func (s *Service) RolePermissions(ctx context.Context, userID uint64) ([]permission.RoleGrant, error) {
	var grants []permission.RoleGrant

	err := s.db.WithContext(ctx).Table("permissions").
		Select("permissions.resource, permissions.action").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Where("user_roles.user_id = ?", userID).
		Scan(&grants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load role permissions: %w", err)
	}

	return grants, nil
}

type overrideRow struct {
	Resource string
	Action   string
	Granted  bool
}

// UserOverrides implements permission.Store.
func (s *Service) UserOverrides(ctx context.Context, userID uint64) ([]permission.Override, error) {
	var rows []overrideRow

	err := s.db.WithContext(ctx).Table("user_permission_overrides").
		Select("permissions.resource, permissions.action, user_permission_overrides.granted").
		Joins("JOIN permissions ON permissions.id = user_permission_overrides.permission_id").
		Where("user_permission_overrides.user_id = ?", userID).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load permission overrides: %w", err)
	}

	overrides := make([]permission.Override, 0, len(rows))
	for _, r := range rows {
		overrides = append(overrides, permission.NewOverride(r.Resource, r.Action, r.Granted))
	}

	return overrides, nil
}

// UnknownPermissionIDs implements permission.AdminStore.
func (s *Service) UnknownPermissionIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var existing []uint

	if err := s.db.WithContext(ctx).Model(&models.Permission{}).
		Where("id IN ?", ids).
		Pluck("id", &existing).Error; err != nil {
		return nil, fmt.Errorf("failed to look up permissions: %w", err)
	}

	known := make(map[uint]struct{}, len(existing))
	for _, id := range existing {
		known[id] = struct{}{}
	}

	var unknown []uint

	for _, id := range ids {
		if _, ok := known[id]; !ok {
			unknown = append(unknown, id)
		}
	}

	return unknown, nil
}

// ReplaceRolePermissions implements permission.AdminStore. Only the difference
// between the stored and the requested grants is written. The members of the role
// are read in the same transaction.
func (s *Service) ReplaceRolePermissions(ctx context.Context, roleID uint, ids []uint) ([]uint64, error) {
	var members []uint64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.Role{}, roleID, ErrRoleNotFound); err != nil {
			return err
		}

		var current []uint

		if err := tx.Model(&models.RolePermission{}).
			Where("role_id = ?", roleID).
			Pluck("permission_id", &current).Error; err != nil {
			return fmt.Errorf("failed to load role permissions: %w", err)
		}

		add, remove := diffIDs(current, ids)

		if len(remove) > 0 {
			if err := tx.Where("role_id = ? AND permission_id IN ?", roleID, remove).
				Delete(&models.RolePermission{}).Error; err != nil {
				return fmt.Errorf("failed to remove role permissions: %w", err)
			}
		}

		if len(add) > 0 {
			rows := make([]models.RolePermission, 0, len(add))
			for _, id := range add {
				rows = append(rows, models.RolePermission{RoleID: roleID, PermissionID: id})
			}

			if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
				return fmt.Errorf("failed to add role permissions: %w", err)
			}
		}

		var err error

		members, err = roleMembers(tx, roleID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return members, nil
}

// ReplaceUserOverrides implements permission.AdminStore.
func (s *Service) ReplaceUserOverrides(ctx context.Context, userID uint64, overrides []permission.OverrideInput) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.User{}, userID, ErrUserNotFound); err != nil {
			return err
		}

		var current []models.UserPermissionOverride

		if err := tx.Where("user_id = ?", userID).Find(&current).Error; err != nil {
			return fmt.Errorf("failed to load permission overrides: %w", err)
		}

		stored := make(map[uint]bool, len(current))
		for _, o := range current {
			stored[o.PermissionID] = o.Grant
		}

		wanted := make(map[uint]struct{}, len(overrides))

		for _, o := range overrides {
			wanted[o.PermissionID] = struct{}{}

			grant, ok := stored[o.PermissionID]

			switch {
			case !ok:
				row := models.UserPermissionOverride{UserID: userID, PermissionID: o.PermissionID, Grant: o.Grant}
				if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
					return fmt.Errorf("failed to add permission override: %w", err)
				}
			case grant != o.Grant:
				if err := tx.Model(&models.UserPermissionOverride{}).
					Where("user_id = ? AND permission_id = ?", userID, o.PermissionID).
					Update("granted", o.Grant).Error; err != nil {
					return fmt.Errorf("failed to update permission override: %w", err)
				}
			}
		}

		var remove []uint

		for id := range stored {
			if _, ok := wanted[id]; !ok {
				remove = append(remove, id)
			}
		}

		if len(remove) == 0 {
			return nil
		}

		if err := tx.Where("user_id = ? AND permission_id IN ?", userID, remove).
			Delete(&models.UserPermissionOverride{}).Error; err != nil {
			return fmt.Errorf("failed to remove permission overrides: %w", err)
		}

		return nil
	})
}

// AssignRole implements permission.AdminStore.
func (s *Service) AssignRole(ctx context.Context, userID uint64, roleID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.User{}, userID, ErrUserNotFound); err != nil {
			return err
		}

		if err := exists(tx, &models.Role{}, roleID, ErrRoleNotFound); err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.UserRole{}).Error; err != nil {
			return fmt.Errorf("failed to remove roles: %w", err)
		}

		if err := tx.Omit(clause.Associations).
			Create(&models.UserRole{UserID: userID, RoleID: roleID}).Error; err != nil {
			return fmt.Errorf("failed to assign role: %w", err)
		}

		return nil
	})
}

func roleMembers(db *gorm.DB, roleID uint) ([]uint64, error) {
	var ids []uint64

	if err := db.Model(&models.UserRole{}).
		Where("role_id = ?", roleID).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load role members: %w", err)
	}

	return ids, nil
}

// ListPermissions returns every permission ordered by resource and action.
func (s *Service) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	var perms []models.Permission

	if err := s.db.WithContext(ctx).Order("resource, action").Find(&perms).Error; err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}

	return perms, nil
}

// ListRoles returns every role with its granted permissions.
func (s *Service) ListRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role

	if err := s.db.WithContext(ctx).
		Preload("Permissions", func(db *gorm.DB) *gorm.DB { return db.Order("resource, action") }).
		Order("name").
		Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	return roles, nil
}

// GetRole returns one role with its granted permissions.
func (s *Service) GetRole(ctx context.Context, roleID uint) (*models.Role, error) {
	var role models.Role

	err := s.db.WithContext(ctx).Preload("Permissions").First(&role, roleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoleNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load role: %w", err)
	}

	return &role, nil
}

// ListOverrides returns the stored overrides of userID with their permissions.
func (s *Service) ListOverrides(ctx context.Context, userID uint64) ([]models.UserPermissionOverride, error) {
	var overrides []models.UserPermissionOverride

	if err := s.db.WithContext(ctx).Preload("Permission").
		Where("user_id = ?", userID).
		Order("permission_id").
		Find(&overrides).Error; err != nil {
		return nil, fmt.Errorf("failed to list permission overrides: %w", err)
	}

	return overrides, nil
}

func exists(tx *gorm.DB, model interface{}, id interface{}, notFound error) error {
	var count int64

	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up record: %w", err)
	}

	if count == 0 {
		return notFound
	}

	return nil
}

// diffIDs returns the ids of want missing in have and the ids of have missing in want.
func diffIDs(have, want []uint) (add, remove []uint) {
	inHave := make(map[uint]struct{}, len(have))
	for _, id := range have {
		inHave[id] = struct{}{}
	}

	inWant := make(map[uint]struct{}, len(want))

	for _, id := range want {
		inWant[id] = struct{}{}

		if _, ok := inHave[id]; !ok {
			add = append(add, id)
		}
	}

	for _, id := range have {
		if _, ok := inWant[id]; !ok {
			remove = append(remove, id)
		}
	}

	return add, remove
}
