package auth

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoAbsensi/GoAbsensi/internal/db/models"
)

// LocalProvider handles local database authentication.
type LocalProvider struct {
	db *gorm.DB
}

// NewUser holds the fields of a user created by an administrator.
type NewUser struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,max=200"`
	NIP      string `json:"nip" validate:"max=50"`
	RoleID   uint   `json:"role_id" validate:"required"`
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// Authenticate checks username and password against the local database.
func (p *LocalProvider) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User

	err := p.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	return &user, nil
}

// CreateUser creates an active user holding the role in u.RoleID.
func (p *LocalProvider) CreateUser(ctx context.Context, u NewUser) (*models.User, error) {
	user := models.User{
		Active:   true,
		Username: u.Username,
		Email:    u.Email,
		Password: models.HashPassword(u.Password),
		FullName: u.FullName,
		NIP:      u.NIP,
	}

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64

		q := tx.Model(&models.User{}).Where("username = ?", u.Username)
		if u.Email != "" {
			q = q.Or("email = ?", u.Email)
		}

		if err := q.Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check existing user: %w", err)
		}

		if count > 0 {
			return ErrUserNameOrEmailExists
		}

		if err := exists(tx, &models.Role{}, u.RoleID, ErrRoleNotFound); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		return tx.Omit(clause.Associations).Create(&models.UserRole{UserID: user.ID, RoleID: u.RoleID}).Error
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// SetActive activates or deactivates a user account.
func (p *LocalProvider) SetActive(ctx context.Context, userID uint64, active bool) error {
	res := p.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("active", active)
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// GetUserByID retrieves a user with its roles.
func (p *LocalProvider) GetUserByID(ctx context.Context, userID uint64) (*models.User, error) {
	var user models.User

	err := p.db.WithContext(ctx).Preload("Roles").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}

// ListUsers lists users with their roles, optionally filtered by active state.
func (p *LocalProvider) ListUsers(ctx context.Context, active *bool, limit, offset int) ([]models.User, int64, error) {
	var (
		users []models.User
		total int64
	)

	query := p.db.WithContext(ctx).Model(&models.User{})

	if active != nil {
		query = query.Where("active = ?", *active)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	if err := query.Preload("Roles").Order("id").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}
