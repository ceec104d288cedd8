package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// User is a staff account (teacher, employee, headmaster or administrator).
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Active indicates whether the account can log in.
	Active bool `json:"active"`
	// Username is the unique username for login.
	Username string `gorm:"unique;size:100;not null" json:"username"`
	// Email is the user's email address.
	Email string `gorm:"size:255" json:"email"`
	// Password is the Argon2id hashed password.
	Password string `gorm:"size:255" json:"-"`
	// FullName is the display name of the user.
	FullName string `gorm:"size:200" json:"full_name"`
	// NIP is the civil servant or staff registration number.
	NIP string `gorm:"column:nip;size:50" json:"nip"`
	// FaceEnrolledAt is when face data was last enrolled. Nil after an approved reset.
	FaceEnrolledAt *time.Time `json:"face_enrolled_at"`
	// Roles are the roles held by the user.
	Roles []Role `gorm:"many2many:user_roles" json:"roles,omitempty"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the user's stored hash.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
