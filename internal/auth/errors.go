package auth

import (
	"errors"

	"github.com/GoAbsensi/GoAbsensi/internal/permission"
)

var (
	// ErrInvalidCredentials is returned when username or password do not match.
	// It deliberately does not tell which of the two was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUserNameOrEmailExists is returned when attempting to create a user with a username or email that already exists.
	ErrUserNameOrEmailExists = errors.New("user with username or email already exists")

	// ErrUserAccountDisabled is returned when attempting to authenticate a disabled user account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrUserNotFound is returned when a user cannot be found in the database.
	ErrUserNotFound = permission.ErrUserNotFound

	// ErrRoleNotFound is returned when a role cannot be found in the database.
	ErrRoleNotFound = permission.ErrRoleNotFound
)
