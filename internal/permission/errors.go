package permission

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnauthorized is the base error for requests without a usable identity.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrMissingCredential is returned when a request carries no credential at all.
	ErrMissingCredential = fmt.Errorf("%w: missing credential", ErrUnauthorized)

	// ErrInvalidCredential is returned when a credential fails signature, expiry or claims validation.
	ErrInvalidCredential = fmt.Errorf("%w: invalid or expired credential", ErrUnauthorized)

	// ErrForbidden is returned when a valid identity lacks the required permission.
	ErrForbidden = errors.New("forbidden")

	// ErrRoleNotFound is returned when an administrative call references an unknown role.
	ErrRoleNotFound = errors.New("role not found")

	// ErrUserNotFound is returned when an administrative call references an unknown user.
	ErrUserNotFound = errors.New("user not found")
)

// Details of the ValidationError values returned by Admin.
const (
	DetailUnknownPermissionIDs   = "unknown permission ids"
	DetailDuplicatePermissionIDs = "duplicate permission ids"
)

// ValidationError rejects malformed administrative input.
type ValidationError struct {
	Detail        string
	PermissionIDs []uint
}

func (e *ValidationError) Error() string {
	if len(e.PermissionIDs) == 0 {
		return e.Detail
	}

	ids := make([]string, 0, len(e.PermissionIDs))
	for _, id := range e.PermissionIDs {
		ids = append(ids, fmt.Sprint(id))
	}

	return e.Detail + ": " + strings.Join(ids, ", ")
}

func newValidationError(detail string, ids []uint) *ValidationError {
	sorted := append([]uint(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return &ValidationError{Detail: detail, PermissionIDs: sorted}
}
