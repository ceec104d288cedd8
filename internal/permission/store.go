package permission

import (
	"context"
)

// RoleGrant is a permission granted to one of a user's roles, as stored.
type RoleGrant struct {
	Resource string
	Action   string
}

// Store is the read side of the persistent source of truth.
type Store interface {
	// RolePermissions returns the permissions granted to every role held by userID.
	RolePermissions(ctx context.Context, userID uint64) ([]RoleGrant, error)
	// UserOverrides returns the override records of userID.
	UserOverrides(ctx context.Context, userID uint64) ([]Override, error)
}

// OverrideInput is one entry of an administrative override replacement.
type OverrideInput struct {
	PermissionID uint `json:"permission_id"`
	Grant        bool `json:"grant"`
}

// AdminStore is the write side used by Admin. Replace calls must be atomic.
type AdminStore interface {
	// UnknownPermissionIDs returns the ids in ids that do not reference an existing permission.
	UnknownPermissionIDs(ctx context.Context, ids []uint) ([]uint, error)
	// ReplaceRolePermissions makes ids the exact grant set of roleID and returns
	// the users holding the role, read in the same transaction.
	ReplaceRolePermissions(ctx context.Context, roleID uint, ids []uint) ([]uint64, error)
	// ReplaceUserOverrides makes overrides the exact override set of userID.
	ReplaceUserOverrides(ctx context.Context, userID uint64, overrides []OverrideInput) error
	// AssignRole makes roleID the only role of userID.
	AssignRole(ctx context.Context, userID uint64, roleID uint) error
}
