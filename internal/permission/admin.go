package permission

import (
	"context"
	"fmt"
)

// Admin changes role grants and user overrides and keeps the cache consistent with them.
type Admin struct {
	store AdminStore
	cache Cache
}

// NewAdmin creates an Admin writing to store and invalidating cache.
func NewAdmin(store AdminStore, cache Cache) *Admin {
	return &Admin{store: store, cache: cache}
}

// ReplaceRolePermissions makes permissionIDs the exact grant set of roleID.
// Every user holding the role is invalidated after the write commits.
func (a *Admin) ReplaceRolePermissions(ctx context.Context, roleID uint, permissionIDs []uint) error {
	ids := uniqueIDs(permissionIDs)

	if err := a.checkKnown(ctx, ids); err != nil {
		return err
	}

	members, err := a.store.ReplaceRolePermissions(ctx, roleID, ids)
	if err != nil {
		return err
	}

	return a.cache.Invalidate(ctx, members...)
}

// ReplaceUserOverrides makes overrides the exact override set of userID.
// Listing the same permission twice is rejected.
func (a *Admin) ReplaceUserOverrides(ctx context.Context, userID uint64, overrides []OverrideInput) error {
	var (
		seen       = make(map[uint]struct{}, len(overrides))
		duplicates []uint
		ids        = make([]uint, 0, len(overrides))
	)

	for _, o := range overrides {
		if _, ok := seen[o.PermissionID]; ok {
			duplicates = append(duplicates, o.PermissionID)
			continue
		}

		seen[o.PermissionID] = struct{}{}
		ids = append(ids, o.PermissionID)
	}

	if len(duplicates) > 0 {
		return newValidationError(DetailDuplicatePermissionIDs, uniqueIDs(duplicates))
	}

	if err := a.checkKnown(ctx, ids); err != nil {
		return err
	}

	if err := a.store.ReplaceUserOverrides(ctx, userID, overrides); err != nil {
		return err
	}

	return a.cache.Invalidate(ctx, userID)
}

// AssignRole makes roleID the only role of userID.
func (a *Admin) AssignRole(ctx context.Context, userID uint64, roleID uint) error {
	if err := a.store.AssignRole(ctx, userID, roleID); err != nil {
		return err
	}

	return a.cache.Invalidate(ctx, userID)
}

func (a *Admin) checkKnown(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	unknown, err := a.store.UnknownPermissionIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to validate permission ids: %w", err)
	}

	if len(unknown) > 0 {
		return newValidationError(DetailUnknownPermissionIDs, unknown)
	}

	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
