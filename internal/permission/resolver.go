package permission

import (
	"context"
	"fmt"
)

// SetResolver computes an effective permission set.
type SetResolver interface {
	Resolve(ctx context.Context, userID uint64) (Set, error)
}

// Resolver merges role grants with user overrides.
type Resolver struct {
	store Store
}

// NewResolver creates a resolver reading from store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the effective permission set of userID.
//
// The base set is the union of all role grants with a known action. Overrides are
// applied only once the base set is complete: Grant adds the key, Revoke removes it.
// Store failures are returned as is; no permission is granted on error.
func (r *Resolver) Resolve(ctx context.Context, userID uint64) (Set, error) {
	grants, err := r.store.RolePermissions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load role permissions of user %d: %w", userID, err)
	}

	overrides, err := r.store.UserOverrides(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load permission overrides of user %d: %w", userID, err)
	}

	set := make(Set, len(grants))

	for _, g := range grants {
		k := NewKey(g.Resource, g.Action)
		if !k.KnownAction() {
			continue
		}

		set.Add(k)
	}

	for _, o := range overrides {
		o.apply(set)
	}

	return set, nil
}
