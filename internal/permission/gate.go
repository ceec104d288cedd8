package permission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Identity is the verified subject of a credential.
type Identity struct {
	UserID    uint64
	Username  string
	TokenID   string
	ExpiresAt time.Time
	// Claims are the permission keys embedded at issuance. They are a snapshot, not a live view.
	Claims []string
}

// Verifier validates a raw credential and returns its identity.
type Verifier interface {
	Verify(ctx context.Context, raw string) (Identity, error)
}

// Gate decides whether a request may perform an action on a resource.
type Gate struct {
	verifier Verifier
	cache    Cache
}

// NewGate creates a gate verifying credentials with verifier and looking up live sets in cache.
func NewGate(verifier Verifier, cache Cache) *Gate {
	return &Gate{verifier: verifier, cache: cache}
}

// Authenticate verifies raw. An empty credential yields ErrMissingCredential and a
// rejected one ErrInvalidCredential. Verifiers signal rejection by wrapping ErrUnauthorized;
// any other verifier error is returned wrapped and is never treated as a denial.
func (g *Gate) Authenticate(ctx context.Context, raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, ErrMissingCredential
	}

	id, err := g.verifier.Verify(ctx, raw)

	switch {
	case err == nil:
		return id, nil
	case errors.Is(err, ErrUnauthorized):
		log.Debug().Err(err).Msg("credential rejected")
		return Identity{}, ErrInvalidCredential
	default:
		log.Error().Err(err).Msg("credential verification failed")
		return Identity{}, fmt.Errorf("failed to verify credential: %w", err)
	}
}

// Allowed decides for an already verified identity. Claims can only allow;
// a claims miss is re-checked against the live set before denying.
func (g *Gate) Allowed(ctx context.Context, id Identity, resource, action string) (bool, error) {
	if CanFromClaims(id.Claims, resource, action) {
		gateDecisions.WithLabelValues("claims", "allow").Inc()
		return true, nil
	}

	set, err := g.cache.Get(ctx, id.UserID)
	if err != nil {
		return false, fmt.Errorf("failed to resolve permissions of user %d: %w", id.UserID, err)
	}

	if set.Can(resource, action) {
		gateDecisions.WithLabelValues("live", "allow").Inc()
		return true, nil
	}

	gateDecisions.WithLabelValues("live", "deny").Inc()

	return false, nil
}

// Authorize runs the full per-request check: authenticate raw, then decide resource:action.
// It fails with ErrUnauthorized (wrapped) for credential problems and ErrForbidden for missing
// permissions. Store failures are returned unchanged so they surface as internal errors.
func (g *Gate) Authorize(ctx context.Context, raw, resource, action string) (Identity, error) {
	id, err := g.Authenticate(ctx, raw)
	if err != nil {
		return Identity{}, err
	}

	ok, err := g.Allowed(ctx, id, resource, action)
	if err != nil {
		return Identity{}, err
	}

	if !ok {
		log.Warn().Uint64("user_id", id.UserID).Str("permission", NewKey(resource, action).String()).
			Msg("user lacks required permission")

		return Identity{}, ErrForbidden
	}

	return id, nil
}
