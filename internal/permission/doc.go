// Package permission implements the permission resolution engine.
//
// A user's effective permission set is the union of the grants of every role
// the user holds, merged with the user's own overrides. An override replaces
// the role-derived membership of exactly one permission: Grant adds it, Revoke
// removes it, and the absence of an override defers to the roles.
//
// # Components
//
//   - Key / Set: canonical "resource:action" keys and sets of them
//   - Resolver: computes the effective set from a Store
//   - Cache: time-bounded cache in front of the Resolver (MemoryCache, RedisCache)
//   - CanFromClaims: pure membership check against a credential's embedded keys
//   - Gate: per-request allow/deny decision (claims first, live lookup second)
//   - Admin: replaces role grants and user overrides, then invalidates the cache
//
// The claims fast path may only ever move a decision toward allow. A claims
// miss always falls through to the live lookup before a request is refused, so
// a user whose permissions were upgraded after login is not rejected. A grant
// revoked after login stays usable through the claims until the credential
// expires.
//
// Example usage:
//
//	resolver := permission.NewResolver(store)
//	cache := permission.NewMemoryCache(resolver, time.Minute)
//	gate := permission.NewGate(tokens, cache)
//
//	id, err := gate.Authorize(ctx, rawToken, "izin", "read")
package permission
