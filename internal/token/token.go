package token

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/GoAbsensi/GoAbsensi/internal/permission"
)

const (
	// DefaultTTL is the lifetime of a login credential.
	DefaultTTL = 20 * time.Minute

	// MinSecretLength is the minimal signing secret length in bytes.
	MinSecretLength = 32

	revokedPrefix = "revoked:"
)

// Claims is the payload of a credential.
type Claims struct {
	Username    string   `json:"username"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// Manager issues and verifies credentials.
type Manager struct {
	secret  []byte
	issuer  string
	ttl     time.Duration
	revoked fiber.Storage
	now     func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager. revoked stores ids of credentials revoked before expiry.
func NewManager(secret, issuer string, ttl time.Duration, revoked fiber.Storage, opts ...Option) (*Manager, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	m := &Manager{
		secret:  []byte(secret),
		issuer:  issuer,
		ttl:     ttl,
		revoked: revoked,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// TTL returns the lifetime of issued credentials.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a credential for the user embedding perms as a snapshot.
func (m *Manager) Issue(userID uint64, username string, perms permission.Set) (string, *Claims, error) {
	now := m.now()

	claims := &Claims{
		Username:    username,
		Permissions: perms.Strings(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to sign credential")
	}

	return signed, claims, nil
}

// Verify implements permission.Verifier.
func (m *Manager) Verify(_ context.Context, raw string) (permission.Identity, error) {
	claims := new(Claims)

	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return permission.Identity{}, ErrExpired
	default:
		return permission.Identity{}, fmt.Errorf("%w: %v", ErrInvalid, err) //nolint:errorlint
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 || claims.ID == "" {
		return permission.Identity{}, ErrMalformedClaims
	}

	perms := make([]string, 0, len(claims.Permissions))

	for _, p := range claims.Permissions {
		k := permission.ParseKey(p)
		if !k.KnownAction() {
			return permission.Identity{}, ErrMalformedClaims
		}

		perms = append(perms, k.String())
	}

	revoked, err := m.isRevoked(claims.ID)
	if err != nil {
		return permission.Identity{}, err
	}

	if revoked {
		return permission.Identity{}, ErrRevoked
	}

	return permission.Identity{
		UserID:    userID,
		Username:  claims.Username,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
		Claims:    perms,
	}, nil
}

// Revoke blocks the credential of id until it expires on its own.
func (m *Manager) Revoke(id permission.Identity) error {
	if m.revoked == nil || id.TokenID == "" {
		return nil
	}

	remaining := id.ExpiresAt.Sub(m.now())
	if remaining <= 0 {
		return nil
	}

	return errors.Wrap(m.revoked.Set(revokedPrefix+id.TokenID, []byte{1}, remaining), "failed to revoke credential")
}

func (m *Manager) isRevoked(tokenID string) (bool, error) {
	if m.revoked == nil {
		return false, nil
	}

	val, err := m.revoked.Get(revokedPrefix + tokenID)
	if err != nil {
		return false, errors.Wrap(err, "failed to read revoked credentials")
	}

	return len(val) > 0, nil
}
