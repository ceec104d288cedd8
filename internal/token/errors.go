package token

import (
	"errors"
	"fmt"

	"github.com/GoAbsensi/GoAbsensi/internal/permission"
)

// Credential faults wrap permission.ErrInvalidCredential. Any other error returned
// by Verify is an infrastructure failure.
var (
	// ErrExpired is returned when a credential is past its expiry.
	ErrExpired = fmt.Errorf("%w: credential expired", permission.ErrInvalidCredential)

	// ErrInvalid is returned when a credential cannot be parsed or its signature does not match.
	ErrInvalid = fmt.Errorf("%w: credential invalid", permission.ErrInvalidCredential)

	// ErrRevoked is returned when a credential was revoked before its expiry.
	ErrRevoked = fmt.Errorf("%w: credential revoked", permission.ErrInvalidCredential)

	// ErrMalformedClaims is returned when the embedded claims do not have the expected shape.
	ErrMalformedClaims = fmt.Errorf("%w: credential claims malformed", permission.ErrInvalidCredential)

	// ErrSecretTooShort is returned when the signing secret is shorter than MinSecretLength.
	ErrSecretTooShort = errors.New("token secret too short")
)
