// Package token issues and verifies the signed credentials handed out at login.
//
// A credential is an HS256 JWT whose claims embed the user's effective
// permission set at issuance time. Verification checks signature, issuer and
// expiry, rejects credentials listed in the revocation store (logout), and
// refuses claims whose permission entries are not canonical keys.
package token
