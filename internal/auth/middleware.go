package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/GoAbsensi/GoAbsensi/internal/permission"
)

const localsIdentity = "identity"

// Middleware protects fiber routes with the permission gate.
type Middleware struct {
	gate       *permission.Gate
	cookieName string
}

// NewMiddleware creates route guards. Credentials are read from the Authorization
// bearer header and, for browser clients, from the cookie named cookieName.
func NewMiddleware(gate *permission.Gate, cookieName string) *Middleware {
	return &Middleware{gate: gate, cookieName: cookieName}
}

// RequirePermission lets the request through only if its credential is valid and
// grants resource:action.
func (m *Middleware) RequirePermission(resource, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := m.gate.Authorize(c.UserContext(), Credential(c, m.cookieName), resource, action)
		if err != nil {
			return err
		}

		c.Locals(localsIdentity, id)

		return c.Next()
	}
}

// RequireAuthenticated lets the request through if its credential is valid.
func (m *Middleware) RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := m.gate.Authenticate(c.UserContext(), Credential(c, m.cookieName))
		if err != nil {
			return err
		}

		c.Locals(localsIdentity, id)

		return c.Next()
	}
}

// Can reports whether the identity of an already guarded request also holds resource:action.
func (m *Middleware) Can(c *fiber.Ctx, resource, action string) (bool, error) {
	id, ok := IdentityFrom(c)
	if !ok {
		return false, nil
	}

	return m.gate.Allowed(c.UserContext(), id, resource, action)
}

// Credential extracts the raw credential of the request, empty if there is none.
func Credential(c *fiber.Ctx, cookieName string) string {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		scheme, raw, found := strings.Cut(h, " ")
		if found && strings.EqualFold(scheme, "bearer") {
			return strings.TrimSpace(raw)
		}

		return ""
	}

	if cookieName == "" {
		return ""
	}

	return c.Cookies(cookieName)
}

// IdentityFrom returns the identity stored by the guards.
func IdentityFrom(c *fiber.Ctx) (permission.Identity, bool) {
	id, ok := c.Locals(localsIdentity).(permission.Identity)
	return id, ok
}

// UserID returns the authenticated user of the request or 0.
func UserID(c *fiber.Ctx) uint64 {
	id, _ := IdentityFrom(c)
	return id.UserID
}
