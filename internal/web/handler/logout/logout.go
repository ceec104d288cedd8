// Package logout revokes credentials.
package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoAbsensi/GoAbsensi/internal/auth"
	"github.com/GoAbsensi/GoAbsensi/internal/web/handler"
)

// Path of the logout route.
const Path = "/auth/logout"

// Service is the logout handler service.
type Service struct {
	deps *handler.Dependencies
}

// Init registers the logout route.
func (s *Service) Init(router fiber.Router, deps *handler.Dependencies) error {
	if err := handler.Check(router, deps); err != nil {
		return err
	}

	s.deps = deps

	router.Post(Path, deps.Guard.RequireAuthenticated(), s.Logout)

	return nil
}

// Logout puts the credential on the denylist until it expires and clears the cookie.
func (s *Service) Logout(c *fiber.Ctx) error {
	id, _ := auth.IdentityFrom(c)

	if err := s.deps.Tokens.Revoke(id); err != nil {
		return err //nolint:wrapcheck
	}

	c.Cookie(&fiber.Cookie{
		Name:     s.deps.Config.Auth.CookieName,
		Value:    "",
		MaxAge:   -1,
		Secure:   s.deps.Config.Auth.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	log.Info().Uint64("user_id", id.UserID).Msg("user logged out")

	return c.SendStatus(fiber.StatusNoContent)
}
