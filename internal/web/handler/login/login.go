// Package login issues credentials for local users.
package login

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoAbsensi/GoAbsensi/internal/auth"
	"github.com/GoAbsensi/GoAbsensi/internal/db/models"
	"github.com/GoAbsensi/GoAbsensi/internal/web/handler"
)

const (
	// Path is the auth route group.
	Path = "/auth"

	// RouteLogin exchanges username and password for a credential.
	RouteLogin = "/login"
	// RouteMe returns the caller and its live permissions.
	RouteMe = "/me"
)

// Request is the login body.
type Request struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Response is returned by a successful login.
type Response struct {
	Token       string      `json:"token"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        models.User `json:"user"`
	Permissions []string    `json:"permissions"`
}

// MeResponse describes the authenticated caller.
type MeResponse struct {
	User        *models.User `json:"user"`
	Permissions []string     `json:"permissions"`
}

// Service is the login handler service.
type Service struct {
	deps *handler.Dependencies
}

// Init registers the login routes.
func (s *Service) Init(router fiber.Router, deps *handler.Dependencies) error {
	if err := handler.Check(router, deps); err != nil {
		return err
	}

	s.deps = deps

	router.Route(Path, func(r fiber.Router) {
		r.Post(RouteLogin, s.Post)
		r.Get(RouteMe, deps.Guard.RequireAuthenticated(), s.Me)
	})

	return nil
}

// Post verifies the password and issues a credential embedding the effective permissions.
func (s *Service) Post(c *fiber.Ctx) error {
	var req Request

	if err := handler.Bind(c, s.deps, &req); err != nil {
		return err
	}

	ctx := c.UserContext()

	user, err := s.deps.Users.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		log.Info().Str("username", req.Username).Err(err).Msg("login failed")
		return err
	}

	perms, err := s.deps.Cache.Get(ctx, user.ID)
	if err != nil {
		return err //nolint:wrapcheck
	}

	raw, claims, err := s.deps.Tokens.Issue(user.ID, user.Username, perms)
	if err != nil {
		return err //nolint:wrapcheck
	}

	c.Cookie(&fiber.Cookie{
		Name:     s.deps.Config.Auth.CookieName,
		Value:    raw,
		Expires:  claims.ExpiresAt.Time,
		Secure:   s.deps.Config.Auth.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	log.Info().Uint64("user_id", user.ID).Msg("user logged in")

	return c.JSON(Response{
		Token:       raw,
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        *user,
		Permissions: perms.Strings(),
	})
}

// Me returns the caller with permissions resolved from the store, not from the credential.
func (s *Service) Me(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := auth.UserID(c)

	user, err := s.deps.Users.GetUserByID(ctx, id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	perms, err := s.deps.Cache.Get(ctx, id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(MeResponse{User: user, Permissions: perms.Strings()})
}
