// Package resetwajah handles requests to discard enrolled face data.
package resetwajah

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoAbsensi/GoAbsensi/internal/auth"
	"github.com/GoAbsensi/GoAbsensi/internal/db/controller/facereset"
	"github.com/GoAbsensi/GoAbsensi/internal/permission"
	"github.com/GoAbsensi/GoAbsensi/internal/web/handler"
)

const (
	// Path is the base path for face reset requests.
	Path = "/reset-wajah"
	// RouteReview approves or rejects a request.
	RouteReview = Path + "/:id/review"
)

// Service is the reset wajah handler service.
type Service struct {
	deps *handler.Dependencies
	now  func() time.Time
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Dependencies) error {
	if err := handler.Check(router, deps); err != nil {
		return err
	}

	s.deps = deps
	if s.now == nil {
		s.now = time.Now
	}

	g := deps.Guard

	router.Post(Path, g.RequirePermission(auth.ResourceResetWajah, permission.ActionCreate), s.Create)
	router.Get(Path, g.RequirePermission(auth.ResourceResetWajah, permission.ActionRead), s.List)
	router.Put(RouteReview, g.RequirePermission(auth.ResourceResetWajah, permission.ActionUpdate), s.Review)

	return nil
}

// Create asks for the caller's face data to be reset.
func (s *Service) Create(c *fiber.Ctx) error {
	var in facereset.Input

	if err := handler.Bind(c, s.deps, &in); err != nil {
		return err
	}

	r, err := facereset.Create(s.deps.DB.WithContext(c.UserContext()), auth.UserID(c), in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.Status(fiber.StatusCreated).JSON(r)
}

// List returns requests, filtered by the status query parameter.
func (s *Service) List(c *fiber.Ctx) error {
	status, err := handler.StatusFilter(c)
	if err != nil {
		return err
	}

	all, err := facereset.List(s.deps.DB.WithContext(c.UserContext()), facereset.Filter{Status: status})
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(all)
}

// Review approves or rejects a pending request. Approval clears the enrolled face data.
func (s *Service) Review(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err
	}

	var d handler.Decision

	if err := handler.Bind(c, s.deps, &d); err != nil {
		return err
	}

	r, err := facereset.Review(s.deps.DB.WithContext(c.UserContext()), id, auth.UserID(c), d.Approve(), s.now())
	if err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Uint64("face_reset_id", id).Uint64("user_id", r.UserID).Str("status", string(r.Status)).
		Uint64("by", auth.UserID(c)).Msg("face reset reviewed")

	return c.JSON(r)
}
