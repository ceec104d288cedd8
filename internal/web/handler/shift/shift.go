// Package shift manages working shifts.
package shift

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoAbsensi/GoAbsensi/internal/auth"
	shiftctrl "github.com/GoAbsensi/GoAbsensi/internal/db/controller/shift"
	"github.com/GoAbsensi/GoAbsensi/internal/permission"
	"github.com/GoAbsensi/GoAbsensi/internal/web/handler"
)

const (
	// Path is the base path for shifts.
	Path = "/shift"
	// RouteOne addresses one shift.
	RouteOne = Path + "/:id"
)

// Service is the shift handler service.
type Service struct {
	deps *handler.Dependencies
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Dependencies) error {
	if err := handler.Check(router, deps); err != nil {
		return err
	}

	s.deps = deps
	g := deps.Guard

	router.Get(Path, g.RequirePermission(auth.ResourceShift, permission.ActionRead), s.List)
	router.Post(Path, g.RequirePermission(auth.ResourceShift, permission.ActionCreate), s.Create)
	router.Get(RouteOne, g.RequirePermission(auth.ResourceShift, permission.ActionRead), s.Get)
	router.Put(RouteOne, g.RequirePermission(auth.ResourceShift, permission.ActionUpdate), s.Update)
	router.Delete(RouteOne, g.RequirePermission(auth.ResourceShift, permission.ActionDelete), s.Delete)

	return nil
}

// List returns every shift.
func (s *Service) List(c *fiber.Ctx) error {
	all, err := shiftctrl.GetAll(s.deps.DB.WithContext(c.UserContext()))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(all)
}

// Get returns one shift.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err
	}

	l, err := shiftctrl.Get(s.deps.DB.WithContext(c.UserContext()), uint(id))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(l)
}

// Create adds a shift.
func (s *Service) Create(c *fiber.Ctx) error {
	var in shiftctrl.Input

	if err := handler.Bind(c, s.deps, &in); err != nil {
		return err
	}

	l, err := shiftctrl.Create(s.deps.DB.WithContext(c.UserContext()), in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Uint("shift_id", l.ID).Uint64("by", auth.UserID(c)).Msg("shift created")

	return c.Status(fiber.StatusCreated).JSON(l)
}

// Update replaces the fields of a shift.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err
	}

	var in shiftctrl.Input

	if err := handler.Bind(c, s.deps, &in); err != nil {
		return err
	}

	l, err := shiftctrl.Update(s.deps.DB.WithContext(c.UserContext()), uint(id), in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(l)
}

// Delete removes a shift.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err
	}

	if err := shiftctrl.Delete(s.deps.DB.WithContext(c.UserContext()), uint(id)); err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Uint64("shift_id", id).Uint64("by", auth.UserID(c)).Msg("shift deleted")

	return c.SendStatus(fiber.StatusNoContent)
}
