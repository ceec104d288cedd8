// Package lokasi manages check-in locations.
package lokasi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoAbsensi/GoAbsensi/internal/auth"
	lokasictrl "github.com/GoAbsensi/GoAbsensi/internal/db/controller/lokasi"
	"github.com/GoAbsensi/GoAbsensi/internal/permission"
	"github.com/GoAbsensi/GoAbsensi/internal/web/handler"
)

const (
	// Path is the base path for locations.
	Path = "/lokasi"
	// RouteOne addresses one location.
	RouteOne = Path + "/:id"
)

// Service is the lokasi handler service.
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

	router.Get(Path, g.RequirePermission(auth.ResourceLokasi, permission.ActionRead), s.List)
	router.Post(Path, g.RequirePermission(auth.ResourceLokasi, permission.ActionCreate), s.Create)
	router.Get(RouteOne, g.RequirePermission(auth.ResourceLokasi, permission.ActionRead), s.Get)
	router.Put(RouteOne, g.RequirePermission(auth.ResourceLokasi, permission.ActionUpdate), s.Update)
	router.Delete(RouteOne, g.RequirePermission(auth.ResourceLokasi, permission.ActionDelete), s.Delete)

	return nil
}

// List returns every location.
func (s *Service) List(c *fiber.Ctx) error {
	all, err := lokasictrl.GetAll(s.deps.DB.WithContext(c.UserContext()))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(all)
}

// Get returns one location.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err
	}

	l, err := lokasictrl.Get(s.deps.DB.WithContext(c.UserContext()), uint(id))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(l)
}

// Create adds a location.
func (s *Service) Create(c *fiber.Ctx) error {
	var in lokasictrl.Input

	if err := handler.Bind(c, s.deps, &in); err != nil {
		return err
	}

	l, err := lokasictrl.Create(s.deps.DB.WithContext(c.UserContext()), in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Uint("lokasi_id", l.ID).Uint64("by", auth.UserID(c)).Msg("lokasi created")

	return c.Status(fiber.StatusCreated).JSON(l)
}

// Update replaces the fields of a location.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err
	}

	var in lokasictrl.Input

	if err := handler.Bind(c, s.deps, &in); err != nil {
		return err
	}

	l, err := lokasictrl.Update(s.deps.DB.WithContext(c.UserContext()), uint(id), in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(l)
}

// Delete removes a location.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err
	}

	if err := lokasictrl.Delete(s.deps.DB.WithContext(c.UserContext()), uint(id)); err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Uint64("lokasi_id", id).Uint64("by", auth.UserID(c)).Msg("lokasi deleted")

	return c.SendStatus(fiber.StatusNoContent)
}
