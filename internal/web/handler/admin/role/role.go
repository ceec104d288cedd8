// Package role exposes roles, the permission catalogue and role grant replacement.
package role

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoAbsensi/GoAbsensi/internal/auth"
	"github.com/GoAbsensi/GoAbsensi/internal/permission"
	"github.com/GoAbsensi/GoAbsensi/internal/web/handler"
)

const (
	// Path is the base path for role management.
	Path = "/admin/roles"
	// PermissionsPath lists every known permission.
	PermissionsPath = "/admin/permissions"

	// RouteGrants replaces the permissions granted to a role.
	RouteGrants = Path + "/:id/permissions"
)

// GrantsRequest is the body of a grant replacement.
type GrantsRequest struct {
	PermissionIDs []uint `json:"permission_ids" validate:"required"`
}

// Service provides role and permission administration.
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

	router.Get(Path, g.RequirePermission(auth.ResourcePengguna, permission.ActionRead), s.List)
	router.Get(Path+"/:id", g.RequirePermission(auth.ResourcePengguna, permission.ActionRead), s.Get)
	router.Get(PermissionsPath, g.RequirePermission(auth.ResourcePengguna, permission.ActionRead), s.Permissions)
	router.Put(RouteGrants, g.RequirePermission(auth.ResourcePengguna, permission.ActionUpdate), s.ReplaceGrants)

	return nil
}

// List returns every role with its grants.
func (s *Service) List(c *fiber.Ctx) error {
	roles, err := s.deps.Store.ListRoles(c.UserContext())
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(roles)
}

// Get returns one role with its grants.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err
	}

	role, err := s.deps.Store.GetRole(c.UserContext(), uint(id))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(role)
}

// Permissions returns the permission catalogue.
func (s *Service) Permissions(c *fiber.Ctx) error {
	perms, err := s.deps.Store.ListPermissions(c.UserContext())
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(perms)
}

// ReplaceGrants makes the role grant exactly the submitted permissions.
func (s *Service) ReplaceGrants(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err
	}

	var req GrantsRequest

	if err := handler.Bind(c, s.deps, &req); err != nil {
		return err
	}

	ctx := c.UserContext()

	if err := s.deps.Admin.ReplaceRolePermissions(ctx, uint(id), req.PermissionIDs); err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Uint64("role_id", id).Uints("permission_ids", req.PermissionIDs).
		Uint64("by", auth.UserID(c)).Msg("role permissions replaced")

	role, err := s.deps.Store.GetRole(ctx, uint(id))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(role)
}
