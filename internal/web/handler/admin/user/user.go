// Package user provides handlers for managing user accounts, their role and
// their permission overrides in the admin area.
package user

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoAbsensi/GoAbsensi/internal/auth"
	"github.com/GoAbsensi/GoAbsensi/internal/db/models"
	"github.com/GoAbsensi/GoAbsensi/internal/permission"
	"github.com/GoAbsensi/GoAbsensi/internal/web/handler"
)

const (
	// Path is the base path for user management.
	Path = "/admin/users"

	// RouteUser addresses one user.
	RouteUser = Path + "/:id"
	// RoutePermissions returns the effective permissions of a user.
	RoutePermissions = RouteUser + "/permissions"
	// RouteOverrides replaces the permission overrides of a user.
	RouteOverrides = RouteUser + "/overrides"
	// RouteRole assigns the role of a user.
	RouteRole = RouteUser + "/role"

	// DefaultPageSize for pagination.
	DefaultPageSize = 25
	// MaxPageSize clamps the page size upper bound.
	MaxPageSize = 100

	// QueryActive filters the list by account state.
	QueryActive = "active"
	// QueryLimit is the page size.
	QueryLimit = "limit"
	// QueryOffset is the number of users skipped.
	QueryOffset = "offset"
)

// ListResponse is a page of users.
type ListResponse struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
}

// PermissionsResponse shows how the effective set of a user came to be.
type PermissionsResponse struct {
	UserID      uint64                           `json:"user_id"`
	Permissions []string                         `json:"permissions"`
	Overrides   []models.UserPermissionOverride `json:"overrides"`
}

// OverridesRequest is the body of an override replacement.
type OverridesRequest struct {
	Overrides []permission.OverrideInput `json:"overrides" validate:"required,dive"`
}

// RoleRequest is the body of a role assignment.
type RoleRequest struct {
	RoleID uint `json:"role_id" validate:"required"`
}

// Service provides user administration.
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
	router.Post(Path, g.RequirePermission(auth.ResourcePengguna, permission.ActionCreate), s.Create)
	router.Get(RouteUser, g.RequirePermission(auth.ResourcePengguna, permission.ActionRead), s.Get)
	router.Delete(RouteUser, g.RequirePermission(auth.ResourcePengguna, permission.ActionDelete), s.Deactivate)
	router.Get(RoutePermissions, g.RequirePermission(auth.ResourcePengguna, permission.ActionRead), s.Permissions)
	router.Put(RouteOverrides, g.RequirePermission(auth.ResourcePengguna, permission.ActionUpdate), s.ReplaceOverrides)
	router.Put(RouteRole, g.RequirePermission(auth.ResourcePengguna, permission.ActionUpdate), s.AssignRole)

	return nil
}

// List shows users with limit/offset pagination.
func (s *Service) List(c *fiber.Ctx) error {
	limit := c.QueryInt(QueryLimit, DefaultPageSize)
	if limit < 1 || limit > MaxPageSize {
		limit = DefaultPageSize
	}

	offset := c.QueryInt(QueryOffset, 0)
	if offset < 0 {
		offset = 0
	}

	var active *bool

	if v := c.Query(QueryActive); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return handler.Invalid("active must be a boolean")
		}

		active = &b
	}

	users, total, err := s.deps.Users.ListUsers(c.UserContext(), active, limit, offset)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(ListResponse{Users: users, Total: total})
}

// Create adds an active user holding the submitted role.
func (s *Service) Create(c *fiber.Ctx) error {
	var req auth.NewUser

	if err := handler.Bind(c, s.deps, &req); err != nil {
		return err
	}

	u, err := s.deps.Users.CreateUser(c.UserContext(), req)
	if err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Uint64("user_id", u.ID).Uint("role_id", req.RoleID).Uint64("by", auth.UserID(c)).Msg("user created")

	return c.Status(fiber.StatusCreated).JSON(u)
}

// Get returns one user with its roles.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err
	}

	u, err := s.deps.Users.GetUserByID(c.UserContext(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(u)
}

// Deactivate disables the account. Credentials already issued stay valid until they expire.
func (s *Service) Deactivate(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err
	}

	if id == auth.UserID(c) {
		return handler.Invalid("cannot deactivate own account")
	}

	ctx := c.UserContext()

	if err := s.deps.Users.SetActive(ctx, id, false); err != nil {
		return err //nolint:wrapcheck
	}

	if err := s.deps.Cache.Invalidate(ctx, id); err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Uint64("user_id", id).Uint64("by", auth.UserID(c)).Msg("user deactivated")

	return c.SendStatus(fiber.StatusNoContent)
}

// Permissions returns the effective set of a user together with its stored overrides.
func (s *Service) Permissions(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err
	}

	ctx := c.UserContext()

	if _, err := s.deps.Users.GetUserByID(ctx, id); err != nil {
		return err //nolint:wrapcheck
	}

	set, err := s.deps.Cache.Get(ctx, id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	overrides, err := s.deps.Store.ListOverrides(ctx, id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(PermissionsResponse{UserID: id, Permissions: set.Strings(), Overrides: overrides})
}

// ReplaceOverrides makes the submitted overrides the exact override set of the user.
func (s *Service) ReplaceOverrides(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err
	}

	var req OverridesRequest

	if err := handler.Bind(c, s.deps, &req); err != nil {
		return err
	}

	if err := s.deps.Admin.ReplaceUserOverrides(c.UserContext(), id, req.Overrides); err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Uint64("user_id", id).Int("overrides", len(req.Overrides)).
		Uint64("by", auth.UserID(c)).Msg("permission overrides replaced")

	return s.Permissions(c)
}

// AssignRole makes the submitted role the only role of the user.
func (s *Service) AssignRole(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err
	}

	var req RoleRequest

	if err := handler.Bind(c, s.deps, &req); err != nil {
		return err
	}

	if err := s.deps.Admin.AssignRole(c.UserContext(), id, req.RoleID); err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Uint64("user_id", id).Uint("role_id", req.RoleID).Uint64("by", auth.UserID(c)).Msg("role assigned")

	return s.Permissions(c)
}
