// Package pengajuan handles leave requests. Staff see their own requests,
// reviewers (izin:update) see everyone's.
package pengajuan

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoAbsensi/GoAbsensi/internal/auth"
	pengajuanctrl "github.com/GoAbsensi/GoAbsensi/internal/db/controller/pengajuan"
	"github.com/GoAbsensi/GoAbsensi/internal/db/models"
	"github.com/GoAbsensi/GoAbsensi/internal/permission"
	"github.com/GoAbsensi/GoAbsensi/internal/web/handler"
)

const (
	// Path is the base path for leave requests.
	Path = "/pengajuan"
	// RouteOne addresses one request.
	RouteOne = Path + "/:id"
	// RouteReview approves or rejects a request.
	RouteReview = RouteOne + "/review"

	// QueryUserID narrows the reviewer list to one user.
	QueryUserID = "user_id"
)

// Service is the pengajuan handler service.
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

	router.Post(Path, g.RequirePermission(auth.ResourceIzin, permission.ActionCreate), s.Create)
	router.Get(Path, g.RequirePermission(auth.ResourceIzin, permission.ActionRead), s.List)
	router.Get(RouteOne, g.RequirePermission(auth.ResourceIzin, permission.ActionRead), s.Get)
	router.Put(RouteReview, g.RequirePermission(auth.ResourceIzin, permission.ActionUpdate), s.Review)
	router.Delete(RouteOne, g.RequirePermission(auth.ResourceIzin, permission.ActionDelete), s.Delete)

	return nil
}

func (s *Service) isReviewer(c *fiber.Ctx) (bool, error) {
	return s.deps.Guard.Can(c, auth.ResourceIzin, permission.ActionUpdate) //nolint:wrapcheck
}

// Create files a request for the caller.
func (s *Service) Create(c *fiber.Ctx) error {
	var in pengajuanctrl.Input

	if err := handler.Bind(c, s.deps, &in); err != nil {
		return err
	}

	p, err := pengajuanctrl.Create(s.deps.DB.WithContext(c.UserContext()), auth.UserID(c), in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Uint64("pengajuan_id", p.ID).Uint64("user_id", p.UserID).Str("type", string(p.Type)).
		Msg("pengajuan submitted")

	return c.Status(fiber.StatusCreated).JSON(p)
}

// List returns the caller's requests, or everyone's for reviewers.
func (s *Service) List(c *fiber.Ctx) error {
	status, err := handler.StatusFilter(c)
	if err != nil {
		return err
	}

	reviewer, err := s.isReviewer(c)
	if err != nil {
		return err
	}

	f := pengajuanctrl.Filter{UserID: auth.UserID(c), Status: status}

	if reviewer {
		f.UserID = uint64(c.QueryInt(QueryUserID, 0)) //nolint:gosec
	}

	all, err := pengajuanctrl.List(s.deps.DB.WithContext(c.UserContext()), f)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(all)
}

// Get returns one request. Other users' requests are only visible to reviewers.
func (s *Service) Get(c *fiber.Ctx) error {
	p, err := s.load(c)
	if err != nil {
		return err
	}

	return c.JSON(p)
}

// Review approves or rejects a pending request.
func (s *Service) Review(c *fiber.Ctx) error {
	id, err := handler.ID(c)
	if err != nil {
		return err
	}

	var d handler.Decision

	if err := handler.Bind(c, s.deps, &d); err != nil {
		return err
	}

	reviewer := auth.UserID(c)

	p, err := pengajuanctrl.Review(s.deps.DB.WithContext(c.UserContext()), id, reviewer, d.Approve(), d.Note, s.now())
	if err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Uint64("pengajuan_id", id).Str("status", string(p.Status)).Uint64("by", reviewer).
		Msg("pengajuan reviewed")

	return c.JSON(p)
}

// Delete removes a request.
func (s *Service) Delete(c *fiber.Ctx) error {
	p, err := s.load(c)
	if err != nil {
		return err
	}

	if err := pengajuanctrl.Delete(s.deps.DB.WithContext(c.UserContext()), p.ID); err != nil {
		return err //nolint:wrapcheck
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Service) load(c *fiber.Ctx) (*models.Pengajuan, error) {
	id, err := handler.ID(c)
	if err != nil {
		return nil, err
	}

	p, err := pengajuanctrl.Get(s.deps.DB.WithContext(c.UserContext()), id)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if p.UserID == auth.UserID(c) {
		return p, nil
	}

	reviewer, err := s.isReviewer(c)
	if err != nil {
		return nil, err
	}

	if !reviewer {
		return nil, permission.ErrForbidden
	}

	return p, nil
}
