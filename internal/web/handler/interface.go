package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/GoAbsensi/GoAbsensi/internal/auth"
	"github.com/GoAbsensi/GoAbsensi/internal/config"
	"github.com/GoAbsensi/GoAbsensi/internal/permission"
	"github.com/GoAbsensi/GoAbsensi/internal/token"
)

// Dependencies are the shared services handed to every handler.
type Dependencies struct {
	Config    *config.Config
	DB        *gorm.DB
	Guard     *auth.Middleware
	Store     *auth.Service
	Users     *auth.LocalProvider
	Admin     *permission.Admin
	Cache     permission.Cache
	Tokens    *token.Manager
	Validator *validator.Validate
}

// Service is the interface for a web handler service.
type Service interface {
	Init(router fiber.Router, deps *Dependencies) error
}

// Check returns ErrNilDependencies if router or any service a handler needs is missing.
func Check(router fiber.Router, deps *Dependencies) error {
	if router == nil || deps == nil || deps.Config == nil || deps.DB == nil || deps.Guard == nil {
		return ErrNilDependencies
	}

	if deps.Validator == nil {
		deps.Validator = validator.New()
	}

	return nil
}
