// Package web serves the JSON API.
package web

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/unrolled/secure"

	"github.com/GoAbsensi/GoAbsensi/internal/auth"
	"github.com/GoAbsensi/GoAbsensi/internal/config"
	accesslog "github.com/GoAbsensi/GoAbsensi/internal/logger/adapter/fiber"
	"github.com/GoAbsensi/GoAbsensi/internal/web/handler"
	"github.com/GoAbsensi/GoAbsensi/internal/web/handler/admin/role"
	"github.com/GoAbsensi/GoAbsensi/internal/web/handler/admin/user"
	"github.com/GoAbsensi/GoAbsensi/internal/web/handler/lokasi"
	"github.com/GoAbsensi/GoAbsensi/internal/web/handler/login"
	"github.com/GoAbsensi/GoAbsensi/internal/web/handler/logout"
	"github.com/GoAbsensi/GoAbsensi/internal/web/handler/pengajuan"
	"github.com/GoAbsensi/GoAbsensi/internal/web/handler/resetwajah"
	"github.com/GoAbsensi/GoAbsensi/internal/web/handler/shift"
)

const (
	// CheckAlivePath answers 200 while serving and 503 while draining.
	CheckAlivePath = "/checkalive"
	// MetricsPath exposes prometheus metrics.
	MetricsPath = "/metrics"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the configured port and blocks until it stops.
func (s *Service) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Webserver.Port)

	log.Info().Str("addr", addr).Msg("starting http server")

	if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("fiber listen error: %w", err)
	}

	return nil
}

// WaitShutdown blocks until SIGINT or SIGTERM and shuts the server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// let the load balancer see a failing checkalive before we stop accepting requests
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// CheckAlive reports whether the service accepts traffic.
func (s *Service) CheckAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

// New creates the fiber app and registers every handler under the api path.
func New(deps *handler.Dependencies) (*Service, error) {
	if deps == nil || deps.Config == nil {
		return nil, handler.ErrNilDependencies
	}

	cfg := deps.Config

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			ErrorHandler:   handler.ErrorHandler,
		},
	)

	s := &Service{
		App:          app,
		cfg:          cfg,
		fastShutDown: cfg.DevMode || cfg.Webserver.ShutDownTime == 0,
	}
	s.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
		UserID:        auth.UserID,
	}))

	if cfg.Webserver.SecureHeaders {
		app.Use(adaptor.HTTPMiddleware(secureHeaders(cfg).Handler))
	}

	app.Get(CheckAlivePath, s.CheckAlive)

	if cfg.Webserver.Metrics {
		app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := app.Group(handler.APIPath)

	for _, svc := range []handler.Service{
		&login.Service{},
		&logout.Service{},
		&role.Service{},
		&user.Service{},
		&lokasi.Service{},
		&shift.Service{},
		&pengajuan.Service{},
		&resetwajah.Service{},
	} {
		if err := svc.Init(api, deps); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func secureHeaders(cfg *config.Config) *secure.Secure {
	return secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		STSSeconds:            31536000,
		STSIncludeSubdomains:  true,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         cfg.DevMode,
	})
}
