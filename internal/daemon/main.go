// Package daemon wires storage, the permission engine and the web service together.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	mysqlstorage "github.com/gofiber/storage/mysql/v2"
	postgresstorage "github.com/gofiber/storage/postgres/v3"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GoAbsensi/GoAbsensi/internal/auth"
	"github.com/GoAbsensi/GoAbsensi/internal/cache"
	"github.com/GoAbsensi/GoAbsensi/internal/config"
	"github.com/GoAbsensi/GoAbsensi/internal/db/dsn"
	"github.com/GoAbsensi/GoAbsensi/internal/db/models"
	gormlog "github.com/GoAbsensi/GoAbsensi/internal/logger/adapter/gorm"
	"github.com/GoAbsensi/GoAbsensi/internal/permission"
	"github.com/GoAbsensi/GoAbsensi/internal/token"
	"github.com/GoAbsensi/GoAbsensi/internal/web"
	"github.com/GoAbsensi/GoAbsensi/internal/web/handler"
)

const denylistGCInterval = 10 * time.Minute

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	redis      *redis.Client
	denylist   fiber.Storage
	webService *web.Service
}

// Start serves until SIGINT or SIGTERM and releases every connection afterwards.
func (d *Daemon) Start() error {
	done := make(chan struct{})

	go func() {
		d.webService.WaitShutdown()
		close(done)
	}()

	if err := d.webService.Start(); err != nil {
		_ = d.Close()
		return err
	}

	<-done

	return d.Close()
}

// Close releases the database, the denylist storage and the redis client.
func (d *Daemon) Close() error {
	var errs []error

	if d.denylist != nil {
		errs = append(errs, d.denylist.Close())
	}

	if d.redis != nil {
		errs = append(errs, d.redis.Close())
	}

	if d.db != nil {
		if sqlDB, err := d.db.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}

	return errors.Join(errs...)
}

// New opens storage, migrates and optionally seeds it, and builds the web service.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	d := &Daemon{cfg: cfg, db: db}

	if err := Migrate(db); err != nil {
		_ = d.Close()
		return nil, err
	}

	if cfg.Seed.OnStart {
		if err := Seed(ctx, db, cfg.Seed); err != nil {
			_ = d.Close()
			return nil, err
		}
	}

	deps, err := d.dependencies(ctx)
	if err != nil {
		_ = d.Close()
		return nil, err
	}

	if d.webService, err = web.New(deps); err != nil {
		_ = d.Close()
		return nil, err
	}

	return d, nil
}

func (d *Daemon) dependencies(ctx context.Context) (*handler.Dependencies, error) {
	cfg := d.cfg
	store := auth.NewService(d.db)
	resolver := permission.NewResolver(store)

	var permCache permission.Cache

	switch cfg.Permission.CacheBackend {
	case config.CacheRedis:
		client, err := cache.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}

		d.redis = client
		permCache = permission.NewRedisCache(client, resolver, cfg.Permission.CacheTTL)
	default:
		permCache = permission.NewMemoryCache(resolver, cfg.Permission.CacheTTL)
	}

	d.denylist = Denylist(cfg)

	tokens, err := token.NewManager(cfg.Auth.TokenSecret, cfg.Auth.TokenIssuer, cfg.Auth.TokenTTL, d.denylist)
	if err != nil {
		return nil, err
	}

	log.Info().Str("cache", cfg.Permission.CacheBackend).Dur("cache_ttl", cfg.Permission.CacheTTL).
		Dur("token_ttl", cfg.Auth.TokenTTL).Msg("permission engine ready")

	return &handler.Dependencies{
		Config:    cfg,
		DB:        d.db,
		Guard:     auth.NewMiddleware(permission.NewGate(tokens, permCache), cfg.Auth.CookieName),
		Store:     store,
		Users:     auth.NewLocalProvider(d.db),
		Admin:     permission.NewAdmin(store, permCache),
		Cache:     permCache,
		Tokens:    tokens,
		Validator: validator.New(),
	}, nil
}

// OpenDB connects to the configured database engine.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		dialector = gormmysql.Open(dsn.Create(cfg))
	case config.EnginePostgres:
		dialector = gormpostgres.Open(dsn.Postgres(cfg))
	case config.EngineSQLite:
		dialector = sqlite.Open(cfg.DB.Path)
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownDBEngine, cfg.DB.GormEngine)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlog.New(time.Duration(cfg.Log.SlowQuery)*time.Millisecond, cfg.DB.Debug),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if cfg.DB.GormEngine == config.EngineSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sqlite handle: %w", err)
		}

		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}

// Denylist returns the storage of revoked credential ids. It lives in the application
// database for mysql and postgres; sqlite installs keep it in memory.
func Denylist(cfg *config.Config) fiber.Storage {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return mysqlstorage.New(mysqlstorage.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         cfg.Auth.DenylistTable,
			GCInterval:    denylistGCInterval,
		})
	case config.EnginePostgres:
		return postgresstorage.New(postgresstorage.Config{
			ConnectionURI: dsn.Postgres(cfg),
			Table:         cfg.Auth.DenylistTable,
			GCInterval:    denylistGCInterval,
		})
	default:
		return memory.New(memory.Config{GCInterval: denylistGCInterval})
	}
}
