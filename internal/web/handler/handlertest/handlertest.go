// Package handlertest builds fiber apps wired like production for handler tests.
package handlertest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoAbsensi/GoAbsensi/internal/auth"
	"github.com/GoAbsensi/GoAbsensi/internal/config"
	"github.com/GoAbsensi/GoAbsensi/internal/db/dbtest"
	"github.com/GoAbsensi/GoAbsensi/internal/db/models"
	"github.com/GoAbsensi/GoAbsensi/internal/permission"
	"github.com/GoAbsensi/GoAbsensi/internal/token"
	"github.com/GoAbsensi/GoAbsensi/internal/web/handler"
)

// Password of every user created with User.
const Password = "rahasia123"

// Env is a test environment around one fiber app.
type Env struct {
	App   *fiber.App
	DB    *gorm.DB
	Deps  *handler.Dependencies
	Cache *permission.MemoryCache
}

// Dependencies builds production services over a fresh in-memory database.
func Dependencies(t *testing.T) *handler.Dependencies {
	t.Helper()

	db := dbtest.Open(t)

	cfg := &config.Config{
		Title:     "GoAbsensi test",
		Webserver: config.Webserver{Port: 8080, URL: "http://localhost"},
		Auth: config.Auth{
			TokenSecret: "0123456789abcdef0123456789abcdef",
			TokenIssuer: "go-absensi",
			TokenTTL:    20 * time.Minute,
			CookieName:  "token",
		},
		Permission: config.Permission{CacheTTL: time.Minute},
	}

	store := auth.NewService(db)
	cache := permission.NewMemoryCache(permission.NewResolver(store), cfg.Permission.CacheTTL)

	tokens, err := token.NewManager(cfg.Auth.TokenSecret, cfg.Auth.TokenIssuer, cfg.Auth.TokenTTL, memory.New())
	require.NoError(t, err)

	return &handler.Dependencies{
		Config:    cfg,
		DB:        db,
		Guard:     auth.NewMiddleware(permission.NewGate(tokens, cache), cfg.Auth.CookieName),
		Store:     store,
		Users:     auth.NewLocalProvider(db),
		Admin:     permission.NewAdmin(store, cache),
		Cache:     cache,
		Tokens:    tokens,
		Validator: validator.New(),
	}
}

// New creates an app with the production error handler and registers svcs on it.
func New(t *testing.T, svcs ...handler.Service) *Env {
	t.Helper()

	deps := Dependencies(t)

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
	api := app.Group(handler.APIPath)

	for _, svc := range svcs {
		require.NoError(t, svc.Init(api, deps))
	}

	return Wrap(app, deps)
}

// Wrap builds an Env around an app created elsewhere from deps.
func Wrap(app *fiber.App, deps *handler.Dependencies) *Env {
	cache, _ := deps.Cache.(*permission.MemoryCache)

	return &Env{App: app, DB: deps.DB, Deps: deps, Cache: cache}
}

// Permission returns the permission resource:action, creating it if needed.
func (e *Env) Permission(t *testing.T, resource, action string) models.Permission {
	t.Helper()

	p := models.Permission{Resource: resource, Action: action}
	require.NoError(t, e.DB.Where(&p).FirstOrCreate(&p).Error)

	return p
}

// Role creates a role granting keys given as resource, action pairs.
func (e *Env) Role(t *testing.T, name string, pairs ...string) models.Role {
	t.Helper()

	require.Zero(t, len(pairs)%2, "pairs must be resource, action")

	r := models.Role{Name: name}
	require.NoError(t, e.DB.Create(&r).Error)

	for i := 0; i < len(pairs); i += 2 {
		p := e.Permission(t, pairs[i], pairs[i+1])
		require.NoError(t, e.DB.Create(&models.RolePermission{RoleID: r.ID, PermissionID: p.ID}).Error)
	}

	return r
}

// User creates an active user holding role.
func (e *Env) User(t *testing.T, username string, role models.Role) models.User {
	t.Helper()

	u := models.User{Active: true, Username: username, FullName: username, Password: models.HashPassword(Password)}
	require.NoError(t, e.DB.Create(&u).Error)
	require.NoError(t, e.DB.Create(&models.UserRole{UserID: u.ID, RoleID: role.ID}).Error)

	return u
}

// Token issues a credential for u embedding its current effective permissions.
func (e *Env) Token(t *testing.T, u models.User) string {
	t.Helper()

	perms, err := e.Cache.Get(t.Context(), u.ID)
	require.NoError(t, err)

	raw, _, err := e.Deps.Tokens.Issue(u.ID, u.Username, perms)
	require.NoError(t, err)

	return raw
}

// Do sends a request with an optional JSON body and bearer credential.
func (e *Env) Do(t *testing.T, method, target, credential string, body interface{}) *http.Response {
	t.Helper()

	var r io.Reader

	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)

		r = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	if credential != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+credential)
	}

	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)

	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

// Decode reads the JSON body of resp into v.
func Decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// ErrorOf decodes an error envelope.
func ErrorOf(t *testing.T, resp *http.Response) handler.ErrorBody {
	t.Helper()

	var body handler.ErrorBody

	Decode(t, resp, &body)

	return body
}
