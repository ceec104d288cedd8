package daemon

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoAbsensi/GoAbsensi/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Title: "GoAbsensi",
		DB:    config.DB{GormEngine: config.EngineSQLite, Path: filepath.Join(t.TempDir(), "absensi.db")},
		Webserver: config.Webserver{
			Port: 8080, URL: "http://localhost:8080", ShutDownTime: 1,
		},
		Auth: config.Auth{
			TokenSecret:   "0123456789abcdef0123456789abcdef",
			TokenIssuer:   "go-absensi",
			TokenTTL:      20 * time.Minute,
			CookieName:    "token",
			DenylistTable: "revoked_tokens",
		},
		Permission: config.Permission{CacheTTL: time.Minute, CacheBackend: config.CacheMemory},
		Seed:       config.Seed{OnStart: true, AdminUsername: "admin", AdminPassword: "changeme123"},
	}
}

func loginStatus(t *testing.T, d *Daemon, username, password string) int {
	t.Helper()

	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := d.webService.App.Test(req, -1)
	require.NoError(t, err)

	return resp.StatusCode
}

func TestNewSeedsAndServes(t *testing.T) {
	d, err := New(t.Context(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })

	assert.Equal(t, http.StatusOK, loginStatus(t, d, "admin", "changeme123"))
	assert.Equal(t, http.StatusUnauthorized, loginStatus(t, d, "admin", "salah"))
}

func TestNewWithRedisCache(t *testing.T) {
	srv := miniredis.RunT(t)

	cfg := testConfig(t)
	cfg.Permission.CacheBackend = config.CacheRedis
	cfg.Redis.Addr = srv.Addr()

	d, err := New(t.Context(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })

	require.Equal(t, http.StatusOK, loginStatus(t, d, "admin", "changeme123"))
	assert.NotEmpty(t, srv.Keys(), "resolved set is cached in redis")
}

func TestNewFailsOnUnreachableRedis(t *testing.T) {
	cfg := testConfig(t)
	cfg.Permission.CacheBackend = config.CacheRedis
	cfg.Redis.Addr = "127.0.0.1:1"

	_, err := New(t.Context(), cfg)
	assert.Error(t, err)
}

func TestOpenDBUnknownEngine(t *testing.T) {
	cfg := testConfig(t)
	cfg.DB.GormEngine = "oracle"

	_, err := OpenDB(cfg)
	assert.ErrorIs(t, err, config.ErrUnknownDBEngine)
}

func TestDenylistForSQLiteIsInMemory(t *testing.T) {
	s := Denylist(testConfig(t))
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Set("revoked:abc", []byte{1}, time.Minute))

	v, err := s.Get("revoked:abc")
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, v)
}
