package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoAbsensi/GoAbsensi/internal/db/dbtest"
	"github.com/GoAbsensi/GoAbsensi/internal/db/models"
	"github.com/GoAbsensi/GoAbsensi/internal/permission"
	"github.com/GoAbsensi/GoAbsensi/internal/token"
)

type guardFixture struct {
	app    *fiber.App
	tokens *token.Manager
	admin  *permission.Admin
	user   models.User
	perms  map[string]models.Permission
}

func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()

	db := dbtest.Open(t)

	perms := map[string]models.Permission{
		"izin:create": seedPermission(t, db, "izin", "create"),
		"izin:read":   seedPermission(t, db, "izin", "read"),
		"izin:update": seedPermission(t, db, "izin", "update"),
	}

	guru := seedRole(t, db, models.RoleGuru, perms["izin:create"], perms["izin:read"])
	user := seedUser(t, db, "siti", guru)

	svc := NewService(db)
	cache := permission.NewMemoryCache(permission.NewResolver(svc), time.Minute)

	tokens, err := token.NewManager("0123456789abcdef0123456789abcdef", "go-absensi", 20*time.Minute, nil)
	require.NoError(t, err)

	guard := NewMiddleware(permission.NewGate(tokens, cache), "token")

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			switch {
			case errors.Is(err, permission.ErrUnauthorized):
				return c.Status(fiber.StatusUnauthorized).SendString(err.Error())
			case errors.Is(err, permission.ErrForbidden):
				return c.Status(fiber.StatusForbidden).SendString(err.Error())
			default:
				return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
			}
		},
	})

	app.Get("/izin", guard.RequirePermission("izin", "read"), func(c *fiber.Ctx) error {
		canReview, err := guard.Can(c, "izin", "update")
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{"user_id": UserID(c), "can_review": canReview})
	})
	app.Put("/izin", guard.RequirePermission("izin", "update"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/me", guard.RequireAuthenticated(), func(c *fiber.Ctx) error {
		id, _ := IdentityFrom(c)
		return c.SendString(id.Username)
	})

	return &guardFixture{
		app:    app,
		tokens: tokens,
		admin:  permission.NewAdmin(svc, cache),
		user:   user,
		perms:  perms,
	}
}

func (f *guardFixture) credential(t *testing.T) string {
	t.Helper()

	raw, _, err := f.tokens.Issue(f.user.ID, f.user.Username, permission.NewSet(permission.NewKey("izin", "read")))
	require.NoError(t, err)

	return raw
}

func (f *guardFixture) do(t *testing.T, method, target string, header http.Header) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)

	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := f.app.Test(req)
	require.NoError(t, err)

	return resp
}

func bearer(raw string) http.Header {
	return http.Header{fiber.HeaderAuthorization: []string{"Bearer " + raw}}
}

func TestRequirePermission(t *testing.T) {
	f := newGuardFixture(t)
	raw := f.credential(t)

	testCases := []struct {
		name   string
		method string
		header http.Header
		status int
	}{
		{name: "no credential", method: fiber.MethodGet, status: fiber.StatusUnauthorized},
		{name: "garbage credential", method: fiber.MethodGet, header: bearer("nope"), status: fiber.StatusUnauthorized},
		{name: "basic auth is not a credential", method: fiber.MethodGet,
			header: http.Header{fiber.HeaderAuthorization: []string{"Basic c2l0aTpyYWhhc2lh"}}, status: fiber.StatusUnauthorized},
		{name: "claims fast path", method: fiber.MethodGet, header: bearer(raw), status: fiber.StatusOK},
		{name: "cookie", method: fiber.MethodGet,
			header: http.Header{"Cookie": []string{"token=" + raw}}, status: fiber.StatusOK},
		{name: "missing permission", method: fiber.MethodPut, header: bearer(raw), status: fiber.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := f.do(t, tc.method, "/izin", tc.header)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestRequirePermissionSeesOverrideBeforeCredentialRefresh(t *testing.T) {
	f := newGuardFixture(t)
	raw := f.credential(t)

	assert.Equal(t, fiber.StatusForbidden, f.do(t, fiber.MethodPut, "/izin", bearer(raw)).StatusCode)

	require.NoError(t, f.admin.ReplaceUserOverrides(t.Context(), f.user.ID, []permission.OverrideInput{
		{PermissionID: f.perms["izin:update"].ID, Grant: true},
	}))

	// the credential still lacks izin:update, the live set has it
	assert.Equal(t, fiber.StatusNoContent, f.do(t, fiber.MethodPut, "/izin", bearer(raw)).StatusCode)

	resp := f.do(t, fiber.MethodGet, "/izin", bearer(raw))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var got struct {
		UserID    uint64 `json:"user_id"`
		CanReview bool   `json:"can_review"`
	}

	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, f.user.ID, got.UserID)
	assert.True(t, got.CanReview)
}

func TestRequireAuthenticated(t *testing.T) {
	f := newGuardFixture(t)

	assert.Equal(t, fiber.StatusUnauthorized, f.do(t, fiber.MethodGet, "/me", nil).StatusCode)

	resp := f.do(t, fiber.MethodGet, "/me", bearer(f.credential(t)))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "siti", string(body))
}
