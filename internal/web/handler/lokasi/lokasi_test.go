package lokasi_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lokasictrl "github.com/GoAbsensi/GoAbsensi/internal/db/controller/lokasi"
	"github.com/GoAbsensi/GoAbsensi/internal/db/models"
	"github.com/GoAbsensi/GoAbsensi/internal/web/handler"
	"github.com/GoAbsensi/GoAbsensi/internal/web/handler/handlertest"
	"github.com/GoAbsensi/GoAbsensi/internal/web/handler/lokasi"
)

func TestCRUD(t *testing.T) {
	env := handlertest.New(t, &lokasi.Service{})
	admin := env.Token(t, env.User(t, "admin", env.Role(t, models.RoleAdmin,
		"lokasi", "create", "lokasi", "read", "lokasi", "update", "lokasi", "delete")))

	in := lokasictrl.Input{Name: "Gedung A", Latitude: -7.25, Longitude: 112.75, RadiusMeters: 100}

	resp := env.Do(t, fiber.MethodPost, "/api/lokasi", admin, in)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Lokasi
	handlertest.Decode(t, resp, &created)
	assert.Equal(t, "Gedung A", created.Name)

	resp = env.Do(t, fiber.MethodPost, "/api/lokasi", admin, in)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	one := fmt.Sprintf("/api/lokasi/%d", created.ID)

	in.RadiusMeters = 250
	resp = env.Do(t, fiber.MethodPut, one, admin, in)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Lokasi
	handlertest.Decode(t, resp, &updated)
	assert.EqualValues(t, 250, updated.RadiusMeters)

	resp = env.Do(t, fiber.MethodGet, "/api/lokasi", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var all []models.Lokasi
	handlertest.Decode(t, resp, &all)
	assert.Len(t, all, 1)

	resp = env.Do(t, fiber.MethodDelete, one, admin, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.Do(t, fiber.MethodGet, one, admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestValidationAndAccess(t *testing.T) {
	env := handlertest.New(t, &lokasi.Service{})
	admin := env.Token(t, env.User(t, "admin", env.Role(t, models.RoleAdmin, "lokasi", "create", "lokasi", "read")))
	guru := env.Token(t, env.User(t, "guru", env.Role(t, models.RoleGuru, "lokasi", "read")))

	resp := env.Do(t, fiber.MethodPost, "/api/lokasi", admin,
		lokasictrl.Input{Name: "Lapangan", Latitude: 120, Longitude: 10, RadiusMeters: 50})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, handler.CodeValidationError, handlertest.ErrorOf(t, resp).Code)

	resp = env.Do(t, fiber.MethodGet, "/api/lokasi", guru, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.Do(t, fiber.MethodPost, "/api/lokasi", guru,
		lokasictrl.Input{Name: "Lapangan", Latitude: 1, Longitude: 1, RadiusMeters: 50})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
