package resetwajah_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoAbsensi/GoAbsensi/internal/db/controller/facereset"
	"github.com/GoAbsensi/GoAbsensi/internal/db/models"
	"github.com/GoAbsensi/GoAbsensi/internal/web/handler"
	"github.com/GoAbsensi/GoAbsensi/internal/web/handler/handlertest"
	"github.com/GoAbsensi/GoAbsensi/internal/web/handler/resetwajah"
)

func TestResetWajah(t *testing.T) {
	env := handlertest.New(t, &resetwajah.Service{})

	pegawai := env.User(t, "tono", env.Role(t, models.RolePegawai, "reset_wajah", "create"))
	enrolled := time.Date(2025, 1, 6, 7, 0, 0, 0, time.UTC)
	require.NoError(t, env.DB.Model(&pegawai).Update("face_enrolled_at", enrolled).Error)

	staff := env.Token(t, pegawai)
	admin := env.Token(t, env.User(t, "admin", env.Role(t, models.RoleAdmin,
		"reset_wajah", "read", "reset_wajah", "update")))

	resp := env.Do(t, fiber.MethodPost, "/api/reset-wajah", staff, facereset.Input{Reason: "ganti kacamata"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var req models.FaceReset
	handlertest.Decode(t, resp, &req)

	resp = env.Do(t, fiber.MethodPost, "/api/reset-wajah", staff, facereset.Input{Reason: "lagi"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.Do(t, fiber.MethodGet, "/api/reset-wajah", staff, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.Do(t, fiber.MethodGet, "/api/reset-wajah?status=pending", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pending []models.FaceReset
	handlertest.Decode(t, resp, &pending)
	require.Len(t, pending, 1)

	resp = env.Do(t, fiber.MethodGet, "/api/reset-wajah?status=unknown", admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.Do(t, fiber.MethodPut, fmt.Sprintf("/api/reset-wajah/%d/review", req.ID), admin,
		handler.Decision{Status: models.StatusApproved})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var u models.User
	require.NoError(t, env.DB.First(&u, pegawai.ID).Error)
	assert.Nil(t, u.FaceEnrolledAt)
}
