package handler

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoAbsensi/GoAbsensi/internal/auth"
	"github.com/GoAbsensi/GoAbsensi/internal/db/controller"
	"github.com/GoAbsensi/GoAbsensi/internal/permission"
)

func TestClassify(t *testing.T) {
	type sample struct {
		Name string `validate:"required"`
	}

	verr := validator.New().Struct(sample{})
	require.Error(t, verr)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantDetail string
	}{
		{"missing credential", permission.ErrMissingCredential, 401, CodeUnauthorized, "missing credential"},
		{"invalid credential", permission.ErrInvalidCredential, 401, CodeUnauthorized, "invalid or expired credential"},
		{"bad password", auth.ErrInvalidCredentials, 401, CodeUnauthorized, auth.ErrInvalidCredentials.Error()},
		{"forbidden", permission.ErrForbidden, 403, CodeForbidden, "forbidden"},
		{"disabled account", auth.ErrUserAccountDisabled, 403, CodeForbidden, "user account is disabled"},
		{"struct validation", verr, 400, CodeValidationError, "invalid request: Name: required"},
		{"controller validation", fmt.Errorf("%w: bad", controller.ErrInvalid), 400, CodeValidationError, "invalid input: bad"},
		{"conflict", fmt.Errorf("%w: taken", controller.ErrConflict), 409, CodeConflict, "conflict: taken"},
		{"duplicate user", auth.ErrUserNameOrEmailExists, 409, CodeConflict, auth.ErrUserNameOrEmailExists.Error()},
		{"record not found", fmt.Errorf("shift: %w", gorm.ErrRecordNotFound), 404, CodeNotFound, "shift: record not found"},
		{"role not found", permission.ErrRoleNotFound, 404, CodeNotFound, "role not found"},
		{"fiber error", fiber.ErrMethodNotAllowed, 405, "method_not_allowed", "Method Not Allowed"},
		{"anything else", errors.New("db down: password=secret"), 500, CodeInternalError, "internal server error"},
		{"denylist outage", fmt.Errorf("failed to verify credential: %w", errors.New("db down")), 500, CodeInternalError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantDetail, got.Detail)
		})
	}
}

func TestClassifyValidationIDs(t *testing.T) {
	got := classify(&permission.ValidationError{Detail: permission.DetailUnknownPermissionIDs, PermissionIDs: []uint{4, 9}})
	assert.Equal(t, []uint{4, 9}, got.UnknownPermissionIDs)
	assert.Nil(t, got.DuplicatePermissionIDs)

	got = classify(fmt.Errorf("wrapped: %w",
		&permission.ValidationError{Detail: permission.DetailDuplicatePermissionIDs, PermissionIDs: []uint{2}}))
	assert.Equal(t, fiber.StatusBadRequest, got.Status)
	assert.Equal(t, []uint{2}, got.DuplicatePermissionIDs)
}

func TestErrorHandlerEnvelope(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/boom", func(*fiber.Ctx) error { return errors.New("boom") })
	app.Get("/item/:id", func(c *fiber.Ctx) error {
		_, err := ID(c)
		return err
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, fiber.MIMEApplicationJSON, resp.Header.Get(fiber.HeaderContentType))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/item/0", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/nowhere", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
