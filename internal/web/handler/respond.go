package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoAbsensi/GoAbsensi/internal/auth"
	"github.com/GoAbsensi/GoAbsensi/internal/db/controller"
	"github.com/GoAbsensi/GoAbsensi/internal/db/models"
	"github.com/GoAbsensi/GoAbsensi/internal/permission"
)

// Error codes of the error envelope.
const (
	CodeUnauthorized    = "unauthorized"
	CodeForbidden       = "forbidden"
	CodeValidationError = "validation_error"
	CodeNotFound        = "not_found"
	CodeConflict        = "conflict"
	CodeInternalError   = "internal_error"
)

// ErrorBody is the JSON envelope of every error response.
type ErrorBody struct {
	Status                 int    `json:"status"`
	Code                   string `json:"code"`
	Detail                 string `json:"detail"`
	UnknownPermissionIDs   []uint `json:"unknown_permission_ids,omitempty"`
	DuplicatePermissionIDs []uint `json:"duplicate_permission_ids,omitempty"`
}

// ErrorHandler is the fiber error handler rendering errors as ErrorBody.
// Forbidden responses never name the missing permission.
func ErrorHandler(c *fiber.Ctx, err error) error {
	body := classify(err)

	if body.Status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Uint64("user_id", auth.UserID(c)).Msg("request failed")
	}

	return c.Status(body.Status).JSON(body)
}

func classify(err error) ErrorBody {
	var (
		verr    *permission.ValidationError
		fvErr   validator.ValidationErrors
		fiberEr *fiber.Error
	)

	switch {
	case errors.Is(err, permission.ErrMissingCredential):
		return ErrorBody{Status: fiber.StatusUnauthorized, Code: CodeUnauthorized, Detail: "missing credential"}
	case errors.Is(err, permission.ErrUnauthorized):
		return ErrorBody{Status: fiber.StatusUnauthorized, Code: CodeUnauthorized, Detail: "invalid or expired credential"}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return ErrorBody{Status: fiber.StatusUnauthorized, Code: CodeUnauthorized, Detail: err.Error()}
	case errors.Is(err, permission.ErrForbidden):
		return ErrorBody{Status: fiber.StatusForbidden, Code: CodeForbidden, Detail: "forbidden"}
	case errors.Is(err, auth.ErrUserAccountDisabled):
		return ErrorBody{Status: fiber.StatusForbidden, Code: CodeForbidden, Detail: err.Error()}
	case errors.As(err, &verr):
		body := ErrorBody{Status: fiber.StatusBadRequest, Code: CodeValidationError, Detail: verr.Detail}

		switch verr.Detail {
		case permission.DetailUnknownPermissionIDs:
			body.UnknownPermissionIDs = verr.PermissionIDs
		case permission.DetailDuplicatePermissionIDs:
			body.DuplicatePermissionIDs = verr.PermissionIDs
		}

		return body
	case errors.As(err, &fvErr):
		return ErrorBody{Status: fiber.StatusBadRequest, Code: CodeValidationError, Detail: describe(fvErr)}
	case errors.Is(err, controller.ErrInvalid):
		return ErrorBody{Status: fiber.StatusBadRequest, Code: CodeValidationError, Detail: err.Error()}
	case errors.Is(err, controller.ErrConflict), errors.Is(err, auth.ErrUserNameOrEmailExists):
		return ErrorBody{Status: fiber.StatusConflict, Code: CodeConflict, Detail: err.Error()}
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, permission.ErrRoleNotFound),
		errors.Is(err, permission.ErrUserNotFound):
		return ErrorBody{Status: fiber.StatusNotFound, Code: CodeNotFound, Detail: err.Error()}
	case errors.As(err, &fiberEr):
		return ErrorBody{Status: fiberEr.Code, Code: codeOf(fiberEr.Code), Detail: fiberEr.Message}
	default:
		return ErrorBody{Status: fiber.StatusInternalServerError, Code: CodeInternalError, Detail: "internal server error"}
	}
}

func codeOf(status int) string {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return CodeValidationError
	case fiber.StatusUnauthorized:
		return CodeUnauthorized
	case fiber.StatusForbidden:
		return CodeForbidden
	case fiber.StatusNotFound:
		return CodeNotFound
	case fiber.StatusConflict:
		return CodeConflict
	}

	if status >= fiber.StatusInternalServerError {
		return CodeInternalError
	}

	return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}

func describe(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))

	for _, fe := range errs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}

		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}

	return "invalid request: " + strings.Join(parts, ", ")
}

// Invalid builds a 400 validation error with detail.
func Invalid(detail string) error {
	return &permission.ValidationError{Detail: detail}
}

// Bind decodes the JSON body into v and validates it.
func Bind(c *fiber.Ctx, deps *Dependencies, v interface{}) error {
	if err := c.BodyParser(v); err != nil {
		return Invalid("malformed request body")
	}

	return deps.Validator.Struct(v) //nolint:wrapcheck
}

// ID parses the positive integer route parameter named ParamID.
func ID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params(ParamID), 10, 64)
	if err != nil || id == 0 {
		return 0, Invalid("invalid id")
	}

	return id, nil
}

// Decision is the body of a review of a pending request.
type Decision struct {
	Status models.ReviewStatus `json:"status" validate:"required,oneof=approved rejected"`
	Note   string              `json:"note" validate:"max=500"`
}

// Approve reports whether the decision accepts the request.
func (d Decision) Approve() bool {
	return d.Status == models.StatusApproved
}

// StatusFilter reads the optional status query parameter.
func StatusFilter(c *fiber.Ctx) (models.ReviewStatus, error) {
	switch s := models.ReviewStatus(c.Query("status")); s {
	case "", models.StatusPending, models.StatusApproved, models.StatusRejected:
		return s, nil
	default:
		return "", Invalid("unknown status")
	}
}
