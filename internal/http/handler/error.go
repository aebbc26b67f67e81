package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"studentapi/internal/http/middleware"
	"studentapi/internal/service"
)

// errorPayload defines the standardized message/error response body.
// The top-level message key keeps the body readable by clients that only know {"message": ...}.
type errorPayload struct {
	RequestID string               `json:"request_id"`
	Code      string               `json:"code"`
	Message   string               `json:"message"`
	Errors    []service.FieldError `json:"errors,omitempty"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.GetRequestID(c),
		Code:      code,
		Message:   message,
	})
}

func writeValidationError(c *fiber.Ctx, verr *service.ValidationError) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorPayload{
		RequestID: middleware.GetRequestID(c),
		Code:      "VALIDATION_FAILED",
		Message:   "validation failed",
		Errors:    verr.Fields,
	})
}

// writeServiceError maps service errors onto HTTP responses.
// Anything unrecognised is logged with the request logger and reported as a 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return writeValidationError(c, verr)
	case errors.Is(err, service.ErrInvalidID):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid student id")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "Student not found")
	case errors.Is(err, service.ErrNoStudentsFound):
		return writeError(c, fiber.StatusNotFound, "NO_STUDENTS_FOUND", "No students found")
	default:
		zerolog.Ctx(c.UserContext()).Error().Err(err).Str("path", c.Path()).Msg("request_failed")
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			zerolog.Ctx(c.UserContext()).Error().Err(err).Int("status", status).Msg("unhandled_error")
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
