package api

import (
	"errors"

	"github.com/example/task-tracker/domain/failure"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps a domain failure to its HTTP status. Anything outside the
// failure taxonomy is an internal error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, failure.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, failure.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, failure.ErrProtectedEntity),
		errors.Is(err, failure.ErrTimerAlreadyRunning),
		errors.Is(err, failure.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes err as a JSON error response.
func (h *Handlers) fail(c *fiber.Ctx, err error) error {
	info := failure.FromError(err)
	if info == nil {
		h.logger.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "Internal Server Error",
		})
	}
	return c.Status(statusFor(err)).JSON(ErrorResponse{
		Error:   string(info.Code),
		Message: info.Message,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}
