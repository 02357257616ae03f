package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/oliverdacre/travel-together/internal/dto"
	"github.com/oliverdacre/travel-together/internal/services"
)

// serviceError maps engine sentinels to HTTP statuses: absent entities
// are 404, missing roles 403, validation failures 400, and state or
// participation preconditions 409. Anything else is a storage failure
// and surfaces as an opaque 500.
func serviceError(c *fiber.Ctx, err error) error {
	var code int
	switch {
	case errors.Is(err, services.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, services.ErrUnauthorized):
		code = fiber.StatusForbidden
	case errors.Is(err, services.ErrInvalidField),
		errors.Is(err, services.ErrInvalidRating),
		errors.Is(err, services.ErrContentTooLong),
		errors.Is(err, services.ErrInvalidTransition):
		code = fiber.StatusBadRequest
	case errors.Is(err, services.ErrFieldLocked),
		errors.Is(err, services.ErrCapacityBelowOccupancy),
		errors.Is(err, services.ErrNotOpen),
		errors.Is(err, services.ErrTerminalTrip),
		errors.Is(err, services.ErrFull),
		errors.Is(err, services.ErrAlreadyJoined),
		errors.Is(err, services.ErrNotAParticipant),
		errors.Is(err, services.ErrSoleEditor),
		errors.Is(err, services.ErrTripNotEnded):
		code = fiber.StatusConflict
	default:
		slog.Error("unhandled service error", "path", c.Path(), "error", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
}

// parseDate accepts YYYY-MM-DD or RFC 3339.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
