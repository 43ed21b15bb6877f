package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/adrien9192/tiktok-viral-scripts/internal/apperr"
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// MapAppError converts a domain error into the matching HTTP error
// response. Validation failures become 400s naming the field, unknown
// catalog identifiers become 404s, anything else is a 500 with the
// detail kept out of the body.
func MapAppError(c fiber.Ctx, err error) error {
	var vErr *apperr.ValidationError
	if errors.As(err, &vErr) {
		return ErrorResponse(c, fiber.StatusBadRequest, "VALIDATION_ERROR", vErr.Error())
	}

	var nfErr *apperr.NotFoundError
	if errors.As(err, &nfErr) {
		return ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", nfErr.Error())
	}

	Logger.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
