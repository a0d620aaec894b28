package api

import (
	"github.com/gofiber/fiber/v3"
)

// StoreFailurePolicy names how a handler reacts when the persistent
// store fails. Mutating handlers are always constructed FailLoud; the
// listing reads may be constructed FailSoft so a fresh environment with
// an unprovisioned schema still answers with empty defaults.
type StoreFailurePolicy int

const (
	// FailLoud propagates store failures as server errors.
	FailLoud StoreFailurePolicy = iota
	// FailSoft answers with an empty default instead of an error.
	FailSoft
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}
