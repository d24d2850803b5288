package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/comanda/internal/domain"
)

// ErrorHandler maps domain errors onto HTTP statuses in one place, so
// handlers can return them unwrapped.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		body := fiber.Map{"error": err.Error()}

		var fiberErr *fiber.Error
		var invalidState *domain.InvalidStateError
		var invalidTransition *domain.InvalidOrderTransitionError
		var permission *domain.PermissionDeniedError
		var missingCred *domain.MissingCredentialError
		var transcription *domain.TranscriptionError
		var authentication *domain.AuthenticationError

		switch {
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
		case errors.Is(err, domain.ErrNotFound):
			code = fiber.StatusNotFound
		case errors.As(err, &invalidState), errors.As(err, &invalidTransition):
			code = fiber.StatusConflict
		case errors.As(err, &permission):
			code = fiber.StatusForbidden
		case errors.As(err, &missingCred), errors.As(err, &authentication):
			// Configuration problem, not a transient failure: no
			// retry hint for the client.
			code = fiber.StatusServiceUnavailable
		case errors.As(err, &transcription):
			if transcription.Kind == domain.TranscriptionTimeout {
				code = fiber.StatusGatewayTimeout
			} else {
				code = fiber.StatusBadGateway
			}
			body["retryable"] = true
			body["attempts"] = transcription.Attempts
		case errors.Is(err, domain.ErrItemUnavailable), errors.Is(err, domain.ErrEmptyOrder),
			errors.Is(err, domain.ErrEmptyAudio), errors.Is(err, domain.ErrAudioTooLarge):
			code = fiber.StatusUnprocessableEntity
		case errors.Is(err, domain.ErrTooManySessions):
			code = fiber.StatusTooManyRequests
		}

		if code == fiber.StatusInternalServerError {
			log.Error("Internal Server Error", zap.Error(err), zap.String("path", c.Path()))
		}

		return c.Status(code).JSON(body)
	}
}
