package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/asset-service/internal/observability"
	apperrors "github.com/spec-kit/asset-service/pkg/util/errorutil"
)

// RegisterMiddlewares attaches the global chain, outermost first:
// request timeout, access logging, domain-error rendering, panic
// recovery. The logger sits outside the error mapper so it records the
// status actually sent.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeout(timeout))
	}
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(renderDomainErrors(logger, metrics))
	app.Use(recoverPanics(logger))
}

func requestTimeout(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// renderDomainErrors turns any error bubbling out of a handler into the
// JSON error envelope, mapping unknown errors to INTERNAL.
func renderDomainErrors(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}

		domainErr := apperrors.ToDomainError(err)
		metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
		if domainErr.HTTPStatus >= 500 {
			logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(domainErr))
		}
		return c.Status(domainErr.HTTPStatus).JSON(errorEnvelope(domainErr))
	}
}

func errorEnvelope(err *apperrors.DomainError) fiber.Map {
	body := fiber.Map{
		"code":    err.Code,
		"message": err.Message,
	}
	if len(err.Details) > 0 {
		body["details"] = err.Details
	}
	return fiber.Map{"error": body}
}

// recoverPanics converts handler panics into an internal error for the
// mapper above; the stack is logged here, once.
func recoverPanics(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
		}()
		return c.Next()
	}
}
