package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/secure-gateway/internal/auth"
	"github.com/spec-kit/secure-gateway/internal/csrf"
	"github.com/spec-kit/secure-gateway/internal/events"
	"github.com/spec-kit/secure-gateway/internal/observability"
	"github.com/spec-kit/secure-gateway/internal/ratelimit"
	apperrors "github.com/spec-kit/secure-gateway/pkg/util"
)

// CsrfExemptPaths may mutate without a CSRF pair: they are how a client
// obtains its first pair, or carry no ambient credentials worth forging.
var CsrfExemptPaths = []string{"/auth/login", "/auth/register", "/health"}

// PipelineConfig bundles the stages composed into the request chain.
type PipelineConfig struct {
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Dispatcher events.Dispatcher
	Timeout    time.Duration

	Headers *HeaderPolicy
	Cors    *CorsPolicy
	Limiter *ratelimit.Limiter
	Csrf    *csrf.Store
	Auth    *auth.Middleware
}

// RegisterPipeline attaches the security chain in its contractual order:
// CORS preflight, rate limit, CSRF, identity resolution. Security and CORS
// headers are applied to every response on the way out; the first stage to
// fail short-circuits the rest.
func RegisterPipeline(app *fiber.App, cfg PipelineConfig) {
	if cfg.Timeout > 0 {
		app.Use(requestTimeoutMiddleware(cfg.Timeout))
	}
	app.Use(observability.RequestLogger(cfg.Logger, cfg.Metrics))
	app.Use(errorHandlingMiddleware(cfg.Logger, cfg.Metrics, cfg.Dispatcher))
	app.Use(cfg.Headers.Middleware())
	app.Use(cfg.Cors.Middleware())
	app.Use(ratelimit.Middleware(cfg.Limiter, ratelimit.ByIP, nil))
	app.Use(csrf.Protect(cfg.Csrf, CsrfExemptPaths))
	app.Use(cfg.Auth.Resolve)
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics, dispatcher events.Dispatcher) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := apperrors.ToDomainError(err)
				if metrics != nil {
					metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
				}
				publishSecurityEvent(c, dispatcher, domainErr.Code)

				response := fiber.Map{
					"error": domainErr.Message,
					"code":  domainErr.Code,
				}
				if len(domainErr.Details) > 0 {
					response["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}

func publishSecurityEvent(c *fiber.Ctx, dispatcher events.Dispatcher, code string) {
	if dispatcher == nil {
		return
	}

	var eventType events.EventType
	switch code {
	case "RATE_LIMITED":
		eventType = events.EventRateLimitExceeded
	case "CSRF_FAILED":
		eventType = events.EventCsrfRejected
	case "UNAUTHORIZED":
		eventType = events.EventTokenRejected
	default:
		return
	}

	_ = dispatcher.Publish(c.UserContext(), events.Event{
		Type:       eventType,
		ClientIP:   c.IP(),
		Path:       c.Path(),
		Method:     c.Method(),
		OccurredAt: time.Now(),
	})
}
