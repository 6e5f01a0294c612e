package ratelimit

import (
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/secure-gateway/pkg/util"
)

func newTestApp(limiter *Limiter, keyFn KeyFunc, skipFn SkipFunc) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": de.Message})
		},
	})
	app.Use(Middleware(limiter, keyFn, skipFn))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	return app
}

func TestMiddleware_DenialHeaders(t *testing.T) {
	t.Parallel()

	app := newTestApp(NewLimiter(time.Minute, 2), nil, nil)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ping", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ping", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	retryAfter, err := strconv.Atoi(resp.Header.Get(fiber.HeaderRetryAfter))
	require.NoError(t, err)
	require.Greater(t, retryAfter, 0)

	require.Equal(t, "2", resp.Header.Get("X-RateLimit-Limit"))
	require.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))

	reset, err := time.Parse(time.RFC3339, resp.Header.Get("X-RateLimit-Reset"))
	require.NoError(t, err)
	require.True(t, reset.After(time.Now().Add(-time.Second)))
}

func TestMiddleware_SkipFunc(t *testing.T) {
	t.Parallel()

	skipAll := func(c *fiber.Ctx) bool { return true }
	app := newTestApp(NewLimiter(time.Minute, 1), nil, skipAll)

	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ping", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}

func TestByIPAndPath(t *testing.T) {
	t.Parallel()

	limiter := NewLimiter(time.Minute, 1)
	app := newTestApp(limiter, ByIPAndPath, nil)
	app.Get("/other", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ping", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/ping", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	// a different route has its own bucket
	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/other", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
