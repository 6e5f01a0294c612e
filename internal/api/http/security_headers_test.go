package http

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func headerTestApp(policy *HeaderPolicy) *fiber.App {
	app := fiber.New()
	app.Use(policy.Middleware())
	app.Get("/accounts/me", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Get("/api/data", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Get("/static/app.js", func(c *fiber.Ctx) error {
		return c.SendString("console.log('hi')")
	})
	app.Get("/page", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString("<html></html>")
	})
	return app
}

func TestHeaderPolicy_BaselineHeaders(t *testing.T) {
	t.Parallel()

	app := headerTestApp(NewHeaderPolicy(false))
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/data", nil))
	require.NoError(t, err)

	require.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	require.Equal(t, "1; mode=block", resp.Header.Get("X-XSS-Protection"))
	require.Equal(t, "strict-origin-when-cross-origin", resp.Header.Get("Referrer-Policy"))
	require.Equal(t, "geolocation=(), microphone=(), camera=()", resp.Header.Get("Permissions-Policy"))
	require.Empty(t, resp.Header.Get(fiber.HeaderServer))
	require.Empty(t, resp.Header.Get("X-Powered-By"))
}

func TestHeaderPolicy_CspOnlyOnHTML(t *testing.T) {
	t.Parallel()

	app := headerTestApp(NewHeaderPolicy(false))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/data", nil))
	require.NoError(t, err)
	require.Empty(t, resp.Header.Get(fiber.HeaderContentSecurityPolicy))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/page", nil))
	require.NoError(t, err)
	require.Contains(t, resp.Header.Get(fiber.HeaderContentSecurityPolicy), "'unsafe-inline'")
}

func TestHeaderPolicy_ProductionHardening(t *testing.T) {
	t.Parallel()

	app := headerTestApp(NewHeaderPolicy(true))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/page", nil))
	require.NoError(t, err)

	csp := resp.Header.Get(fiber.HeaderContentSecurityPolicy)
	require.NotContains(t, csp, "'unsafe-inline'")
	require.NotContains(t, csp, "'unsafe-eval'")
	require.Contains(t, csp, "'self'")
	require.NotEmpty(t, resp.Header.Get(fiber.HeaderStrictTransportSecurity))

	// development never sends HSTS
	devApp := headerTestApp(NewHeaderPolicy(false))
	resp, err = devApp.Test(httptest.NewRequest(fiber.MethodGet, "/page", nil))
	require.NoError(t, err)
	require.Empty(t, resp.Header.Get(fiber.HeaderStrictTransportSecurity))
}

func TestHeaderPolicy_CacheControlByPath(t *testing.T) {
	t.Parallel()

	app := headerTestApp(NewHeaderPolicy(false))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/data", nil))
	require.NoError(t, err)
	require.Equal(t, "no-store, no-cache, must-revalidate", resp.Header.Get(fiber.HeaderCacheControl))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/accounts/me", nil))
	require.NoError(t, err)
	require.Equal(t, "no-store, no-cache, must-revalidate, private", resp.Header.Get(fiber.HeaderCacheControl))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/static/app.js", nil))
	require.NoError(t, err)
	require.Equal(t, "public, max-age=86400", resp.Header.Get(fiber.HeaderCacheControl))
}
