package jwtware_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-heroes-auth/middleware/jwtware"
)

type identity struct {
	subject string
}

type identityKey struct{}

var errRejected = errors.New("rejected")

func resolveTestToken(token string) (*identity, error) {
	if token != "good-token" {
		return nil, errRejected
	}
	return &identity{subject: "user-1"}, nil
}

func newTestApp(cfg jwtware.Config[*identity]) *fiber.App {
	app := fiber.New()
	app.Get("/protected/:token?", jwtware.New(cfg), func(c *fiber.Ctx) error {
		id, ok := c.Locals("identity").(*identity)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		if fromCtx, ok := c.UserContext().Value(identityKey{}).(*identity); ok {
			return c.SendString(id.subject + ":" + fromCtx.subject)
		}
		return c.SendString(id.subject)
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (int, string) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestJWTWare_BasicHeaderExtraction(t *testing.T) {
	app := newTestApp(jwtware.Config[*identity]{Resolve: resolveTestToken})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "Valid token", header: "Bearer good-token", wantStatus: fiber.StatusOK, wantBody: "user-1"},
		{name: "Scheme is case insensitive", header: "bearer good-token", wantStatus: fiber.StatusOK, wantBody: "user-1"},
		{name: "Rejected token", header: "Bearer bad-token", wantStatus: fiber.StatusUnauthorized, wantBody: "Invalid or expired token"},
		{name: "Missing header", header: "", wantStatus: fiber.StatusUnauthorized, wantBody: jwtware.ErrJWTMissingOrMalformed.Error()},
		{name: "Wrong scheme", header: "Basic good-token", wantStatus: fiber.StatusUnauthorized, wantBody: jwtware.ErrJWTMissingOrMalformed.Error()},
		{name: "Scheme only", header: "Bearer ", wantStatus: fiber.StatusUnauthorized, wantBody: jwtware.ErrJWTMissingOrMalformed.Error()},
		{name: "No separator", header: "Bearergood-token", wantStatus: fiber.StatusUnauthorized, wantBody: jwtware.ErrJWTMissingOrMalformed.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			status, body := doRequest(t, app, req)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestJWTWare_CustomHandlers(t *testing.T) {
	var handled error
	app := newTestApp(jwtware.Config[*identity]{
		Resolve: resolveTestToken,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			handled = err
			return c.Status(fiber.StatusTeapot).SendString("custom")
		},
		ContextEnricher: func(ctx context.Context, id *identity) context.Context {
			return context.WithValue(ctx, identityKey{}, id)
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	status, body := doRequest(t, app, req)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "user-1:user-1", body)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	status, body = doRequest(t, app, req)
	assert.Equal(t, fiber.StatusTeapot, status)
	assert.Equal(t, "custom", body)
	assert.ErrorIs(t, handled, errRejected)
}

func TestJWTWare_Filter(t *testing.T) {
	app := fiber.New()
	app.Get("/open", jwtware.New(jwtware.Config[*identity]{
		Resolve: resolveTestToken,
		Filter:  func(*fiber.Ctx) bool { return true },
	}), func(c *fiber.Ctx) error {
		return c.SendString("open")
	})

	status, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "open", body)
}

func TestJWTWare_TokenLookupSources(t *testing.T) {
	app := newTestApp(jwtware.Config[*identity]{
		Resolve:     resolveTestToken,
		TokenLookup: "header:Authorization,query:auth_token,cookie:jwt,param:token",
	})

	t.Run("Query", func(t *testing.T) {
		status, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/protected?auth_token=good-token", nil))
		assert.Equal(t, fiber.StatusOK, status)
	})

	t.Run("Cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: "jwt", Value: "good-token"})
		status, _ := doRequest(t, app, req)
		assert.Equal(t, fiber.StatusOK, status)
	})

	t.Run("Param", func(t *testing.T) {
		status, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/protected/good-token", nil))
		assert.Equal(t, fiber.StatusOK, status)
	})
}

func TestJWTWare_RequiresResolve(t *testing.T) {
	assert.Panics(t, func() {
		jwtware.New(jwtware.Config[*identity]{})
	})
}
