package server

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/goliatone/go-heroes-auth"
)

type Options struct {
	Name        string
	Version     string
	Description string
	// Prefix is where the auth and user routes are mounted, e.g. /api/v1
	Prefix       string
	CORSOrigins  []string
	AllowedHosts []string
	// Ping reports database health on GET /
	Ping    func(ctx context.Context) error
	Metrics http.Handler
	Logger  *zap.Logger
}

// New builds the fiber app with the health check, optional metrics and the
// auth routes under opts.Prefix.
func New(opts Options, controller *auth.AuthController) *fiber.App {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               opts.Name,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(TrustedHosts(opts.AllowedHosts))

	if len(opts.CORSOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(opts.CORSOrigins, ","),
			AllowCredentials: !slices.Contains(opts.CORSOrigins, "*"),
		}))
	}

	app.Use(fiberzap.New(fiberzap.Config{
		Logger:   logger,
		Fields:   []string{"requestId", "method", "url", "status", "latency"},
		Messages: []string{"http request error", "http request client error", "http request"},
	}))

	app.Get("/", healthHandler(opts)).Name("health")

	if opts.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics)).Name("metrics")
	}

	auth.RegisterAuthRoutes(app.Group(opts.Prefix), controller)

	return app
}

// HealthResponse is the GET / payload
type HealthResponse struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	Description  string `json:"description"`
	DBConnection string `json:"db_connection"`
}

func healthHandler(opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := "OK"
		if opts.Ping != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 500*time.Millisecond)
			defer cancel()
			if err := opts.Ping(ctx); err != nil {
				status = "KO"
			}
		}

		return c.JSON(HealthResponse{
			Name:         opts.Name,
			Version:      opts.Version,
			Description:  opts.Description,
			DBConnection: status,
		})
	}
}

func errorHandler(l *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "An unexpected server error occurred"

		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			code = ferr.Code
			message = ferr.Message
		}

		if code >= fiber.StatusInternalServerError {
			l.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}

		return c.Status(code).JSON(auth.ErrorResponse{
			Error: auth.ErrorBody{Code: errorCode(code), Message: message},
		})
	}
}

func errorCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusConflict:
		return "CONFLICT"
	}
	if status >= fiber.StatusInternalServerError {
		return "INTERNAL"
	}
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}
