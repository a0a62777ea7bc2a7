package auth

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"

	"github.com/goliatone/go-heroes-auth/middleware/jwtware"
)

// Messages returned to clients. They never say which factor failed.
const (
	MessageInvalidCredentials = "Could not validate credentials"
	MessageInvalidLogin       = "Incorrect identifier or password"
	MessageUserNotFound       = "User not found."
)

// ErrorBody is the error payload
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse wraps ErrorBody as {"error":{...}}
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// RegisterAuthRoutes mounts the auth and user routes on router
func RegisterAuthRoutes(router fiber.Router, controller *AuthController) {
	protected := controller.ProtectedRoute()

	router.Post(controller.Routes.AccessToken, controller.AccessTokenPost).Name("auth.access-token")
	router.Post(controller.Routes.RefreshToken, controller.RefreshTokenPost).Name("auth.refresh-token")

	router.Post(controller.Routes.Users, controller.RegistrationCreate).Name("users.create")
	router.Get(controller.Routes.Me, protected, controller.MeGet).Name("users.me")
	router.Patch(controller.Routes.MePassword, protected, controller.PasswordUpdate).Name("users.me.password")
}

// ProtectedRoute builds the bearer middleware. Each request gets its own
// IdentityResolver, stored in fiber locals and in the user context.
func (a *AuthController) ProtectedRoute() fiber.Handler {
	return jwtware.New(jwtware.Config[*IdentityResolver]{
		ContextKey:   a.ContextKey,
		AuthScheme:   TokenTypeBearer,
		ErrorHandler: a.ErrorHandler,
		Resolve: func(token string) (*IdentityResolver, error) {
			return NewIdentityResolver(token, a.Tokens, a.Users)
		},
		ContextEnricher: WithResolverContext,
	})
}

// ErrorHandler maps auth errors to HTTP responses
func (a *AuthController) ErrorHandler(c *fiber.Ctx, err error) error {
	status, body := a.classify(err)

	if status >= fiber.StatusInternalServerError {
		a.Logger.Error("Request failed", "path", c.Path(), "error", err)
	} else {
		a.Logger.Info("Request rejected", "path", c.Path(), "status", status, "error", err)
	}

	if a.Debug && body.Details != nil {
		a.Logger.Debug("Request rejected details", "details", print.MaybePrettyJSON(body.Details))
	}

	if status == fiber.StatusUnauthorized {
		c.Set(fiber.HeaderWWWAuthenticate, TokenTypeBearer)
	}

	return c.Status(status).JSON(ErrorResponse{Error: body})
}

func (a *AuthController) classify(err error) (int, ErrorBody) {
	var verrs validation.Errors
	var ferr *fiber.Error

	switch {
	case errors.Is(err, ErrSubjectNotFound):
		return fiber.StatusNotFound, ErrorBody{Code: "NOT_FOUND", Message: MessageUserNotFound}
	case errors.Is(err, jwtware.ErrJWTMissingOrMalformed), IsAuthError(err):
		return fiber.StatusUnauthorized, ErrorBody{Code: "UNAUTHORIZED", Message: MessageInvalidCredentials}
	case errors.Is(err, ErrUserExists):
		return fiber.StatusConflict, ErrorBody{Code: "CONFLICT", Message: "User already exists"}
	case errors.As(err, &verrs):
		return fiber.StatusBadRequest, ErrorBody{Code: "BAD_REQUEST", Message: "Invalid request payload", Details: verrs}
	case errors.As(err, &ferr) && ferr.Code < fiber.StatusInternalServerError:
		code := "BAD_REQUEST"
		if ferr.Code == fiber.StatusNotFound {
			code = "NOT_FOUND"
		}
		return ferr.Code, ErrorBody{Code: code, Message: ferr.Message}
	}
	return fiber.StatusInternalServerError, ErrorBody{Code: "INTERNAL", Message: "An unexpected server error occurred"}
}

// loginError keeps the login response identical for unknown users and bad passwords
func (a *AuthController) loginError(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrPasswordMismatch) {
		a.Logger.Info("Login rejected", "error", err)
		c.Set(fiber.HeaderWWWAuthenticate, TokenTypeBearer)
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error: ErrorBody{Code: "UNAUTHORIZED", Message: MessageInvalidLogin},
		})
	}
	return a.ErrorHandler(c, err)
}
