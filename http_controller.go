package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
)

type AuthControllerRoutes struct {
	AccessToken  string
	RefreshToken string
	Users        string
	Me           string
	MePassword   string
}

type AuthController struct {
	Debug        bool
	Logger       Logger
	ContextKey   string
	Routes       *AuthControllerRoutes
	Auther       Authenticator
	Tokens       TokenValidator
	Users        UserStore
	Registration *RegisterUserHandler
	Passwords    *UpdatePasswordHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:     defLogger{},
		ContextKey: DefaultContextKey,
		Routes: &AuthControllerRoutes{
			AccessToken:  "/auth/access-token",
			RefreshToken: "/auth/refresh-token",
			Users:        "/users",
			Me:           "/users/me",
			MePassword:   "/users/me/password",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Tokens == nil {
		panic("Missing TokenValidator in auth controller...")
	}

	if c.Users == nil {
		panic("Missing UserStore in auth controller...")
	}

	return c
}

func WithControllerLogger(l Logger) AuthControllerOption {
	return func(ac *AuthController) *AuthController {
		if l != nil {
			ac.Logger = l
		}
		return ac
	}
}

func WithAuthenticator(auther Authenticator) AuthControllerOption {
	return func(ac *AuthController) *AuthController {
		ac.Auther = auther
		return ac
	}
}

// WithTokenValidator sets the validator used by protected routes
func WithTokenValidator(tokens TokenValidator) AuthControllerOption {
	return func(ac *AuthController) *AuthController {
		ac.Tokens = tokens
		return ac
	}
}

func WithUserStore(users UserStore) AuthControllerOption {
	return func(ac *AuthController) *AuthController {
		ac.Users = users
		return ac
	}
}

func WithRegistration(h *RegisterUserHandler) AuthControllerOption {
	return func(ac *AuthController) *AuthController {
		ac.Registration = h
		return ac
	}
}

func WithPasswordUpdate(h *UpdatePasswordHandler) AuthControllerOption {
	return func(ac *AuthController) *AuthController {
		ac.Passwords = h
		return ac
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(ac *AuthController) *AuthController {
		ac.Debug = debug
		return ac
	}
}

func WithControllerRoutes(routes *AuthControllerRoutes) AuthControllerOption {
	return func(ac *AuthController) *AuthController {
		if routes != nil {
			ac.Routes = routes
		}
		return ac
	}
}

// LoginRequest payload. username is accepted for OAuth2 password-form clients.
type LoginRequest struct {
	Identifier string `form:"identifier" json:"identifier"`
	Username   string `form:"username" json:"username"`
	Password   string `form:"password" json:"password"`
}

var _ LoginPayload = LoginRequest{}

// GetIdentifier returns the identifier
func (r LoginRequest) GetIdentifier() string {
	if r.Identifier != "" {
		return r.Identifier
	}
	return r.Username
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	identifier := r.GetIdentifier()
	return validation.Errors{
		"identifier": validation.Validate(identifier, validation.Required, validation.Length(1, 255)),
		"password":   validation.Validate(r.Password, validation.Required),
	}.Filter()
}

// RefreshRequest payload
type RefreshRequest struct {
	RefreshToken string `form:"refresh_token" json:"refresh_token"`
}

// Validate will run validation rules
func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

func (a *AuthController) AccessTokenPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		return a.ErrorHandler(c, fiber.NewError(fiber.StatusBadRequest, "Malformed login request"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(c, err)
	}

	if a.Debug {
		a.Logger.Debug("Login attempt", "identifier", payload.GetIdentifier())
	}

	pair, err := a.Auther.Login(c.UserContext(), payload.GetIdentifier(), payload.GetPassword())
	if err != nil {
		return a.loginError(c, err)
	}

	return c.JSON(pair)
}

func (a *AuthController) RefreshTokenPost(c *fiber.Ctx) error {
	payload := new(RefreshRequest)

	if err := c.BodyParser(payload); err != nil {
		return a.ErrorHandler(c, fiber.NewError(fiber.StatusBadRequest, "Malformed refresh request"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(c, err)
	}

	pair, err := a.Auther.Refresh(c.UserContext(), payload.RefreshToken)
	if err != nil {
		return a.ErrorHandler(c, err)
	}

	return c.JSON(pair)
}

func (a *AuthController) MeGet(c *fiber.Ctx) error {
	user, err := CurrentUser(c, a.ContextKey)
	if err != nil {
		return a.ErrorHandler(c, err)
	}
	return c.JSON(user.ToResponse())
}

func (a *AuthController) RegistrationCreate(c *fiber.Ctx) error {
	if a.Registration == nil {
		return a.ErrorHandler(c, fiber.ErrNotFound)
	}

	payload := new(RegisterUserMessage)
	if err := c.BodyParser(payload); err != nil {
		return a.ErrorHandler(c, fiber.NewError(fiber.StatusBadRequest, "Malformed registration request"))
	}
	payload.UseHashid = false

	if a.Debug {
		a.Logger.Debug("Registration", "payload", print.MaybePrettyJSON(RegisterUserMessage{
			Email:    payload.Email,
			Nickname: payload.Nickname,
		}))
	}

	user, err := a.Registration.Register(c.UserContext(), *payload)
	if err != nil {
		return a.ErrorHandler(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user.ToResponse())
}

func (a *AuthController) PasswordUpdate(c *fiber.Ctx) error {
	if a.Passwords == nil {
		return a.ErrorHandler(c, fiber.ErrNotFound)
	}

	user, err := CurrentUser(c, a.ContextKey)
	if err != nil {
		return a.ErrorHandler(c, err)
	}

	payload := new(UpdatePasswordMessage)
	if err := c.BodyParser(payload); err != nil {
		return a.ErrorHandler(c, fiber.NewError(fiber.StatusBadRequest, "Malformed password request"))
	}
	payload.UserID = user.ID

	if err := a.Passwords.Execute(c.UserContext(), *payload); err != nil {
		return a.ErrorHandler(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
