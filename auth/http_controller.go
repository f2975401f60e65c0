package auth

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/nyaruka/phonenumbers"
)

// AuthControllerRoutes holds the paths the controller mounts under the auth
// group.
type AuthControllerRoutes struct {
	Signup  string
	Login   string
	Logout  string
	Verify  string
	Profile string
}

// AuthController exposes the signup/login/logout/verify flows over HTTP.
type AuthController struct {
	Debug   bool
	Logger  Logger
	Repo    RepositoryManager
	Auther  Authenticator
	Sink    ActivitySink
	Cookies CookieConfig
	Routes  *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

// WithControllerLogger sets the controller logger.
func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

// WithControllerRepo sets the repository manager.
func WithControllerRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

// WithControllerAuther sets the authenticator.
func WithControllerAuther(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

// WithControllerActivitySink sets the sink receiving signup events.
func WithControllerActivitySink(sink ActivitySink) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Sink = sink
		return c
	}
}

// WithControllerCookies sets the session cookie attributes.
func WithControllerCookies(cookies CookieConfig) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Cookies = cookies
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Signup:  "/signup",
			Login:   "/login",
			Logout:  "/logout",
			Verify:  "/verify",
			Profile: "/profile",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Cookies.Name == "" {
		c.Cookies.Name = SessionCookieName
	}

	return c
}

// RegisterAuthRoutes mounts the auth flows on the given router group. Logout
// and verify sit behind the protected middleware; signup and login do not.
func RegisterAuthRoutes(r fiber.Router, controller *AuthController, protected fiber.Handler) {
	r.Post(controller.Routes.Signup, controller.SignupPost)
	r.Post(controller.Routes.Login, controller.LoginPost)
	r.Post(controller.Routes.Logout, protected, controller.LogoutPost)
	r.Get(controller.Routes.Verify, protected, controller.VerifyGet)
	r.Get(controller.Routes.Profile, protected, controller.ProfileGet)
}

// SignupRequest is the account creation payload.
type SignupRequest struct {
	Name         string `form:"name" json:"name"`
	Email        string `form:"email" json:"email"`
	Password     string `form:"password" json:"password"`
	Role         string `form:"role" json:"role"`
	Organization string `form:"organization" json:"organization"`
	Phone        string `form:"phone" json:"phone"`
}

// Validate will run validation rules. Role may be blank (it defaults to
// candidate); when present it must be a known role, and recruiters must name
// an organization.
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.Role, validation.In(RoleCandidate, RoleRecruiter)),
		validation.Field(&r.Organization, validation.By(RequiredForRecruiters(r.Role))),
		validation.Field(&r.Phone, validation.By(ValidatePhoneNumber)),
	)
}

// LoginRequest is the credential payload.
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) SignupPost(c *fiber.Ctx) error {
	payload := new(SignupRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("signup parse payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request payload",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("signup validate payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	if a.Debug {
		fmt.Println("======= AUTH SIGNUP ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("==========================")
	}

	req := RegisterUserMessage{
		Name:         payload.Name,
		Email:        payload.Email,
		Password:     payload.Password,
		Role:         payload.Role,
		Organization: payload.Organization,
		Phone:        payload.Phone,
	}

	registerUser := RegisterUserHandler{Repo: a.Repo, Sink: a.Sink}
	if err := registerUser.Execute(c.UserContext(), req); err != nil {
		a.Logger.Error("signup register user", "error", err)
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Signup successful. You can now log in.",
	})
}

func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request payload",
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	token, user, err := a.Auther.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	// Dual transport: the cookie serves browser clients, the body serves
	// clients that prefer the Authorization header.
	a.Cookies.Set(c, token)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user.Public(),
	})
}

func (a *AuthController) LogoutPost(c *fiber.Ctx) error {
	user, ok := UserFromLocals(c)
	if !ok {
		return ErrUnauthorized
	}

	if err := a.Auther.Logout(c.UserContext(), user.ID.String()); err != nil {
		return err
	}

	a.Cookies.Clear(c)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}

func (a *AuthController) VerifyGet(c *fiber.Ctx) error {
	user, ok := UserFromLocals(c)
	if !ok {
		return ErrUnauthorized
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user": user,
	})
}

func (a *AuthController) ProfileGet(c *fiber.Ctx) error {
	user, ok := UserFromLocals(c)
	if !ok {
		return ErrUnauthorized
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Welcome!",
		"user":    user,
	})
}

// RequiredForRecruiters enforces the organization invariant: present exactly
// when the role is recruiter.
func RequiredForRecruiters(role string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if role == RoleRecruiter && s == "" {
			return errors.New("organization name is required for recruiters")
		}
		return nil
	}
}

// ValidatePhoneNumber accepts a blank phone and otherwise requires a number
// libphonenumber considers valid.
func ValidatePhoneNumber(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	num, err := phonenumbers.Parse(s, "US")
	if err != nil {
		return errors.New("must be a valid phone number")
	}

	if !phonenumbers.IsValidNumber(num) {
		return errors.New("must be a valid phone number")
	}

	return nil
}
