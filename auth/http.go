package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// CookieConfig controls the attributes of the session cookie. Secure and
// SameSite=None are production attributes; development relaxes them so a
// local front end on a different port can authenticate.
type CookieConfig struct {
	Name     string
	MaxAge   time.Duration
	Secure   bool
	SameSite string
}

// DefaultCookieConfig derives cookie attributes from the environment flag.
// MaxAge should match the token TTL so cookie and token expire together.
func DefaultCookieConfig(production bool, ttl time.Duration) CookieConfig {
	cfg := CookieConfig{
		Name:     SessionCookieName,
		MaxAge:   ttl,
		Secure:   production,
		SameSite: "Lax",
	}

	if production {
		cfg.SameSite = "None"
	}

	return cfg
}

// Set writes the session cookie carrying the token.
func (cc CookieConfig) Set(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     cc.Name,
		Value:    token,
		Expires:  time.Now().Add(cc.MaxAge),
		HTTPOnly: true,
		Secure:   cc.Secure,
		SameSite: cc.SameSite,
	})
}

// Clear expires the session cookie.
func (cc CookieConfig) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     cc.Name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   cc.Secure,
		SameSite: cc.SameSite,
	})
}

// ErrorHandler maps domain errors to HTTP responses. Rich errors carry their
// own status code; anything else becomes a generic 500 so internal failure
// detail never leaks to clients.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		status := richErr.Code
		if status == 0 {
			status = fiber.StatusInternalServerError
		}
		return c.Status(status).JSON(fiber.Map{
			"message": richErr.Message,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"message": fiberErr.Message,
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Something went wrong",
	})
}
