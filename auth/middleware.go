package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	// SessionCookieName is the cookie that carries the session token.
	SessionCookieName = "token"
	// AuthScheme is the Authorization header scheme we accept.
	AuthScheme = "Bearer"
	// LocalsUserKey is where the middleware stores the resolved user on the
	// request.
	LocalsUserKey = "user"
)

// TokenFromRequest locates a candidate session token. Lookup order is fixed
// and documented: the session cookie wins, the Authorization bearer header is
// the fallback. Returns "" when neither transport carries a token.
func TokenFromRequest(c *fiber.Ctx) string {
	if raw := c.Cookies(SessionCookieName); raw != "" {
		return raw
	}

	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], AuthScheme) {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// Protected gates a route behind a live session. The pipeline is: extract
// token, verify signature and expiry, load the subject's account, confirm the
// ledger still honors the exact (user, token) pair, then attach the public
// user to the request. Failure short-circuits before any handler logic runs.
func Protected(auther Authenticator, logger Logger) fiber.Handler {
	if logger == nil {
		logger = defLogger{}
	}

	return func(c *fiber.Ctx) error {
		raw := TokenFromRequest(c)
		if raw == "" {
			return ErrUnauthorized
		}

		user, err := auther.VerifySession(c.UserContext(), raw)
		if err != nil {
			logger.Debug("request rejected by auth middleware", "path", c.Path(), "error", err)
			return err
		}

		public := user.Public()
		c.Locals(LocalsUserKey, public)
		c.SetUserContext(WithContext(c.UserContext(), public))

		return c.Next()
	}
}

// UserFromLocals returns the user a Protected middleware attached to the
// request, if any.
func UserFromLocals(c *fiber.Ctx) (*PublicUser, bool) {
	raw := c.Locals(LocalsUserKey)
	if raw == nil {
		return nil, false
	}
	user, ok := raw.(*PublicUser)
	return user, ok
}
