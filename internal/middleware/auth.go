// Package middleware provides request-scoped Fiber middleware: sessions, logging, tracing, metrics and rate limiting.
package middleware

import (
	"context"
	"net/url"
	"strings"

	"quorum/internal/session"

	"github.com/gofiber/fiber/v2"
)

// LoginURL is where anonymous users are sent by LoginRequired.
const LoginURL = "/accounts/login"

const (
	localUserID   = "userID"
	localUsername = "username"
	localSession  = "session"
)

// SessionVerifier resolves a session token to its claims.
type SessionVerifier interface {
	Parse(ctx context.Context, token string) (*session.Claims, error)
}

// LoadSession identifies the user from the session cookie or a Bearer token.
// It never rejects a request; routes that need a user add LoginRequired.
func LoadSession(v SessionVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(session.CookieName)
		if token == "" {
			if parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}
		if token == "" {
			return c.Next()
		}

		claims, err := v.Parse(c.UserContext(), token)
		if err != nil {
			return c.Next()
		}
		userID, err := claims.UserID()
		if err != nil {
			return c.Next()
		}

		c.Locals(localUserID, userID)
		c.Locals(localUsername, claims.Username)
		c.Locals(localSession, claims)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))
		return c.Next()
	}
}

// LoginRequired redirects anonymous users to the login page with a next parameter
// pointing back to the requested URL. Asynchronous callers get a 401 JSON body instead.
func LoginRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CurrentUserID(c); ok {
			return c.Next()
		}
		target := LoginRedirectURL(c.OriginalURL())
		if IsXHR(c) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":     "Authentication required",
				"code":      "UNAUTHORIZED",
				"login_url": target,
			})
		}
		return c.Redirect(target, fiber.StatusFound)
	}
}

// LoginRedirectURL builds the login URL carrying next.
func LoginRedirectURL(next string) string {
	if next == "" {
		return LoginURL
	}
	return LoginURL + "?next=" + url.QueryEscape(next)
}

// CurrentUserID returns the authenticated user's ID, if any.
func CurrentUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(localUserID).(uint)
	return id, ok && id != 0
}

// CurrentUsername returns the authenticated user's name, if any.
func CurrentUsername(c *fiber.Ctx) string {
	name, _ := c.Locals(localUsername).(string)
	return name
}

// CurrentSession returns the claims of the active session, if any.
func CurrentSession(c *fiber.Ctx) *session.Claims {
	claims, _ := c.Locals(localSession).(*session.Claims)
	return claims
}

// IsXHR reports whether the request was made asynchronously by a script.
func IsXHR(c *fiber.Ctx) bool {
	return strings.EqualFold(c.Get(fiber.HeaderXRequestedWith), "XMLHttpRequest")
}
