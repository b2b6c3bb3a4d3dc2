package middleware

import (
	config "github.com/anjiri1684/fee_collect/configs"
	"github.com/anjiri1684/fee_collect/session"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Protected guards API routes with the session cookie. Missing and invalid
// sessions are treated identically.
func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  []byte(config.Config("SESSION_SECRET")),
		TokenLookup: "cookie:" + session.CookieName,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"success": false, "error": "Unauthorized"})
		},
	})
}

// DashboardGuard redirects browser-facing dashboard pages to /login when
// the session cookie is absent, expired or tampered with.
func DashboardGuard(codec *session.Codec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(session.CookieName)
		if token == "" {
			return c.Redirect("/login", fiber.StatusFound)
		}
		if _, err := codec.Decode(token); err != nil {
			return c.Redirect("/login", fiber.StatusFound)
		}
		return c.Next()
	}
}

// LoginRedirect sends already-authenticated admins from /login to the
// dashboard.
func LoginRedirect(codec *session.Codec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(session.CookieName)
		if token != "" {
			if _, err := codec.Decode(token); err == nil {
				return c.Redirect("/dashboard", fiber.StatusFound)
			}
		}
		return c.Next()
	}
}

// SessionUserID extracts the authenticated admin's id from the parsed
// session token set by Protected.
func SessionUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, session.ErrInvalidSession
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, session.ErrInvalidSession
	}
	idStr, _ := claims["user_id"].(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, session.ErrInvalidSession
	}
	return id, nil
}
