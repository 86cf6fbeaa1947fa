package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// LocalUserID is the fiber locals key holding the caller's account id
const LocalUserID = "user_id"

// GatewayAuth validates the bearer token the API gateway adds to every
// forwarded request. An empty expected token disables the check.
func GatewayAuth(expectedToken string) fiber.Handler {
	if expectedToken == "" {
		log.Warn("GATEWAY_TOKEN is not set, gateway authentication is disabled")
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			log.WithField("path", c.Path()).Warn("Missing gateway Authorization header")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "gateway authentication token missing",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
			log.WithField("path", c.Path()).Warn("Invalid gateway token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid gateway authentication token",
			})
		}

		return c.Next()
	}
}

// UserContext requires the X-User-ID header set by the gateway and stores it
// in the request locals
func UserContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get("X-User-ID"))
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID",
			})
		}
		c.Locals(LocalUserID, userID)
		return c.Next()
	}
}

// UserID returns the caller set by UserContext
func UserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(LocalUserID).(string)
	return userID
}
