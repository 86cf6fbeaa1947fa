package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw request body
const SignatureHeader = "X-Signature"

// WebhookSignature rejects callbacks whose body was not signed with secret.
// The header may carry a "sha256=" prefix.
func WebhookSignature(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			log.Error("WEBHOOK_SECRET is not set, rejecting webhook")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "webhook verification is not configured",
			})
		}

		provided := strings.TrimPrefix(c.Get(SignatureHeader), "sha256=")
		signature, err := hex.DecodeString(provided)
		if err != nil || len(signature) == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or malformed signature",
			})
		}

		if !hmac.Equal(signature, Sign(secret, c.Body())) {
			log.WithField("path", c.Path()).Warn("Webhook signature mismatch")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid signature",
			})
		}

		return c.Next()
	}
}

// Sign computes the HMAC-SHA256 of body
func Sign(secret string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}
