package middleware

import (
	"strings"

	"microblog/config"
	"microblog/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// InitMiddleware wires the middleware package with config
func InitMiddleware(cfg *config.Config) {
	jwtSecret = []byte(cfg.JWTSecret)
}

// AuthRequired verifies the Authorization bearer token and attaches the
// caller's identity to the request locals. A missing token is 401; a
// token that is present but invalid or expired is 403.
func AuthRequired(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return models.RespondWithError(c,
			models.NewUnauthenticatedError("Access denied. No token provided."))
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return models.RespondWithError(c,
			models.NewUnauthenticatedError("Access denied. No token provided."))
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusForbidden, "Invalid signing method")
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return models.RespondWithError(c,
			models.NewForbiddenError("Invalid or expired token."))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.RespondWithError(c,
			models.NewForbiddenError("Invalid or expired token."))
	}

	// Tokens are issued with a "userId" claim; "id" is accepted for
	// tokens minted before the claim name was standardized.
	if id, ok := claims["userId"].(float64); ok {
		c.Locals("userID", uint(id))
	} else if id, ok := claims["id"].(float64); ok {
		c.Locals("userID", uint(id))
	}
	if email, ok := claims["email"].(string); ok {
		c.Locals("userEmail", email)
	}

	return c.Next()
}
