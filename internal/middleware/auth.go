package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	localUserID         = "user_id"
	localOrganizationID = "organization_id"

	// AnonymousUser owns requests when authentication is disabled.
	AnonymousUser = "anonymous"
)

// Claims are the bearer token claims. The subject is the user id.
type Claims struct {
	OrganizationID string `json:"org_id,omitempty"`
	jwt.RegisteredClaims
}

// Auth validates HS256 bearer tokens and stores the user and organization in
// the request locals. With an empty secret every request is anonymous.
func Auth(secret string) fiber.Handler {
	key := []byte(secret)

	return func(c *fiber.Ctx) error {
		if secret == "" {
			c.Locals(localUserID, AnonymousUser)
			c.Locals(localOrganizationID, "")
			return c.Next()
		}

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid authorization format")
		}

		claims, err := ParseToken(strings.TrimSpace(parts[1]), key)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		c.Locals(localUserID, claims.Subject)
		c.Locals(localOrganizationID, claims.OrganizationID)

		return c.Next()
	}
}

// ParseToken verifies the signature, expiry and subject of a token.
func ParseToken(tokenString string, key []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	return claims, nil
}

// UserID returns the authenticated user id.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

// OrganizationID returns the authenticated organization id, if any.
func OrganizationID(c *fiber.Ctx) string {
	id, _ := c.Locals(localOrganizationID).(string)
	return id
}
