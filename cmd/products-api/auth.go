package main

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/appgeist/rest"
)

// bearerGuard returns a pre-hook that rejects requests without a valid
// HMAC-signed bearer token. Hook errors reach the error translator before
// any validation runs, so unauthenticated writes never touch the schemas.
func bearerGuard(secret string) rest.Hook {
	return func(c *fiber.Ctx) error {
		raw, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if !ok {
			return rest.Unauthorized("missing bearer token")
		}

		_, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil {
			return rest.Unauthorized("invalid bearer token")
		}
		return nil
	}
}
