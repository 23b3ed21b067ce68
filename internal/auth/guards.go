package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// RequireIdentity ensures the gate bound an identity to the request. The gate
// admits anonymous requests, so protected routes must carry this guard.
func RequireIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := IdentityFromContext(c); !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		return c.Next()
	}
}

// RequireAuthority ensures the bound identity carries all listed permission tags.
func RequireAuthority(tags ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		for _, tag := range tags {
			if !identity.HasAuthority(tag) {
				return fiber.NewError(http.StatusForbidden, "insufficient authority")
			}
		}
		return c.Next()
	}
}
