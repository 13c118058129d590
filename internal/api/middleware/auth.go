package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/placesdir/places-api/internal/core/ports"
)

// Auth validates the bearer token and injects the caller identity into the
// echo context. CORS pre-flight requests pass through unauthenticated. All
// failures surface as 403 with the same message so callers learn nothing
// about which check failed.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method == http.MethodOptions {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusForbidden, "Authentication failed!")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusForbidden, "Authentication failed!")
			}

			userID, email, err := verifier.VerifyToken(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "Authentication failed!")
			}

			c.Set("userId", userID)
			c.Set("email", email)

			return next(c)
		}
	}
}
