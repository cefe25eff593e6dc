package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-service/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's identity into the request context. The provided
// secret must match the one used when issuing tokens. This middleware wraps
// every protected route so handlers can read the caller via
// c.Get("user_id"), c.Get("username") and c.Get("role").
//
// Every failure (missing header, bad signature, malformed payload,
// expired token) produces the same 401 body so the response never
// reveals which check rejected the token.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or missing token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or missing token"})
			}

			c.Set("user_id", claims.UserID)
			c.Set("username", claims.Username)
			c.Set("role", claims.Role)
			return next(c)
		}
	}
}
