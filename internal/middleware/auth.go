package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mmynk/triptangle/internal/auth"
)

// Context keys for the authenticated caller.
const (
	UserIDKey = "user_id"
	EmailKey  = "email"
)

// GetUserID returns the authenticated user ID, or 0 before authentication.
func GetUserID(c echo.Context) int {
	id, _ := c.Get(UserIDKey).(int)
	return id
}

// GetEmail returns the authenticated user's email, or "" before authentication.
func GetEmail(c echo.Context) string {
	email, _ := c.Get(EmailKey).(string)
	return email
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c echo.Context) (string, bool) {
	parts := strings.Split(c.Request().Header.Get(echo.HeaderAuthorization), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth rejects requests without a valid bearer token. Failures use the
// FastAPI error shape the client expects.
func RequireAuth(jwtManager *auth.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return unauthorized(c, "Not authenticated")
			}
			token, ok := bearerToken(c)
			if !ok {
				return unauthorized(c, auth.ErrInvalidToken.Error())
			}

			claims, err := jwtManager.Validate(token)
			if err != nil {
				return unauthorized(c, auth.ErrInvalidToken.Error())
			}

			c.Set(UserIDKey, claims.UserID)
			c.Set(EmailKey, claims.Subject)
			return next(c)
		}
	}
}

// OptionalAuth records the caller when a valid token is present but lets anonymous
// requests through.
func OptionalAuth(jwtManager *auth.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token, ok := bearerToken(c); ok {
				if claims, err := jwtManager.Validate(token); err == nil {
					c.Set(UserIDKey, claims.UserID)
					c.Set(EmailKey, claims.Subject)
				}
			}
			return next(c)
		}
	}
}

// unauthorized answers 401 with a FastAPI-style detail body.
func unauthorized(c echo.Context, msg string) error {
	body, err := json.Marshal(map[string]string{"detail": msg})
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusUnauthorized, body)
}
