package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lobami/campaign-analytics/internal/models"
	"github.com/lobami/campaign-analytics/internal/service"
)

const userContextKey = "user"

// RequireAuth resolves the bearer access token to a live user and stores
// it in the request context for handlers and role guards downstream.
func RequireAuth(svc *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, service.ErrUnauthenticated.Error())
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			user, err := svc.Authorize(c.Request().Context(), raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, service.ErrUnauthenticated.Error())
			}
			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// RequireRole gates a route on a minimum role. It assumes RequireAuth ran
// earlier in the chain. A role string that does not parse fails closed.
func RequireRole(min service.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, service.ErrUnauthenticated.Error())
			}
			role, err := service.ParseRole(user.Role)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, service.ErrInvalidRole.Error())
			}
			if !role.AtLeast(min) {
				return echo.NewHTTPError(http.StatusForbidden, service.ErrInsufficientPrivilege.Error())
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user, or nil outside RequireAuth.
func CurrentUser(c echo.Context) *models.User {
	if u, ok := c.Get(userContextKey).(*models.User); ok {
		return u
	}
	return nil
}

// SetCurrentUser injects a user into the context. Used by tests that call
// handlers without the middleware chain.
func SetCurrentUser(c echo.Context, u *models.User) {
	c.Set(userContextKey, u)
}
