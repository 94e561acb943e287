package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/lobami/campaign-analytics/internal/middleware/auth"
	"github.com/lobami/campaign-analytics/internal/mykafka"
	"github.com/lobami/campaign-analytics/internal/service"
)

const authTopic = "auth_events"

type AuthHandler struct {
	Svc      *service.AuthService
	Producer *mykafka.Producer
}

type registerReq struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"company_name"`
}

type createMemberReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginReq struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	user, err := h.Svc.Register(c.Request().Context(), req.Email, req.Password, req.CompanyName)
	if err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, authTopic, fmt.Sprint(user.ID), map[string]any{
		"type":    "user_registered",
		"user_id": user.ID,
		"email":   user.Email,
	})

	return c.JSON(http.StatusCreated, user)
}

// Login takes the usual username/password form fields, returns a bearer
// access token and sets the refresh cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	result, err := h.Svc.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return httpError(err)
	}

	c.SetCookie(newRefreshCookie(result.RefreshToken, result.RefreshExp))

	publish(c, h.Producer, authTopic, fmt.Sprint(result.User.ID), map[string]any{
		"type":    "user_logged_in",
		"user_id": result.User.ID,
		"email":   result.User.Email,
	})

	return c.JSON(http.StatusOK, tokenResp{AccessToken: result.AccessToken, TokenType: "bearer"})
}

// Refresh reads the refresh cookie, rotates it and returns a new access
// token. On failure the cookie is left untouched; the caller must log in
// again.
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return httpError(service.ErrInvalidSession)
	}

	result, err := h.Svc.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		return httpError(err)
	}

	c.SetCookie(newRefreshCookie(result.RefreshToken, result.RefreshExp))

	publish(c, h.Producer, authTopic, fmt.Sprint(result.User.ID), map[string]any{
		"type":    "token_refreshed",
		"user_id": result.User.ID,
	})

	return c.JSON(http.StatusOK, tokenResp{AccessToken: result.AccessToken, TokenType: "bearer"})
}

// Logout revokes the presented refresh token if there is one and always
// clears the cookie. Calling it twice, or with no cookie at all, is fine.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		if err := h.Svc.Logout(c.Request().Context(), cookie.Value); err != nil {
			return httpError(err)
		}
		publish(c, h.Producer, authTopic, "", map[string]any{"type": "user_logged_out"})
	}

	c.SetCookie(expiredRefreshCookie())
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (h *AuthHandler) Me(c echo.Context) error {
	user := authmw.CurrentUser(c)
	if user == nil {
		return httpError(service.ErrUnauthenticated)
	}
	return c.JSON(http.StatusOK, user)
}

// CreateMember lets a company owner add admin/viewer users to their own
// company. The route is gated on RoleOwner.
func (h *AuthHandler) CreateMember(c echo.Context) error {
	owner := authmw.CurrentUser(c)
	if owner == nil {
		return httpError(service.ErrUnauthenticated)
	}
	if owner.CompanyID == nil {
		return httpError(service.ErrNoCompany)
	}

	var req createMemberReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}
	role, err := service.ParseRole(req.Role)
	if err != nil {
		role = service.RoleViewer
	}

	user, err := h.Svc.CreateMember(c.Request().Context(), *owner.CompanyID, req.Email, req.Password, role)
	if err != nil {
		return httpError(err)
	}

	publish(c, h.Producer, authTopic, fmt.Sprint(user.ID), map[string]any{
		"type":       "user_registered",
		"user_id":    user.ID,
		"email":      user.Email,
		"created_by": owner.ID,
	})

	return c.JSON(http.StatusCreated, user)
}
