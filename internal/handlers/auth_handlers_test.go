package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	authmw "github.com/lobami/campaign-analytics/internal/middleware/auth"
	"github.com/lobami/campaign-analytics/internal/models"
)

func registerUser(t *testing.T, env *testEnv, email, password, company string) models.User {
	t.Helper()
	c, rec := env.request(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":        email,
		"password":     password,
		"company_name": company,
	})
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeBody[models.User](t, rec)
}

func login(t *testing.T, env *testEnv, email, password string) (tokenResp, *http.Cookie) {
	t.Helper()
	c, rec := env.request(t, http.MethodPost, "/api/v1/auth/token", map[string]string{
		"username": email,
		"password": password,
	})
	require.NoError(t, env.Auth.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)
	return decodeBody[tokenResp](t, rec), refreshCookie(t, rec)
}

func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)

	user := registerUser(t, env, "owner@acme.com", "hunter22", "Acme")
	require.NotNil(t, user.CompanyID)
	require.Equal(t, "owner", user.Role)

	body, cookie := login(t, env, "owner@acme.com", "hunter22")
	require.NotEmpty(t, body.AccessToken)
	require.Equal(t, "bearer", body.TokenType)
	require.True(t, cookie.HttpOnly)
	require.True(t, cookie.Secure)
	require.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
	require.Equal(t, "/", cookie.Path)

	// Rotate: new access token, new cookie.
	c, rec := env.request(t, http.MethodPost, "/api/v1/auth/refresh", nil, cookie)
	require.NoError(t, env.Auth.Refresh(c))
	require.Equal(t, http.StatusOK, rec.Code)
	rotated := refreshCookie(t, rec)
	require.NotEqual(t, cookie.Value, rotated.Value)
	require.NotEmpty(t, decodeBody[tokenResp](t, rec).AccessToken)

	// The redeemed cookie is dead.
	c, _ = env.request(t, http.MethodPost, "/api/v1/auth/refresh", nil, cookie)
	requireHTTPError(t, env.Auth.Refresh(c), http.StatusUnauthorized)

	// Logout revokes the live cookie and clears it.
	c, rec = env.request(t, http.MethodPost, "/api/v1/auth/logout", nil, rotated)
	require.NoError(t, env.Auth.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, refreshCookie(t, rec).Value)

	c, _ = env.request(t, http.MethodPost, "/api/v1/auth/refresh", nil, rotated)
	requireHTTPError(t, env.Auth.Refresh(c), http.StatusUnauthorized)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	c, _ := env.request(t, http.MethodPost, "/api/v1/auth/register", map[string]string{"email": "x@x.com"})
	requireHTTPError(t, env.Auth.Register(c), http.StatusBadRequest)

	registerUser(t, env, "dup@x.com", "pw", "Acme")
	c, _ = env.request(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    "dup@x.com",
		"password": "pw",
	})
	requireHTTPError(t, env.Auth.Register(c), http.StatusConflict)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "known@x.com", "right", "Acme")

	for _, creds := range []map[string]string{
		{"username": "known@x.com", "password": "wrong"},
		{"username": "nobody@x.com", "password": "whatever"},
	} {
		c, _ := env.request(t, http.MethodPost, "/api/v1/auth/token", creds)
		he := requireHTTPError(t, env.Auth.Login(c), http.StatusUnauthorized)
		require.Equal(t, "incorrect email or password", he.Message)
	}
}

func TestRefreshWithoutCookie(t *testing.T) {
	env := newTestEnv(t)
	c, _ := env.request(t, http.MethodPost, "/api/v1/auth/refresh", nil)
	requireHTTPError(t, env.Auth.Refresh(c), http.StatusUnauthorized)
}

func TestLogoutWithoutCookieStillClears(t *testing.T) {
	env := newTestEnv(t)
	c, rec := env.request(t, http.MethodPost, "/api/v1/auth/logout", nil)
	require.NoError(t, env.Auth.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, refreshCookie(t, rec).Value)
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	user := registerUser(t, env, "me@x.com", "pw", "Acme")

	c, rec := env.request(t, http.MethodGet, "/api/v1/auth/me", nil)
	authmw.SetCurrentUser(c, &user)
	require.NoError(t, env.Auth.Me(c))
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[models.User](t, rec)
	require.Equal(t, user.ID, got.ID)
	require.Equal(t, "me@x.com", got.Email)
	// The hash never leaves the server.
	require.NotContains(t, rec.Body.String(), "password")
}

func TestCreateMember(t *testing.T) {
	env := newTestEnv(t)
	owner := registerUser(t, env, "owner@acme.com", "pw", "Acme")

	c, rec := env.request(t, http.MethodPost, "/api/v1/auth/users", map[string]string{
		"email":    "admin@acme.com",
		"password": "pw",
		"role":     "admin",
	})
	authmw.SetCurrentUser(c, &owner)
	require.NoError(t, env.Auth.CreateMember(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	member := decodeBody[models.User](t, rec)
	require.Equal(t, "admin", member.Role)
	require.Equal(t, owner.CompanyID, member.CompanyID)

	// Garbage roles degrade to viewer instead of failing the request.
	c, rec = env.request(t, http.MethodPost, "/api/v1/auth/users", map[string]string{
		"email":    "odd@acme.com",
		"password": "pw",
		"role":     "superuser",
	})
	authmw.SetCurrentUser(c, &owner)
	require.NoError(t, env.Auth.CreateMember(c))
	require.Equal(t, "viewer", decodeBody[models.User](t, rec).Role)
}

func TestCreateMemberRequiresCompany(t *testing.T) {
	env := newTestEnv(t)
	loner := registerUser(t, env, "loner@x.com", "pw", "")

	c, _ := env.request(t, http.MethodPost, "/api/v1/auth/users", map[string]string{
		"email":    "new@x.com",
		"password": "pw",
	})
	authmw.SetCurrentUser(c, &loner)
	requireHTTPError(t, env.Auth.CreateMember(c), http.StatusBadRequest)
}
