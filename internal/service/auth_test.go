package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lobami/campaign-analytics/internal/config"
	"github.com/lobami/campaign-analytics/internal/models"
	"github.com/lobami/campaign-analytics/internal/repo"
	"github.com/lobami/campaign-analytics/internal/tokens"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

func newAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	issuer := tokens.NewService([]byte("test-secret"), 15*time.Minute, 7*24*time.Hour)
	svc := NewAuthService(repo.NewUserRepo(db), repo.NewTokenRepo(db), issuer)
	return svc, db
}

func TestRegisterFirstCompanyUserBecomesOwner(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, "first@acme.com", "pw-first", "Acme")
	require.NoError(t, err)
	require.NotNil(t, first.CompanyID)
	require.Equal(t, RoleOwner.String(), first.Role)

	second, err := svc.Register(ctx, "second@acme.com", "pw-second", "Acme")
	require.NoError(t, err)
	require.Equal(t, first.CompanyID, second.CompanyID, "same company name reuses the company")
	require.Equal(t, RoleViewer.String(), second.Role)
}

func TestRegisterWithoutCompany(t *testing.T) {
	svc, _ := newAuthService(t)

	user, err := svc.Register(context.Background(), "solo@x.com", "pw", "")
	require.NoError(t, err)
	require.Nil(t, user.CompanyID)
	require.Equal(t, RoleViewer.String(), user.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "dup@x.com", "pw", "Acme")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "dup@x.com", "pw", "Other")
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestCreateMemberSanitizesRole(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	owner, err := svc.Register(ctx, "owner@acme.com", "pw", "Acme")
	require.NoError(t, err)

	admin, err := svc.CreateMember(ctx, *owner.CompanyID, "admin@acme.com", "pw", RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, RoleAdmin.String(), admin.Role)

	// An owner cannot mint another owner through this path.
	viewer, err := svc.CreateMember(ctx, *owner.CompanyID, "sneaky@acme.com", "pw", RoleOwner)
	require.NoError(t, err)
	require.Equal(t, RoleViewer.String(), viewer.Role)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "known@x.com", "right-password", "Acme")
	require.NoError(t, err)

	_, unknownErr := svc.Login(ctx, "nobody@x.com", "whatever")
	_, wrongErr := svc.Login(ctx, "known@x.com", "wrong-password")

	require.ErrorIs(t, unknownErr, ErrAuthenticationFailed)
	require.ErrorIs(t, wrongErr, ErrAuthenticationFailed)
	require.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLoginInactiveUserFails(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "gone@x.com", "pw", "Acme")
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)

	_, err = svc.Login(ctx, "gone@x.com", "pw")
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestLoginIssuesIndependentSessions(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "multi@x.com", "pw", "Acme")
	require.NoError(t, err)

	s1, err := svc.Login(ctx, "multi@x.com", "pw")
	require.NoError(t, err)
	s2, err := svc.Login(ctx, "multi@x.com", "pw")
	require.NoError(t, err)
	require.NotEqual(t, s1.RefreshToken, s2.RefreshToken)

	// Revoking one session leaves the other redeemable.
	require.NoError(t, svc.Logout(ctx, s1.RefreshToken))
	_, err = svc.Refresh(ctx, s1.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidSession)
	_, err = svc.Refresh(ctx, s2.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshRotationInvalidatesPredecessor(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "rot@x.com", "pw", "Acme")
	require.NoError(t, err)
	session, err := svc.Login(ctx, "rot@x.com", "pw")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, session.RefreshToken, rotated.RefreshToken)
	require.NotEmpty(t, rotated.AccessToken)

	// Replaying the redeemed token is terminal.
	_, err = svc.Refresh(ctx, session.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidSession)

	// The successor is still live and rotates again.
	_, err = svc.Refresh(ctx, rotated.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshUnknownToken(t *testing.T) {
	svc, _ := newAuthService(t)
	_, err := svc.Refresh(context.Background(), "never-issued")
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestRefreshExpiredToken(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "exp@x.com", "pw", "Acme")
	require.NoError(t, err)
	session, err := svc.Login(ctx, "exp@x.com", "pw")
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(&models.RefreshToken{}).
		Where("token = ?", session.RefreshToken).
		Update("expires_at", past).Error)

	_, err = svc.Refresh(ctx, session.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestRefreshDeactivatedUser(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "off@x.com", "pw", "Acme")
	require.NoError(t, err)
	session, err := svc.Login(ctx, "off@x.com", "pw")
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)

	_, err = svc.Refresh(ctx, session.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "out@x.com", "pw", "Acme")
	require.NoError(t, err)
	session, err := svc.Login(ctx, "out@x.com", "pw")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.RefreshToken))
	require.NoError(t, svc.Logout(ctx, session.RefreshToken))
	require.NoError(t, svc.Logout(ctx, "never-issued"))

	_, err = svc.Refresh(ctx, session.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestAuthorize(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "authz@x.com", "pw", "Acme")
	require.NoError(t, err)
	session, err := svc.Login(ctx, "authz@x.com", "pw")
	require.NoError(t, err)

	got, err := svc.Authorize(ctx, session.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	_, err = svc.Authorize(ctx, "not-a-jwt")
	require.ErrorIs(t, err, ErrUnauthenticated)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)
	_, err = svc.Authorize(ctx, session.AccessToken)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRotateLostRaceSurfacesAsTokenSpent(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "race@x.com", "pw", "Acme")
	require.NoError(t, err)
	session, err := svc.Login(ctx, "race@x.com", "pw")
	require.NoError(t, err)

	tokenRepo := repo.NewTokenRepo(db)
	first := &models.RefreshToken{Token: "succ-1", UserID: session.User.ID, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, tokenRepo.Rotate(session.RefreshToken, first))

	second := &models.RefreshToken{Token: "succ-2", UserID: session.User.ID, ExpiresAt: time.Now().Add(time.Hour)}
	err = tokenRepo.Rotate(session.RefreshToken, second)
	require.ErrorIs(t, err, repo.ErrTokenSpent)

	// The losing transaction rolled back; its successor was never stored.
	_, err = tokenRepo.Find("succ-2")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
