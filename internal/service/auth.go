package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lobami/campaign-analytics/internal/hash"
	"github.com/lobami/campaign-analytics/internal/logging"
	"github.com/lobami/campaign-analytics/internal/models"
	"github.com/lobami/campaign-analytics/internal/repo"
	"github.com/lobami/campaign-analytics/internal/tokens"
)

// AuthService is the login / refresh / logout state machine. Refresh
// tokens move Issued -> Active -> {Rotated | Revoked | Expired}; a rotation
// revokes the predecessor and spawns its successor in one transaction.
type AuthService struct {
	Users  *repo.UserRepo
	Tokens *repo.TokenRepo
	Issuer *tokens.Service
}

func NewAuthService(users *repo.UserRepo, tokenRepo *repo.TokenRepo, issuer *tokens.Service) *AuthService {
	return &AuthService{Users: users, Tokens: tokenRepo, Issuer: issuer}
}

// LoginResult is one issued session: a stateless access token plus the
// opaque refresh string whose state lives in the token store.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	User         *models.User
}

// Register creates a user, lazily creating the company when a name is
// given. The first user of a company becomes its owner; everyone else
// starts as viewer.
func (s *AuthService) Register(ctx context.Context, email, password, companyName string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "email", email)

	if _, err := s.Users.ByEmail(email); err == nil {
		l.Warn("register_duplicate_email")
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var companyID *uint
	if companyName != "" {
		company, err := s.Users.CompanyByName(companyName)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			company, err = s.Users.CreateCompany(companyName)
			if err != nil {
				return nil, err
			}
			l.Info("company_created", "company_id", company.ID, "company_name", companyName)
		} else if err != nil {
			return nil, err
		}
		companyID = &company.ID
	}

	user, err := s.createUser(email, password, companyID, RoleViewer)
	if err != nil {
		return nil, err
	}
	l.Info("user_registered", "user_id", user.ID, "company_id", user.CompanyID)
	return user, nil
}

// CreateMember lets a company owner add admin/viewer accounts to their own
// company. Any requested role outside that set falls back to viewer.
func (s *AuthService) CreateMember(ctx context.Context, companyID uint, email, password string, role Role) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.create_member", "company_id", companyID)

	if role != RoleAdmin {
		role = RoleViewer
	}
	if _, err := s.Users.ByEmail(email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user, err := s.createUser(email, password, &companyID, role)
	if err != nil {
		return nil, err
	}
	l.Info("member_created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *AuthService) createUser(email, password string, companyID *uint, role Role) (*models.User, error) {
	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}
	// The user who brings a company into existence runs it.
	if companyID != nil {
		existing, err := s.Users.CountInCompany(*companyID)
		if err != nil {
			return nil, err
		}
		if existing == 0 {
			role = RoleOwner
		}
	}
	user := &models.User{
		Email:        email,
		PasswordHash: pwHash,
		IsActive:     true,
		Role:         role.String(),
		CompanyID:    companyID,
	}
	if err := s.Users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a fresh session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "email", email)

	user, err := s.Users.ByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed")
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}
	if !user.IsActive || !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed")
		return nil, ErrAuthenticationFailed
	}

	result, err := s.issueSession(user)
	if err != nil {
		return nil, err
	}
	l.Info("login_success", "user_id", user.ID)
	return result, nil
}

// Refresh redeems a refresh token for a new session, rotating it. A token
// can be redeemed exactly once; a replay of an already-rotated token fails
// with ErrInvalidSession, which is how stolen-token reuse surfaces.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	rt, err := s.Tokens.Find(rawToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("refresh_unknown_token")
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	if rt.Revoked || time.Now().After(rt.ExpiresAt) {
		l.Warn("refresh_invalid", "user_id", rt.UserID, "revoked", rt.Revoked)
		return nil, ErrInvalidSession
	}

	user, err := s.Users.ByID(rt.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidSession
	}

	newRaw, err := s.Issuer.NewRefreshString()
	if err != nil {
		return nil, err
	}
	refreshExp := time.Now().Add(s.Issuer.RefreshTTL())
	successor := &models.RefreshToken{
		Token:     newRaw,
		UserID:    user.ID,
		ExpiresAt: refreshExp,
	}
	if err := s.Tokens.Rotate(rawToken, successor); err != nil {
		if errors.Is(err, repo.ErrTokenSpent) {
			l.Warn("refresh_lost_rotation_race", "user_id", user.ID)
			return nil, ErrInvalidSession
		}
		return nil, err
	}

	accessToken, accessExp, err := s.Issuer.IssueAccess(user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	l.Info("refresh_rotated", "user_id", user.ID)
	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: newRaw,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		User:         user,
	}, nil
}

// Logout revokes the presented refresh token. Unknown and already-revoked
// tokens are no-ops; logout never fails from the caller's perspective.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")
	revoked, err := s.Tokens.Revoke(rawToken)
	if err != nil {
		return err
	}
	if revoked {
		l.Info("logout_revoked")
	}
	return nil
}

// Authorize resolves a presented access token to a live user record.
func (s *AuthService) Authorize(ctx context.Context, rawToken string) (*models.User, error) {
	claims, err := s.Issuer.ParseAccess(rawToken)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	user, err := s.Users.ByEmail(claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

func (s *AuthService) issueSession(user *models.User) (*LoginResult, error) {
	accessToken, accessExp, err := s.Issuer.IssueAccess(user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	raw, err := s.Issuer.NewRefreshString()
	if err != nil {
		return nil, err
	}
	refreshExp := time.Now().Add(s.Issuer.RefreshTTL())
	rt := &models.RefreshToken{
		Token:     raw,
		UserID:    user.ID,
		ExpiresAt: refreshExp,
	}
	if err := s.Tokens.Store(rt); err != nil {
		return nil, err
	}
	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: raw,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		User:         user,
	}, nil
}
