package tokens

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const typAccess = "access"

// AccessClaims is the payload of a signed access token. The typ claim
// keeps access tokens from being replayed through endpoints that expect
// some other kind of credential.
type AccessClaims struct {
	Role string `json:"role"`
	Typ  string `json:"typ"`
	jwt.RegisteredClaims
}

// Service issues and verifies access tokens and mints opaque refresh
// strings. It holds no storage; refresh-token state lives in the database.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewService(secret []byte, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (s *Service) RefreshTTL() time.Duration { return s.refreshTTL }

// IssueAccess signs an access token for the subject with the default TTL.
func (s *Service) IssueAccess(subject, role string) (string, time.Time, error) {
	return s.IssueAccessWithTTL(subject, role, s.accessTTL)
}

func (s *Service) IssueAccessWithTTL(subject, role string, ttl time.Duration) (string, time.Time, error) {
	exp := time.Now().Add(ttl)
	claims := AccessClaims{
		Role: role,
		Typ:  typAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.NewString(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// ParseAccess verifies signature, expiry and kind. It consults no store.
func (s *Service) ParseAccess(raw string) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid access token")
	}
	if claims.Typ != typAccess {
		return nil, errors.New("not an access token")
	}
	return &claims, nil
}

// NewRefreshString mints an opaque random refresh token. The string itself
// carries no meaning; validity is whatever the refresh-token store says.
func (s *Service) NewRefreshString() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
