package service

import "errors"

// Outcome taxonomy of the core. Handlers map these onto HTTP statuses;
// nothing below this layer knows about HTTP.
var (
	// ErrAuthenticationFailed covers both unknown email and wrong
	// password. The two cases are deliberately indistinguishable to the
	// caller so the login endpoint cannot be used to enumerate accounts.
	ErrAuthenticationFailed = errors.New("incorrect email or password")

	// ErrInvalidSession is terminal for a refresh token: missing, revoked
	// or expired all look the same and the caller must re-authenticate.
	ErrInvalidSession = errors.New("invalid or revoked refresh token")

	// ErrUnauthenticated covers access tokens that are missing, invalid,
	// expired, or whose subject no longer resolves to a live user.
	ErrUnauthenticated = errors.New("could not validate credentials")

	ErrInsufficientPrivilege = errors.New("insufficient role")
	ErrInvalidRole           = errors.New("invalid role")
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrDuplicateCampaign     = errors.New("campaign already exists")

	// ErrNotFound is also returned for resources that exist but belong to
	// another tenant, so existence never leaks across companies.
	ErrNotFound = errors.New("not found")

	ErrNoCompany = errors.New("user has no associated company")
)
