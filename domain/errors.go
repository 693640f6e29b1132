package domain

import "errors"

// Conflict errors (duplicate identity fields)
var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrEmailTaken        = errors.New("email is already registered")
	ErrUsernameTaken     = errors.New("username is already taken")
)

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserBanned         = errors.New("user account is banned")
)

// Session errors
var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionExpired      = errors.New("session has expired")
	ErrSessionRevoked      = errors.New("session has been revoked")
	ErrSessionDigestExists = errors.New("refresh token digest already exists")
	// ErrUnknownRefreshToken is logout's rejection of a token that maps to
	// no session. Unlike ErrSessionNotFound it is a malformed-request
	// failure, not an authentication one.
	ErrUnknownRefreshToken = errors.New("unknown refresh token")
)

// Password reset errors. Every decrypt/parse failure collapses into
// ErrResetTokenInvalid so callers cannot distinguish why a token is bad.
var (
	ErrResetTokenInvalid = errors.New("invalid or corrupted reset token")
	ErrResetTokenExpired = errors.New("reset token has expired")
)

// Email verification errors
var (
	ErrAlreadyVerified = errors.New("email is already verified")
	ErrCodeExpired     = errors.New("verification code expired or invalid")
	ErrCodeInvalid     = errors.New("invalid verification code")
)

// Registration errors
var (
	// ErrUsernameExhausted means every generated username candidate
	// collided; the caller may simply retry.
	ErrUsernameExhausted = errors.New("could not allocate a free username")
)

// Cache errors
var (
	ErrCacheMiss = errors.New("cache entry not found")
)

// Authorization errors
var (
	ErrInsufficientRole = errors.New("insufficient role permissions")
)
