package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	// Create persists a new user. When user.Role is empty the repository
	// assigns it transactionally: RoleAdmin if the users table is empty,
	// RoleUser otherwise.
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	// ExistingUsernames reports which of the given candidates are already
	// taken, in a single query.
	ExistingUsernames(ctx context.Context, candidates []string) (map[string]bool, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
	MarkEmailVerified(ctx context.Context, userID uint, at time.Time) error
	// Ban flips the ban flag and revokes every ACTIVE session of the user
	// in one transaction, stamping the revoking admin.
	Ban(ctx context.Context, userID, adminID uint, reason string, at time.Time) error
	Unban(ctx context.Context, userID uint) error
}

// SessionRepository defines refresh-token session data access operations
type SessionRepository interface {
	// Create returns ErrSessionDigestExists when the token digest collides
	// with an existing row; callers regenerate and retry.
	Create(ctx context.Context, session *Session) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
	// Rotate swaps the session's digest and expiry, conditioned on the old
	// digest still being current and the session still being ACTIVE. It
	// returns ErrSessionNotFound when the condition no longer holds, so a
	// concurrent refresh with the same old token loses cleanly.
	Rotate(ctx context.Context, sessionID, oldHash, newHash string, expiresAt time.Time) error
	// Revoke transitions one ACTIVE session to REVOKED. Revoking an
	// already-revoked session is an error, not a silent success.
	Revoke(ctx context.Context, sessionID string, at time.Time) error
	// RevokeAllForUser bulk-transitions every ACTIVE session of the user
	// in a single statement and reports how many rows changed.
	RevokeAllForUser(ctx context.Context, userID uint, revokedBy *uint, at time.Time) (int64, error)
	DeleteExpired(ctx context.Context) error
}

// AuthService defines credential and token lifecycle business logic
type AuthService interface {
	Register(ctx context.Context, email, password, username string) (*User, error)
	Login(ctx context.Context, identifier, password string) (*AuthResult, error)
	// Issue pairs a fresh access token with a new refresh-token session,
	// e.g. after an OAuth identity has been resolved.
	Issue(ctx context.Context, user *User, provider string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID uint) (int64, error)
}

// ResetService defines the password-reset protocol
type ResetService interface {
	RequestReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// VerificationService defines email verification operations
type VerificationService interface {
	SendVerification(ctx context.Context, userID uint) error
	Verify(ctx context.Context, userID uint, code string) error
}

// IdentityService reconciles third-party identity assertions with accounts
type IdentityService interface {
	Resolve(ctx context.Context, provider, email, displayName string) (*User, error)
}

// ModerationService defines account moderation operations
type ModerationService interface {
	Ban(ctx context.Context, userID, adminID uint, reason string) error
	Unban(ctx context.Context, userID, adminID uint) error
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines signed access-token operations
type TokenService interface {
	GenerateAccessToken(user *User) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	AccessTokenTTL() time.Duration
}

// OpaqueTokenService generates opaque bearer tokens and keyed digests of
// them. Only digests are ever persisted.
type OpaqueTokenService interface {
	Generate() (string, error)
	Digest(raw string) string
}

// ResetCipher seals and opens the encrypted payload half of a reset token.
type ResetCipher interface {
	Encrypt(payload *ResetPayload) (string, error)
	Decrypt(encoded string) (*ResetPayload, error)
}

// CodeCache is a TTL-backed key/value store for short-lived secrets.
// Expiry is owned entirely by the cache engine.
type CodeCache interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns ErrCacheMiss for absent or expired entries.
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// NotificationService defines the email collaborator
type NotificationService interface {
	SendEmail(to, subject, htmlBody string) error
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
