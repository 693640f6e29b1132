package domain

import (
	"strings"
	"time"
)

// Roles assigned at registration. The very first account created in an
// empty system gets RoleAdmin; everyone else gets RoleUser.
const (
	RoleAdmin = "role_admin"
	RoleUser  = "role_user"
)

// ProviderLocal marks accounts that can log in with email/username + password.
const ProviderLocal = "local"

// SessionStatus is the lifecycle state of a refresh-token session.
type SessionStatus string

const (
	SessionActive  SessionStatus = "ACTIVE"
	SessionRevoked SessionStatus = "REVOKED"
)

// User represents an account in the system
type User struct {
	ID              uint
	Email           string
	Username        string
	PasswordHash    string
	Role            string
	Providers       []string
	EmailVerified   bool
	EmailVerifiedAt *time.Time
	IsBanned        bool
	BannedAt        *time.Time
	BannedReason    string
	BannedBy        *uint
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasCredentials reports whether the account can authenticate with a password.
// Provider-only accounts have an empty password hash.
func (u *User) HasCredentials() bool {
	return u.PasswordHash != ""
}

// HasProvider reports whether the given provider is linked to the account.
func (u *User) HasProvider(provider string) bool {
	for _, p := range u.Providers {
		if p == provider {
			return true
		}
	}
	return false
}

// AddProvider links a provider to the account. It reports whether the
// provider set changed, so callers can skip a persistence round-trip.
func (u *User) AddProvider(provider string) bool {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" || u.HasProvider(provider) {
		return false
	}
	u.Providers = append(u.Providers, provider)
	return true
}

// Sanitized returns a copy of the user safe to hand back to callers: the
// password hash never leaves the service layer.
func (u *User) Sanitized() *User {
	clone := *u
	clone.PasswordHash = ""
	return &clone
}

// Session is one issued refresh token. The raw token is never stored;
// RefreshTokenHash holds a keyed digest of it.
type Session struct {
	ID               string
	UserID           uint
	RefreshTokenHash string
	Status           SessionStatus
	Provider         string
	ExpiresAt        time.Time
	RevokedAt        *time.Time
	RevokedBy        *uint
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AuthResult represents authentication outcome
type AuthResult struct {
	User         *User
	AccessToken  string
	RefreshToken string
	SessionID    string
	ExpiresIn    int64
}

// TokenClaims represents the verified claims of an access token
type TokenClaims struct {
	UserID    uint   `json:"sub"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// ResetPayload is the encrypted half of a password-reset token. It lets
// the confirm step recover the owning user without a lookup by token.
type ResetPayload struct {
	UserID    uint  `json:"user_id"`
	CreatedAt int64 `json:"created_at"`
}
