package mocks

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/firasbelhiba/4hacks-backend--sub000/domain"
)

// MockPasswordService implements domain.PasswordService interface for testing
type MockPasswordService struct {
	HashFunc   func(password string) (string, error)
	VerifyFunc func(hashedPassword, password string) bool
}

// NewMockPasswordService creates a new MockPasswordService with default behaviors
func NewMockPasswordService() *MockPasswordService {
	return &MockPasswordService{}
}

// Hash hashes a password
func (m *MockPasswordService) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed_" + password, nil
}

// Verify verifies a password against a hash
func (m *MockPasswordService) Verify(hashedPassword, password string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashedPassword, password)
	}
	return hashedPassword == "hashed_"+password
}

// MockTokenService implements domain.TokenService interface for testing
type MockTokenService struct {
	GenerateAccessTokenFunc func(user *domain.User) (string, error)
	ValidateAccessTokenFunc func(token string) (*domain.TokenClaims, error)
	AccessTokenTTLFunc      func() time.Duration
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// GenerateAccessToken builds a signed access token
func (m *MockTokenService) GenerateAccessToken(user *domain.User) (string, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(user)
	}
	return fmt.Sprintf("access_token_%d", user.ID), nil
}

// ValidateAccessToken verifies a signed access token
func (m *MockTokenService) ValidateAccessToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateAccessTokenFunc != nil {
		return m.ValidateAccessTokenFunc(token)
	}
	return nil, domain.ErrInvalidCredentials
}

// AccessTokenTTL returns the configured access-token lifetime
func (m *MockTokenService) AccessTokenTTL() time.Duration {
	if m.AccessTokenTTLFunc != nil {
		return m.AccessTokenTTLFunc()
	}
	return 15 * time.Minute
}

// MockOpaqueTokenService implements domain.OpaqueTokenService for testing.
// The default Generate is deterministic per call count; Digest is a real
// (unkeyed) SHA-256 so digests stay consistent with generated values.
type MockOpaqueTokenService struct {
	GenerateFunc func() (string, error)
	DigestFunc   func(raw string) string

	generated int
}

// NewMockOpaqueTokenService creates a new MockOpaqueTokenService
func NewMockOpaqueTokenService() *MockOpaqueTokenService {
	return &MockOpaqueTokenService{}
}

// Generate returns an opaque bearer token
func (m *MockOpaqueTokenService) Generate() (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.generated++
	return fmt.Sprintf("%0128d", m.generated), nil
}

// Digest returns the keyed digest of a raw token
func (m *MockOpaqueTokenService) Digest(raw string) string {
	if m.DigestFunc != nil {
		return m.DigestFunc(raw)
	}
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// MockCodeCache implements domain.CodeCache with an in-memory map. TTLs
// are recorded but only enforced when Expire is called explicitly.
type MockCodeCache struct {
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	GetFunc    func(ctx context.Context, key string) (string, error)
	DeleteFunc func(ctx context.Context, key string) error

	Entries map[string]string
	TTLs    map[string]time.Duration
}

// NewMockCodeCache creates a new MockCodeCache
func NewMockCodeCache() *MockCodeCache {
	return &MockCodeCache{
		Entries: make(map[string]string),
		TTLs:    make(map[string]time.Duration),
	}
}

// Set stores a value
func (m *MockCodeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.Entries[key] = value
	m.TTLs[key] = ttl
	return nil
}

// Get reads a value
func (m *MockCodeCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	value, ok := m.Entries[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return value, nil
}

// Delete removes a value
func (m *MockCodeCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	delete(m.Entries, key)
	delete(m.TTLs, key)
	return nil
}

// Expire simulates TTL expiry of one entry
func (m *MockCodeCache) Expire(key string) {
	delete(m.Entries, key)
	delete(m.TTLs, key)
}

// MockNotificationService implements domain.NotificationService for testing
type MockNotificationService struct {
	SendEmailFunc func(to, subject, htmlBody string) error

	Sent []SentEmail
}

// SentEmail records one delivered email
type SentEmail struct {
	To      string
	Subject string
	Body    string
}

// NewMockNotificationService creates a new MockNotificationService
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

// SendEmail sends an email
func (m *MockNotificationService) SendEmail(to, subject, htmlBody string) error {
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(to, subject, htmlBody)
	}
	m.Sent = append(m.Sent, SentEmail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

// MockPolicyService implements domain.PolicyService for testing
type MockPolicyService struct {
	AddPolicyFunc       func(role, resource, action string) error
	RemovePolicyFunc    func(role, resource, action string) error
	CheckPermissionFunc func(role, resource, action string) (bool, error)
	GetPoliciesFunc     func() [][]string
}

// NewMockPolicyService creates a new MockPolicyService
func NewMockPolicyService() *MockPolicyService {
	return &MockPolicyService{}
}

// AddPolicy adds a policy rule
func (m *MockPolicyService) AddPolicy(role, resource, action string) error {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(role, resource, action)
	}
	return nil
}

// RemovePolicy removes a policy rule
func (m *MockPolicyService) RemovePolicy(role, resource, action string) error {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(role, resource, action)
	}
	return nil
}

// CheckPermission checks whether a role may perform an action
func (m *MockPolicyService) CheckPermission(role, resource, action string) (bool, error) {
	if m.CheckPermissionFunc != nil {
		return m.CheckPermissionFunc(role, resource, action)
	}
	// Default behavior: admins may do anything
	return role == domain.RoleAdmin, nil
}

// GetPolicies lists all policy rules
func (m *MockPolicyService) GetPolicies() [][]string {
	if m.GetPoliciesFunc != nil {
		return m.GetPoliciesFunc()
	}
	return nil
}

// MockAuthService implements domain.AuthService for testing
type MockAuthService struct {
	RegisterFunc  func(ctx context.Context, email, password, username string) (*domain.User, error)
	LoginFunc     func(ctx context.Context, identifier, password string) (*domain.AuthResult, error)
	IssueFunc     func(ctx context.Context, user *domain.User, provider string) (*domain.AuthResult, error)
	RefreshFunc   func(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	LogoutFunc    func(ctx context.Context, refreshToken string) error
	LogoutAllFunc func(ctx context.Context, userID uint) (int64, error)

	LogoutAllCalls []uint
}

// NewMockAuthService creates a new MockAuthService
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Register registers a new account
func (m *MockAuthService) Register(ctx context.Context, email, password, username string) (*domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, email, password, username)
	}
	return nil, domain.ErrEmailTaken
}

// Login authenticates an identifier/password pair
func (m *MockAuthService) Login(ctx context.Context, identifier, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, identifier, password)
	}
	return nil, domain.ErrInvalidCredentials
}

// Issue mints a token pair for a resolved user
func (m *MockAuthService) Issue(ctx context.Context, user *domain.User, provider string) (*domain.AuthResult, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, user, provider)
	}
	return nil, domain.ErrUserNotFound
}

// Refresh rotates a refresh token
func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return nil, domain.ErrSessionNotFound
}

// Logout revokes one session
func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, refreshToken)
	}
	return nil
}

// LogoutAll revokes every active session of a user
func (m *MockAuthService) LogoutAll(ctx context.Context, userID uint) (int64, error) {
	m.LogoutAllCalls = append(m.LogoutAllCalls, userID)
	if m.LogoutAllFunc != nil {
		return m.LogoutAllFunc(ctx, userID)
	}
	return 0, nil
}
