package mocks

import (
	"context"
	"time"

	"github.com/firasbelhiba/4hacks-backend--sub000/domain"
)

// MockUserRepository implements domain.UserRepository interface for testing
type MockUserRepository struct {
	CreateFunc            func(ctx context.Context, user *domain.User) error
	FindByIDFunc          func(ctx context.Context, id uint) (*domain.User, error)
	FindByEmailFunc       func(ctx context.Context, email string) (*domain.User, error)
	FindByUsernameFunc    func(ctx context.Context, username string) (*domain.User, error)
	ExistingUsernamesFunc func(ctx context.Context, candidates []string) (map[string]bool, error)
	UpdateFunc            func(ctx context.Context, user *domain.User) error
	UpdatePasswordFunc    func(ctx context.Context, userID uint, passwordHash string) error
	MarkEmailVerifiedFunc func(ctx context.Context, userID uint, at time.Time) error
	BanFunc               func(ctx context.Context, userID, adminID uint, reason string, at time.Time) error
	UnbanFunc             func(ctx context.Context, userID uint) error
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// Create creates a new user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	// Default behavior: success, assigning the default role
	user.ID = 1
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	return nil
}

// FindByID finds a user by ID
func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

// FindByEmail finds a user by email
func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

// FindByUsername finds a user by username
func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	return nil, domain.ErrUserNotFound
}

// ExistingUsernames reports which candidates are taken
func (m *MockUserRepository) ExistingUsernames(ctx context.Context, candidates []string) (map[string]bool, error) {
	if m.ExistingUsernamesFunc != nil {
		return m.ExistingUsernamesFunc(ctx, candidates)
	}
	// Default behavior: nothing is taken
	return map[string]bool{}, nil
}

// Update updates an existing user
func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

// UpdatePassword updates a user's password hash
func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, userID, passwordHash)
	}
	return nil
}

// MarkEmailVerified marks a user's email as verified
func (m *MockUserRepository) MarkEmailVerified(ctx context.Context, userID uint, at time.Time) error {
	if m.MarkEmailVerifiedFunc != nil {
		return m.MarkEmailVerifiedFunc(ctx, userID, at)
	}
	return nil
}

// Ban bans a user and revokes their sessions
func (m *MockUserRepository) Ban(ctx context.Context, userID, adminID uint, reason string, at time.Time) error {
	if m.BanFunc != nil {
		return m.BanFunc(ctx, userID, adminID, reason, at)
	}
	return nil
}

// Unban lifts a user's ban
func (m *MockUserRepository) Unban(ctx context.Context, userID uint) error {
	if m.UnbanFunc != nil {
		return m.UnbanFunc(ctx, userID)
	}
	return nil
}
