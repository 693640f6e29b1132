package mocks

import (
	"context"
	"time"

	"github.com/firasbelhiba/4hacks-backend--sub000/domain"
)

// MockSessionRepository implements domain.SessionRepository interface for testing
type MockSessionRepository struct {
	CreateFunc           func(ctx context.Context, session *domain.Session) error
	FindByTokenHashFunc  func(ctx context.Context, tokenHash string) (*domain.Session, error)
	RotateFunc           func(ctx context.Context, sessionID, oldHash, newHash string, expiresAt time.Time) error
	RevokeFunc           func(ctx context.Context, sessionID string, at time.Time) error
	RevokeAllForUserFunc func(ctx context.Context, userID uint, revokedBy *uint, at time.Time) (int64, error)
	DeleteExpiredFunc    func(ctx context.Context) error
}

// NewMockSessionRepository creates a new MockSessionRepository with default behaviors
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{}
}

// Create persists a session
func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	return nil
}

// FindByTokenHash finds a session by refresh-token digest
func (m *MockSessionRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	if m.FindByTokenHashFunc != nil {
		return m.FindByTokenHashFunc(ctx, tokenHash)
	}
	return nil, domain.ErrSessionNotFound
}

// Rotate swaps a session's digest and expiry
func (m *MockSessionRepository) Rotate(ctx context.Context, sessionID, oldHash, newHash string, expiresAt time.Time) error {
	if m.RotateFunc != nil {
		return m.RotateFunc(ctx, sessionID, oldHash, newHash, expiresAt)
	}
	return nil
}

// Revoke transitions one session to REVOKED
func (m *MockSessionRepository) Revoke(ctx context.Context, sessionID string, at time.Time) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, sessionID, at)
	}
	return nil
}

// RevokeAllForUser bulk-revokes a user's active sessions
func (m *MockSessionRepository) RevokeAllForUser(ctx context.Context, userID uint, revokedBy *uint, at time.Time) (int64, error) {
	if m.RevokeAllForUserFunc != nil {
		return m.RevokeAllForUserFunc(ctx, userID, revokedBy, at)
	}
	return 0, nil
}

// DeleteExpired removes expired session rows
func (m *MockSessionRepository) DeleteExpired(ctx context.Context) error {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx)
	}
	return nil
}
