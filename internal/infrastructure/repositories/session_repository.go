package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/firasbelhiba/4hacks-backend--sub000/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository using GORM.
// Sessions live in the relational store beside users so ban-triggered
// revocation can share a transaction with the ban flag.
type SessionRepositoryImpl struct {
	db *gorm.DB
}

// DBSession represents the database model for Session (with GORM tags)
type DBSession struct {
	ID               string    `gorm:"primaryKey;size:36"`
	UserID           uint      `gorm:"index;not null"`
	RefreshTokenHash string    `gorm:"uniqueIndex;size:64;not null"`
	Status           string    `gorm:"index;size:16;not null"`
	Provider         string    `gorm:"size:32"`
	ExpiresAt        time.Time `gorm:"index;not null"`
	RevokedAt        *time.Time
	RevokedBy        *uint
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName returns the table name for GORM
func (DBSession) TableName() string {
	return "sessions"
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) domain.SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

// Create implements domain.SessionRepository
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *domain.Session) error {
	dbSession := r.domainToDB(session)
	if err := r.db.WithContext(ctx).Create(dbSession).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrSessionDigestExists
		}
		return err
	}
	session.CreatedAt = dbSession.CreatedAt
	session.UpdatedAt = dbSession.UpdatedAt
	return nil
}

// FindByTokenHash implements domain.SessionRepository
func (r *SessionRepositoryImpl) FindByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	var dbSession DBSession
	err := r.db.WithContext(ctx).Where("refresh_token_hash = ?", tokenHash).First(&dbSession).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbSession), nil
}

// Rotate implements domain.SessionRepository. The update is conditioned on
// the old digest and ACTIVE status so that of two concurrent refreshes
// presenting the same token exactly one wins; the loser sees
// ErrSessionNotFound, indistinguishable from a token that never existed.
func (r *SessionRepositoryImpl) Rotate(ctx context.Context, sessionID, oldHash, newHash string, expiresAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&DBSession{}).
		Where("id = ? AND refresh_token_hash = ? AND status = ?", sessionID, oldHash, string(domain.SessionActive)).
		Updates(map[string]interface{}{
			"refresh_token_hash": newHash,
			"expires_at":         expiresAt,
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrSessionDigestExists
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// Revoke implements domain.SessionRepository
func (r *SessionRepositoryImpl) Revoke(ctx context.Context, sessionID string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&DBSession{}).
		Where("id = ? AND status = ?", sessionID, string(domain.SessionActive)).
		Updates(map[string]interface{}{
			"status":     string(domain.SessionRevoked),
			"revoked_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing session from a terminal one.
		var dbSession DBSession
		err := r.db.WithContext(ctx).Where("id = ?", sessionID).First(&dbSession).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		return domain.ErrSessionRevoked
	}
	return nil
}

// RevokeAllForUser implements domain.SessionRepository. A single bulk
// statement, never read-then-loop-write, so sessions created concurrently
// are either untouched or fully revoked.
func (r *SessionRepositoryImpl) RevokeAllForUser(ctx context.Context, userID uint, revokedBy *uint, at time.Time) (int64, error) {
	updates := map[string]interface{}{
		"status":     string(domain.SessionRevoked),
		"revoked_at": at,
	}
	if revokedBy != nil {
		updates["revoked_by"] = *revokedBy
	}
	res := r.db.WithContext(ctx).Model(&DBSession{}).
		Where("user_id = ? AND status = ?", userID, string(domain.SessionActive)).
		Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// DeleteExpired implements domain.SessionRepository
func (r *SessionRepositoryImpl) DeleteExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&DBSession{}).Error
}

// domainToDB converts domain session to database session
func (r *SessionRepositoryImpl) domainToDB(session *domain.Session) *DBSession {
	return &DBSession{
		ID:               session.ID,
		UserID:           session.UserID,
		RefreshTokenHash: session.RefreshTokenHash,
		Status:           string(session.Status),
		Provider:         session.Provider,
		ExpiresAt:        session.ExpiresAt,
		RevokedAt:        session.RevokedAt,
		RevokedBy:        session.RevokedBy,
	}
}

// dbToDomain converts database session to domain session
func (r *SessionRepositoryImpl) dbToDomain(dbSession *DBSession) *domain.Session {
	return &domain.Session{
		ID:               dbSession.ID,
		UserID:           dbSession.UserID,
		RefreshTokenHash: dbSession.RefreshTokenHash,
		Status:           domain.SessionStatus(dbSession.Status),
		Provider:         dbSession.Provider,
		ExpiresAt:        dbSession.ExpiresAt,
		RevokedAt:        dbSession.RevokedAt,
		RevokedBy:        dbSession.RevokedBy,
		CreatedAt:        dbSession.CreatedAt,
		UpdatedAt:        dbSession.UpdatedAt,
	}
}
