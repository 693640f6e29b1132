package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/firasbelhiba/4hacks-backend--sub000/domain"
)

// setupTestDB opens an isolated in-memory database with both tables
// migrated. TranslateError is on, matching production, so unique-index
// violations surface as gorm.ErrDuplicatedKey.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&DBUser{}, &DBSession{}))
	return db
}

func seedUser(t *testing.T, repo domain.UserRepository, email, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: "hash",
		Providers:    []string{domain.ProviderLocal},
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUserRepository_Create_BootstrapRole(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))

	first := seedUser(t, repo, "founder@x.com", "founder")
	assert.Equal(t, domain.RoleAdmin, first.Role, "first account in an empty system becomes admin")

	second := seedUser(t, repo, "bob@x.com", "bob")
	assert.Equal(t, domain.RoleUser, second.Role, "every later account defaults to user")

	// An explicit role is honored and skips the bootstrap check.
	explicit := &domain.User{Email: "mod@x.com", Username: "mod", Role: domain.RoleUser}
	require.NoError(t, repo.Create(context.Background(), explicit))
	assert.Equal(t, domain.RoleUser, explicit.Role)
	assert.NotZero(t, explicit.ID)
}

func TestUserRepository_Create_DuplicateConstraints(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	seedUser(t, repo, "bob@x.com", "bob")

	dupEmail := &domain.User{Email: "bob@x.com", Username: "other", Role: domain.RoleUser}
	assert.ErrorIs(t, repo.Create(context.Background(), dupEmail), domain.ErrUserAlreadyExists)

	dupUsername := &domain.User{Email: "other@x.com", Username: "bob", Role: domain.RoleUser}
	assert.ErrorIs(t, repo.Create(context.Background(), dupUsername), domain.ErrUserAlreadyExists)
}

func TestUserRepository_Find(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	created := seedUser(t, repo, "bob@x.com", "bob")

	byID, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob@x.com", byID.Email)
	assert.Equal(t, []string{domain.ProviderLocal}, byID.Providers)

	byEmail, err := repo.FindByEmail(context.Background(), "bob@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byUsername, err := repo.FindByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byUsername.ID)

	_, err = repo.FindByID(context.Background(), 9999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = repo.FindByEmail(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = repo.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_ExistingUsernames(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	seedUser(t, repo, "bob@x.com", "bob")
	seedUser(t, repo, "bob1@x.com", "bob42")

	taken, err := repo.ExistingUsernames(context.Background(), []string{"bob", "bob42", "bob7", "alice"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"bob": true, "bob42": true}, taken)

	empty, err := repo.ExistingUsernames(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUserRepository_Update_PersistsProviderLinks(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	user := seedUser(t, repo, "bob@x.com", "bob")

	user.AddProvider("google")
	require.NoError(t, repo.Update(context.Background(), user))

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.ProviderLocal, "google"}, stored.Providers)
	assert.Equal(t, "bob", stored.Username)

	// A full-row save must not zero the creation timestamp.
	assert.False(t, stored.CreatedAt.IsZero())
	assert.WithinDuration(t, user.CreatedAt, stored.CreatedAt, time.Second)
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	user := seedUser(t, repo, "bob@x.com", "bob")

	require.NoError(t, repo.UpdatePassword(context.Background(), user.ID, "newhash"))
	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "newhash", stored.PasswordHash)

	assert.ErrorIs(t, repo.UpdatePassword(context.Background(), 9999, "x"), domain.ErrUserNotFound)
}

func TestUserRepository_MarkEmailVerified(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	user := seedUser(t, repo, "bob@x.com", "bob")

	now := time.Now()
	require.NoError(t, repo.MarkEmailVerified(context.Background(), user.ID, now))

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, stored.EmailVerified)
	require.NotNil(t, stored.EmailVerifiedAt)

	assert.ErrorIs(t, repo.MarkEmailVerified(context.Background(), 9999, now), domain.ErrUserNotFound)
}

// The ban flag and the session revocations must land together: after Ban
// returns, no ACTIVE session of the user exists, each revoked row carries
// the acting admin, and other users' sessions are untouched.
func TestUserRepository_Ban_RevokesSessionsAtomically(t *testing.T) {
	db := setupTestDB(t)
	userRepo := NewUserRepository(db)
	sessionRepo := NewSessionRepository(db)

	admin := seedUser(t, userRepo, "admin@x.com", "admin")
	target := seedUser(t, userRepo, "bob@x.com", "bob")
	bystander := seedUser(t, userRepo, "carol@x.com", "carol")

	for i := 0; i < 3; i++ {
		require.NoError(t, sessionRepo.Create(context.Background(), &domain.Session{
			ID:               fmt.Sprintf("target-sess-%d", i),
			UserID:           target.ID,
			RefreshTokenHash: fmt.Sprintf("target-hash-%d", i),
			Status:           domain.SessionActive,
			Provider:         domain.ProviderLocal,
			ExpiresAt:        time.Now().Add(time.Hour),
		}))
	}
	require.NoError(t, sessionRepo.Create(context.Background(), &domain.Session{
		ID:               "bystander-sess",
		UserID:           bystander.ID,
		RefreshTokenHash: "bystander-hash",
		Status:           domain.SessionActive,
		ExpiresAt:        time.Now().Add(time.Hour),
	}))

	require.NoError(t, userRepo.Ban(context.Background(), target.ID, admin.ID, "abuse", time.Now()))

	banned, err := userRepo.FindByID(context.Background(), target.ID)
	require.NoError(t, err)
	assert.True(t, banned.IsBanned)
	assert.Equal(t, "abuse", banned.BannedReason)
	require.NotNil(t, banned.BannedBy)
	assert.Equal(t, admin.ID, *banned.BannedBy)
	assert.NotNil(t, banned.BannedAt)

	var activeCount int64
	require.NoError(t, db.Model(&DBSession{}).
		Where("user_id = ? AND status = ?", target.ID, string(domain.SessionActive)).
		Count(&activeCount).Error)
	assert.Zero(t, activeCount, "no active session may survive a ban")

	var revoked []DBSession
	require.NoError(t, db.Where("user_id = ?", target.ID).Find(&revoked).Error)
	require.Len(t, revoked, 3)
	for _, s := range revoked {
		assert.Equal(t, string(domain.SessionRevoked), s.Status)
		require.NotNil(t, s.RevokedBy)
		assert.Equal(t, admin.ID, *s.RevokedBy)
		assert.NotNil(t, s.RevokedAt)
	}

	other, err := sessionRepo.FindByTokenHash(context.Background(), "bystander-hash")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionActive, other.Status, "other users' sessions are untouched")

	// Banning an already-banned user matches banning a missing one.
	assert.ErrorIs(t, userRepo.Ban(context.Background(), target.ID, admin.ID, "again", time.Now()), domain.ErrUserNotFound)
	assert.ErrorIs(t, userRepo.Ban(context.Background(), 9999, admin.ID, "ghost", time.Now()), domain.ErrUserNotFound)
}

func TestUserRepository_Unban(t *testing.T) {
	db := setupTestDB(t)
	userRepo := NewUserRepository(db)
	sessionRepo := NewSessionRepository(db)

	admin := seedUser(t, userRepo, "admin@x.com", "admin")
	target := seedUser(t, userRepo, "bob@x.com", "bob")
	require.NoError(t, sessionRepo.Create(context.Background(), &domain.Session{
		ID:               "sess-1",
		UserID:           target.ID,
		RefreshTokenHash: "hash-1",
		Status:           domain.SessionActive,
		ExpiresAt:        time.Now().Add(time.Hour),
	}))
	require.NoError(t, userRepo.Ban(context.Background(), target.ID, admin.ID, "abuse", time.Now()))

	require.NoError(t, userRepo.Unban(context.Background(), target.ID))

	restored, err := userRepo.FindByID(context.Background(), target.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsBanned)
	assert.Nil(t, restored.BannedAt)
	assert.Nil(t, restored.BannedBy)
	assert.Empty(t, restored.BannedReason)

	// Sessions revoked by the ban do not come back.
	session, err := sessionRepo.FindByTokenHash(context.Background(), "hash-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionRevoked, session.Status)

	assert.ErrorIs(t, userRepo.Unban(context.Background(), target.ID), domain.ErrUserNotFound)
	assert.ErrorIs(t, userRepo.Unban(context.Background(), 9999), domain.ErrUserNotFound)
}
