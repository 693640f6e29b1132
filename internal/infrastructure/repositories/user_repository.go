package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/firasbelhiba/4hacks-backend--sub000/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID              uint   `gorm:"primaryKey"`
	Email           string `gorm:"uniqueIndex;size:255"`
	Username        string `gorm:"uniqueIndex;size:64"`
	PasswordHash    string `gorm:"column:password"`
	Role            string `gorm:"index;size:64"`
	Providers       string `gorm:"size:255"`
	EmailVerified   bool   `gorm:"index"`
	EmailVerifiedAt *time.Time
	IsBanned        bool `gorm:"index"`
	BannedAt        *time.Time
	BannedReason    string `gorm:"size:255"`
	BannedBy        *uint
	CreatedAt       time.Time      `gorm:"index"`
	UpdatedAt       time.Time      `gorm:"index"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository. The bootstrap-role check and
// the insert run in one transaction so two concurrent first registrations
// cannot both become admin.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if dbUser.Role == "" {
			var count int64
			if err := tx.Model(&DBUser{}).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				dbUser.Role = domain.RoleAdmin
			} else {
				dbUser.Role = domain.RoleUser
			}
		}
		return tx.Create(dbUser).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	user.ID = dbUser.ID
	user.Role = dbUser.Role
	user.CreatedAt = dbUser.CreatedAt
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByUsername implements domain.UserRepository
func (r *UserRepositoryImpl) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// ExistingUsernames implements domain.UserRepository
func (r *UserRepositoryImpl) ExistingUsernames(ctx context.Context, candidates []string) (map[string]bool, error) {
	taken := make(map[string]bool, len(candidates))
	if len(candidates) == 0 {
		return taken, nil
	}
	var found []string
	err := r.db.WithContext(ctx).Model(&DBUser{}).
		Where("username IN ?", candidates).
		Pluck("username", &found).Error
	if err != nil {
		return nil, err
	}
	for _, name := range found {
		taken[name] = true
	}
	return taken, nil
}

// Update implements domain.UserRepository
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	return r.db.WithContext(ctx).Save(dbUser).Error
}

// UpdatePassword implements domain.UserRepository
func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&DBUser{}).
		Where("id = ?", userID).
		Update("password", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// MarkEmailVerified implements domain.UserRepository
func (r *UserRepositoryImpl) MarkEmailVerified(ctx context.Context, userID uint, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&DBUser{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"email_verified":    true,
			"email_verified_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Ban implements domain.UserRepository. The flag flip and the bulk session
// revocation share one transaction: a user is never observed banned with
// live sessions, nor revoked without the flag.
func (r *UserRepositoryImpl) Ban(ctx context.Context, userID, adminID uint, reason string, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&DBUser{}).
			Where("id = ? AND is_banned = ?", userID, false).
			Updates(map[string]interface{}{
				"is_banned":     true,
				"banned_at":     at,
				"banned_reason": reason,
				"banned_by":     adminID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return tx.Model(&DBSession{}).
			Where("user_id = ? AND status = ?", userID, string(domain.SessionActive)).
			Updates(map[string]interface{}{
				"status":     string(domain.SessionRevoked),
				"revoked_at": at,
				"revoked_by": adminID,
			}).Error
	})
}

// Unban implements domain.UserRepository. Previously revoked sessions stay
// revoked; the user has to log in again.
func (r *UserRepositoryImpl) Unban(ctx context.Context, userID uint) error {
	res := r.db.WithContext(ctx).Model(&DBUser{}).
		Where("id = ? AND is_banned = ?", userID, true).
		Updates(map[string]interface{}{
			"is_banned":     false,
			"banned_at":     nil,
			"banned_reason": "",
			"banned_by":     nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// domainToDB converts domain user to database user. CreatedAt must be
// carried over: Update saves the whole row, and a zero CreatedAt would
// overwrite the stored timestamp.
func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:              user.ID,
		Email:           user.Email,
		Username:        user.Username,
		PasswordHash:    user.PasswordHash,
		Role:            user.Role,
		Providers:       strings.Join(user.Providers, ","),
		EmailVerified:   user.EmailVerified,
		EmailVerifiedAt: user.EmailVerifiedAt,
		IsBanned:        user.IsBanned,
		BannedAt:        user.BannedAt,
		BannedReason:    user.BannedReason,
		BannedBy:        user.BannedBy,
		CreatedAt:       user.CreatedAt,
	}
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	var providers []string
	if dbUser.Providers != "" {
		providers = strings.Split(dbUser.Providers, ",")
	}
	return &domain.User{
		ID:              dbUser.ID,
		Email:           dbUser.Email,
		Username:        dbUser.Username,
		PasswordHash:    dbUser.PasswordHash,
		Role:            dbUser.Role,
		Providers:       providers,
		EmailVerified:   dbUser.EmailVerified,
		EmailVerifiedAt: dbUser.EmailVerifiedAt,
		IsBanned:        dbUser.IsBanned,
		BannedAt:        dbUser.BannedAt,
		BannedReason:    dbUser.BannedReason,
		BannedBy:        dbUser.BannedBy,
		CreatedAt:       dbUser.CreatedAt,
		UpdatedAt:       dbUser.UpdatedAt,
	}
}
