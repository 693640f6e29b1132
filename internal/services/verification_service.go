package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/firasbelhiba/4hacks-backend--sub000/domain"
	"github.com/firasbelhiba/4hacks-backend--sub000/internal/infrastructure/cache"
)

// VerificationConfig carries the email verification tunables.
type VerificationConfig struct {
	CodeTTL time.Duration
}

// VerificationServiceImpl implements domain.VerificationService
type VerificationServiceImpl struct {
	userRepo        domain.UserRepository
	codeCache       domain.CodeCache
	notificationSvc domain.NotificationService
	config          VerificationConfig
	logger          *slog.Logger
}

// NewVerificationService creates a new email verification service
func NewVerificationService(
	userRepo domain.UserRepository,
	codeCache domain.CodeCache,
	notificationSvc domain.NotificationService,
	config VerificationConfig,
	logger *slog.Logger,
) domain.VerificationService {
	return &VerificationServiceImpl{
		userRepo:        userRepo,
		codeCache:       codeCache,
		notificationSvc: notificationSvc,
		config:          config,
		logger:          logger,
	}
}

// SendVerification implements domain.VerificationService
func (s *VerificationServiceImpl) SendVerification(ctx context.Context, userID uint) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return domain.ErrAlreadyVerified
	}

	code, err := generateVerificationCode()
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}

	key := cache.VerificationKey(userID)
	if err := s.codeCache.Set(ctx, key, code, s.config.CodeTTL); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}

	body := fmt.Sprintf(
		"<p>Your verification code is <strong>%s</strong>. It expires in %d minutes.</p>",
		code, int(s.config.CodeTTL.Minutes()),
	)
	if err := s.notificationSvc.SendEmail(user.Email, "Verify your email", body); err != nil {
		// The code is useless if it never arrived; clean up and surface.
		if delErr := s.codeCache.Delete(ctx, key); delErr != nil {
			s.logger.Error("failed to clean up verification code", "user_id", userID, "error", delErr)
		}
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	return nil
}

// Verify implements domain.VerificationService
func (s *VerificationServiceImpl) Verify(ctx context.Context, userID uint, code string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return domain.ErrAlreadyVerified
	}

	key := cache.VerificationKey(userID)
	stored, err := s.codeCache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return domain.ErrCodeExpired
		}
		return fmt.Errorf("failed to read verification code: %w", err)
	}
	if stored != code {
		return domain.ErrCodeInvalid
	}

	if err := s.userRepo.MarkEmailVerified(ctx, userID, time.Now()); err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}
	if err := s.codeCache.Delete(ctx, key); err != nil {
		s.logger.Error("failed to delete verification code", "user_id", userID, "error", err)
	}

	s.logger.Info("email verified", "user_id", userID)
	return nil
}

// generateVerificationCode returns a random 6-digit code in
// [100000, 999999].
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}
