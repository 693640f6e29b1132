package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/firasbelhiba/4hacks-backend--sub000/domain"
	"github.com/firasbelhiba/4hacks-backend--sub000/internal/infrastructure/cache"
)

// resetRandomPartLen is the hex length of the reset token's random half
// (64 random bytes).
const resetRandomPartLen = 128

// ResetConfig carries the reset protocol tunables. MaxPayloadAge is an
// independent second check on top of the cache TTL, defending against a
// cache/store desync.
type ResetConfig struct {
	DigestTTL     time.Duration
	MaxPayloadAge time.Duration
}

// ResetServiceImpl implements domain.ResetService.
//
// The emailed token is "randomPart.encryptedPayload". The payload lets
// ResetPassword recover the user id without a lookup by token; the cached
// digest of randomPart proves the presented token is the one that was
// issued, without the plaintext ever being stored.
type ResetServiceImpl struct {
	userRepo        domain.UserRepository
	codeCache       domain.CodeCache
	passwordSvc     domain.PasswordService
	opaqueSvc       domain.OpaqueTokenService
	cipher          domain.ResetCipher
	notificationSvc domain.NotificationService
	authSvc         domain.AuthService
	config          ResetConfig
	logger          *slog.Logger
}

// NewResetService creates a new password-reset service
func NewResetService(
	userRepo domain.UserRepository,
	codeCache domain.CodeCache,
	passwordSvc domain.PasswordService,
	opaqueSvc domain.OpaqueTokenService,
	cipher domain.ResetCipher,
	notificationSvc domain.NotificationService,
	authSvc domain.AuthService,
	config ResetConfig,
	logger *slog.Logger,
) domain.ResetService {
	return &ResetServiceImpl{
		userRepo:        userRepo,
		codeCache:       codeCache,
		passwordSvc:     passwordSvc,
		opaqueSvc:       opaqueSvc,
		cipher:          cipher,
		notificationSvc: notificationSvc,
		authSvc:         authSvc,
		config:          config,
		logger:          logger,
	}
}

// RequestReset implements domain.ResetService. It returns nil for missing
// users and provider-only accounts exactly as for eligible ones: the
// response must not reveal whether an account exists or how it logs in.
func (s *ResetServiceImpl) RequestReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Error("reset request lookup failed", "error", err)
		}
		return nil
	}
	if !user.HasCredentials() {
		s.logger.Info("reset requested for provider-only account", "user_id", user.ID)
		return nil
	}

	randomPart, err := s.opaqueSvc.Generate()
	if err != nil {
		s.logger.Error("reset token generation failed", "user_id", user.ID, "error", err)
		return nil
	}

	encryptedPayload, err := s.cipher.Encrypt(&domain.ResetPayload{
		UserID:    user.ID,
		CreatedAt: time.Now().Unix(),
	})
	if err != nil {
		s.logger.Error("reset payload encryption failed", "user_id", user.ID, "error", err)
		return nil
	}

	if err := s.codeCache.Set(ctx, cache.ResetKey(user.ID), s.opaqueSvc.Digest(randomPart), s.config.DigestTTL); err != nil {
		s.logger.Error("reset digest store failed", "user_id", user.ID, "error", err)
		return nil
	}

	token := randomPart + "." + encryptedPayload
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>Use the token below to reset your password. It expires in %d minutes.</p><p><code>%s</code></p>",
		user.Username, int(s.config.DigestTTL.Minutes()), token,
	)
	if err := s.notificationSvc.SendEmail(user.Email, "Reset your password", body); err != nil {
		// Swallowed: a send failure must not become an enumeration oracle.
		s.logger.Error("reset email failed", "user_id", user.ID, "error", err)
	}

	return nil
}

// ResetPassword implements domain.ResetService. A valid token succeeds
// exactly once; success kills every existing session of the user.
func (s *ResetServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	parts := strings.Split(token, ".")
	if len(parts) != 2 || len(parts[0]) != resetRandomPartLen {
		return domain.ErrResetTokenInvalid
	}
	randomPart, encryptedPayload := parts[0], parts[1]

	payload, err := s.cipher.Decrypt(encryptedPayload)
	if err != nil {
		return domain.ErrResetTokenInvalid
	}

	issuedAt := time.Unix(payload.CreatedAt, 0)
	if time.Since(issuedAt) > s.config.MaxPayloadAge {
		return domain.ErrResetTokenExpired
	}

	user, err := s.userRepo.FindByID(ctx, payload.UserID)
	if err != nil {
		return domain.ErrResetTokenInvalid
	}
	if !user.HasCredentials() {
		return domain.ErrResetTokenInvalid
	}

	cachedDigest, err := s.codeCache.Get(ctx, cache.ResetKey(user.ID))
	if err != nil {
		return domain.ErrResetTokenInvalid
	}

	presentedDigest := s.opaqueSvc.Digest(randomPart)
	if subtle.ConstantTimeCompare([]byte(presentedDigest), []byte(cachedDigest)) != 1 {
		return domain.ErrResetTokenInvalid
	}

	hashedPassword, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// Single-use: the digest dies with the first successful consumption.
	// A failed delete leaves the token replayable until its TTL, so it
	// surfaces; the caller can retry the whole confirm, which re-runs
	// against the already-updated password.
	if err := s.codeCache.Delete(ctx, cache.ResetKey(user.ID)); err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	if _, err := s.authSvc.LogoutAll(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to revoke sessions after reset: %w", err)
	}

	s.logger.Info("password reset completed", "user_id", user.ID)
	return nil
}
