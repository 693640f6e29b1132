package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/firasbelhiba/4hacks-backend--sub000/domain"
)

// ModerationServiceImpl implements domain.ModerationService
type ModerationServiceImpl struct {
	userRepo        domain.UserRepository
	policySvc       domain.PolicyService
	notificationSvc domain.NotificationService
	logger          *slog.Logger
}

// NewModerationService creates a new moderation service
func NewModerationService(
	userRepo domain.UserRepository,
	policySvc domain.PolicyService,
	notificationSvc domain.NotificationService,
	logger *slog.Logger,
) domain.ModerationService {
	return &ModerationServiceImpl{
		userRepo:        userRepo,
		policySvc:       policySvc,
		notificationSvc: notificationSvc,
		logger:          logger,
	}
}

// Ban implements domain.ModerationService. The ban flag and the bulk
// session revocation land in one transaction inside the repository, so the
// user is never observed banned with live sessions.
func (s *ModerationServiceImpl) Ban(ctx context.Context, userID, adminID uint, reason string) error {
	admin, err := s.userRepo.FindByID(ctx, adminID)
	if err != nil {
		return err
	}
	allowed, err := s.policySvc.CheckPermission(admin.Role, ResourceUsers, ActionBan)
	if err != nil {
		return fmt.Errorf("failed to check ban permission: %w", err)
	}
	if !allowed {
		return domain.ErrInsufficientRole
	}

	target, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.userRepo.Ban(ctx, userID, adminID, reason, time.Now()); err != nil {
		return fmt.Errorf("failed to ban user: %w", err)
	}
	s.logger.Info("user banned", "user_id", userID, "admin_id", adminID, "reason", reason)

	// Best-effort notice: the ban already applied, a send failure must not
	// unwind it.
	body := fmt.Sprintf("<p>Your account has been suspended. Reason: %s</p>", reason)
	if err := s.notificationSvc.SendEmail(target.Email, "Account suspended", body); err != nil {
		s.logger.Error("ban notification failed", "user_id", userID, "error", err)
	}

	return nil
}

// Unban implements domain.ModerationService. Sessions revoked by the ban
// stay revoked; the user logs in again after reinstatement.
func (s *ModerationServiceImpl) Unban(ctx context.Context, userID, adminID uint) error {
	admin, err := s.userRepo.FindByID(ctx, adminID)
	if err != nil {
		return err
	}
	allowed, err := s.policySvc.CheckPermission(admin.Role, ResourceUsers, ActionUnban)
	if err != nil {
		return fmt.Errorf("failed to check unban permission: %w", err)
	}
	if !allowed {
		return domain.ErrInsufficientRole
	}

	if err := s.userRepo.Unban(ctx, userID); err != nil {
		return fmt.Errorf("failed to unban user: %w", err)
	}
	s.logger.Info("user unbanned", "user_id", userID, "admin_id", adminID)
	return nil
}
