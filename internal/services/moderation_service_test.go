package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/firasbelhiba/4hacks-backend--sub000/domain"
	"github.com/firasbelhiba/4hacks-backend--sub000/internal/mocks"
)

func newModerationFixture(users map[uint]*domain.User) (domain.ModerationService, *mocks.MockUserRepository, *mocks.MockNotificationService) {
	userRepo := mocks.NewMockUserRepository()
	userRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) {
		if user, ok := users[id]; ok {
			return user, nil
		}
		return nil, domain.ErrUserNotFound
	}
	notificationSvc := mocks.NewMockNotificationService()
	svc := NewModerationService(userRepo, mocks.NewMockPolicyService(), notificationSvc, testLogger())
	return svc, userRepo, notificationSvc
}

func TestModerationServiceImpl_Ban(t *testing.T) {
	admin := &domain.User{ID: 1, Email: "admin@x.com", Username: "admin", Role: domain.RoleAdmin}
	target := &domain.User{ID: 2, Email: "bob@x.com", Username: "bob", Role: domain.RoleUser}

	t.Run("admin bans user and the target is notified", func(t *testing.T) {
		svc, userRepo, notificationSvc := newModerationFixture(map[uint]*domain.User{1: admin, 2: target})
		var banned bool
		userRepo.BanFunc = func(ctx context.Context, userID, adminID uint, reason string, at time.Time) error {
			if userID != 2 || adminID != 1 || reason != "abuse" {
				t.Errorf("unexpected ban arguments: user=%d admin=%d reason=%q", userID, adminID, reason)
			}
			banned = true
			return nil
		}

		if err := svc.Ban(context.Background(), 2, 1, "abuse"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !banned {
			t.Error("expected the repository ban to run")
		}
		if len(notificationSvc.Sent) != 1 || notificationSvc.Sent[0].To != target.Email {
			t.Error("expected a suspension notice to the banned user")
		}
	})

	t.Run("non-admin is refused", func(t *testing.T) {
		peer := &domain.User{ID: 3, Email: "eve@x.com", Username: "eve", Role: domain.RoleUser}
		svc, userRepo, _ := newModerationFixture(map[uint]*domain.User{2: target, 3: peer})
		userRepo.BanFunc = func(ctx context.Context, userID, adminID uint, reason string, at time.Time) error {
			t.Error("ban must not run without permission")
			return nil
		}
		if err := svc.Ban(context.Background(), 2, 3, "grudge"); !errors.Is(err, domain.ErrInsufficientRole) {
			t.Fatalf("expected ErrInsufficientRole, got %v", err)
		}
	})

	t.Run("unknown target", func(t *testing.T) {
		svc, _, _ := newModerationFixture(map[uint]*domain.User{1: admin})
		if err := svc.Ban(context.Background(), 99, 1, "abuse"); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("notification failure does not unwind the ban", func(t *testing.T) {
		svc, userRepo, notificationSvc := newModerationFixture(map[uint]*domain.User{1: admin, 2: target})
		banned := false
		userRepo.BanFunc = func(ctx context.Context, userID, adminID uint, reason string, at time.Time) error {
			banned = true
			return nil
		}
		notificationSvc.SendEmailFunc = func(to, subject, htmlBody string) error {
			return errors.New("smtp down")
		}
		if err := svc.Ban(context.Background(), 2, 1, "abuse"); err != nil {
			t.Fatalf("expected ban to succeed despite email failure, got %v", err)
		}
		if !banned {
			t.Error("expected the ban to have applied")
		}
	})
}

func TestModerationServiceImpl_Unban(t *testing.T) {
	admin := &domain.User{ID: 1, Email: "admin@x.com", Username: "admin", Role: domain.RoleAdmin}

	t.Run("admin lifts a ban", func(t *testing.T) {
		svc, userRepo, _ := newModerationFixture(map[uint]*domain.User{1: admin})
		unbanned := false
		userRepo.UnbanFunc = func(ctx context.Context, userID uint) error {
			unbanned = true
			return nil
		}
		if err := svc.Unban(context.Background(), 2, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !unbanned {
			t.Error("expected the repository unban to run")
		}
	})

	t.Run("non-admin is refused", func(t *testing.T) {
		peer := &domain.User{ID: 3, Email: "eve@x.com", Username: "eve", Role: domain.RoleUser}
		svc, _, _ := newModerationFixture(map[uint]*domain.User{3: peer})
		if err := svc.Unban(context.Background(), 2, 3); !errors.Is(err, domain.ErrInsufficientRole) {
			t.Fatalf("expected ErrInsufficientRole, got %v", err)
		}
	})
}
