package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firasbelhiba/4hacks-backend--sub000/domain"
)

// IdentityServiceImpl implements domain.IdentityService. It reconciles a
// third-party identity assertion with existing accounts by email,
// attaching the provider tag without ever duplicating an account.
type IdentityServiceImpl struct {
	userRepo domain.UserRepository
	logger   *slog.Logger
}

// NewIdentityService creates a new identity linker
func NewIdentityService(userRepo domain.UserRepository, logger *slog.Logger) domain.IdentityService {
	return &IdentityServiceImpl{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Resolve implements domain.IdentityService. An existing account gets the
// asserting provider appended idempotently; its username and password are
// never touched. A missing account is created through the same
// username-uniqueness logic as normal registration, with an empty password
// hash and the provider recorded.
func (s *IdentityServiceImpl) Resolve(ctx context.Context, provider, email, displayName string) (*domain.User, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" || provider == domain.ProviderLocal {
		return nil, fmt.Errorf("invalid identity provider %q", provider)
	}
	email = normalizeEmail(email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		if user.AddProvider(provider) {
			if err := s.userRepo.Update(ctx, user); err != nil {
				return nil, fmt.Errorf("failed to link provider: %w", err)
			}
			s.logger.Info("linked provider to existing account", "user_id", user.ID, "provider", provider)
		}
		return user.Sanitized(), nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	username, err := allocateUsername(ctx, s.userRepo, deriveUsernameBase(email))
	if err != nil {
		return nil, err
	}

	// Provider-only account: no password hash, at least one linked
	// provider, role assigned transactionally by the repository.
	user = &domain.User{
		Email:     email,
		Username:  username,
		Providers: []string{provider},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("created account from identity assertion",
		"user_id", user.ID, "provider", provider, "display_name", displayName)
	return user.Sanitized(), nil
}
