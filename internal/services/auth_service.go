package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/firasbelhiba/4hacks-backend--sub000/domain"
)

// maxDigestRetries bounds regeneration when a fresh refresh token's digest
// collides with a stored one. The probability is negligible but non-zero,
// so it is handled, not ignored.
const maxDigestRetries = 3

// AuthConfig carries the token lifecycle tunables.
type AuthConfig struct {
	RefreshTTL time.Duration
}

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	opaqueSvc   domain.OpaqueTokenService
	config      AuthConfig
	logger      *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	opaqueSvc domain.OpaqueTokenService,
	config AuthConfig,
	logger *slog.Logger,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		opaqueSvc:   opaqueSvc,
		config:      config,
		logger:      logger,
	}
}

// Register implements domain.AuthService
func (s *AuthServiceImpl) Register(ctx context.Context, email, password, username string) (*domain.User, error) {
	email = normalizeEmail(email)

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, domain.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	if username == "" {
		username, err = allocateUsername(ctx, s.userRepo, deriveUsernameBase(email))
		if err != nil {
			return nil, err
		}
	} else {
		username = strings.ToLower(strings.TrimSpace(username))
		taken, err := s.userRepo.ExistingUsernames(ctx, []string{username})
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if taken[username] {
			return nil, domain.ErrUsernameTaken
		}
	}

	hashedPassword, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Role is left empty: the repository assigns it transactionally so the
	// first account in an empty system becomes admin without a global flag.
	user := &domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashedPassword,
		Providers:    []string{domain.ProviderLocal},
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			// The insert lost a race on one of the two unique indexes; the
			// driver does not say which, so re-check the email to report
			// the right field.
			if _, lookupErr := s.userRepo.FindByEmail(ctx, email); lookupErr == nil {
				return nil, domain.ErrEmailTaken
			}
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user.Sanitized(), nil
}

// Login implements domain.AuthService. The identifier is classified once:
// containing '@' means email lookup, anything else username lookup. A
// missing user and a wrong password produce the same error so callers
// cannot enumerate accounts.
func (s *AuthServiceImpl) Login(ctx context.Context, identifier, password string) (*domain.AuthResult, error) {
	var (
		user *domain.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.FindByEmail(ctx, normalizeEmail(identifier))
	} else {
		user, err = s.userRepo.FindByUsername(ctx, strings.ToLower(strings.TrimSpace(identifier)))
	}
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.HasCredentials() || !s.passwordSvc.Verify(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	if user.IsBanned {
		return nil, domain.ErrUserBanned
	}

	return s.Issue(ctx, user, domain.ProviderLocal)
}

// Issue mints an access token and a brand-new refresh-token session for
// the user. The raw refresh token is returned exactly once; only its keyed
// digest is persisted.
func (s *AuthServiceImpl) Issue(ctx context.Context, user *domain.User, provider string) (*domain.AuthResult, error) {
	accessToken, err := s.tokenSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	for attempt := 0; attempt < maxDigestRetries; attempt++ {
		refreshToken, err := s.opaqueSvc.Generate()
		if err != nil {
			return nil, fmt.Errorf("failed to generate refresh token: %w", err)
		}

		session := &domain.Session{
			ID:               uuid.NewString(),
			UserID:           user.ID,
			RefreshTokenHash: s.opaqueSvc.Digest(refreshToken),
			Status:           domain.SessionActive,
			Provider:         provider,
			ExpiresAt:        time.Now().Add(s.config.RefreshTTL),
		}

		err = s.sessionRepo.Create(ctx, session)
		if errors.Is(err, domain.ErrSessionDigestExists) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}

		return &domain.AuthResult{
			User:         user.Sanitized(),
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			SessionID:    session.ID,
			ExpiresIn:    int64(s.tokenSvc.AccessTokenTTL().Seconds()),
		}, nil
	}

	return nil, fmt.Errorf("refresh token digest collided %d times", maxDigestRetries)
}

// Refresh implements domain.AuthService. Rotation is full: both tokens are
// replaced and the session row's digest is overwritten conditionally, so
// each refresh token is strictly single-use.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	oldHash := s.opaqueSvc.Digest(refreshToken)

	session, err := s.sessionRepo.FindByTokenHash(ctx, oldHash)
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}
	if session.Status != domain.SessionActive {
		return nil, domain.ErrSessionRevoked
	}
	if session.ExpiresAt.Before(time.Now()) {
		return nil, domain.ErrSessionExpired
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}
	if user.IsBanned {
		return nil, domain.ErrUserBanned
	}

	accessToken, err := s.tokenSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	for attempt := 0; attempt < maxDigestRetries; attempt++ {
		newToken, err := s.opaqueSvc.Generate()
		if err != nil {
			return nil, fmt.Errorf("failed to generate refresh token: %w", err)
		}

		err = s.sessionRepo.Rotate(ctx, session.ID, oldHash, s.opaqueSvc.Digest(newToken), time.Now().Add(s.config.RefreshTTL))
		if errors.Is(err, domain.ErrSessionDigestExists) {
			continue
		}
		if err != nil {
			// A concurrent refresh already rotated this token; the loser
			// observes the same failure as a token that never existed.
			return nil, err
		}

		return &domain.AuthResult{
			User:         user.Sanitized(),
			AccessToken:  accessToken,
			RefreshToken: newToken,
			SessionID:    session.ID,
			ExpiresIn:    int64(s.tokenSvc.AccessTokenTTL().Seconds()),
		}, nil
	}

	return nil, fmt.Errorf("refresh token digest collided %d times", maxDigestRetries)
}

// Logout implements domain.AuthService. A token that maps to no session
// is reported as a malformed request rather than an authentication
// failure, and revoking an already-revoked session fails cleanly rather
// than silently succeeding.
func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.sessionRepo.FindByTokenHash(ctx, s.opaqueSvc.Digest(refreshToken))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ErrUnknownRefreshToken
		}
		return err
	}
	return s.sessionRepo.Revoke(ctx, session.ID, time.Now())
}

// LogoutAll implements domain.AuthService
func (s *AuthServiceImpl) LogoutAll(ctx context.Context, userID uint) (int64, error) {
	revoked, err := s.sessionRepo.RevokeAllForUser(ctx, userID, nil, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to revoke sessions: %w", err)
	}
	if revoked == 0 {
		s.logger.Info("logout-all found no active sessions", "user_id", userID)
	} else {
		s.logger.Info("revoked all sessions", "user_id", userID, "count", revoked)
	}
	return revoked, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
