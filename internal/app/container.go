package app

import (
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/firasbelhiba/4hacks-backend--sub000/domain"
	"github.com/firasbelhiba/4hacks-backend--sub000/internal/config"
	"github.com/firasbelhiba/4hacks-backend--sub000/internal/infrastructure/auth"
	"github.com/firasbelhiba/4hacks-backend--sub000/internal/infrastructure/cache"
	"github.com/firasbelhiba/4hacks-backend--sub000/internal/infrastructure/database"
	"github.com/firasbelhiba/4hacks-backend--sub000/internal/infrastructure/notifications"
	"github.com/firasbelhiba/4hacks-backend--sub000/internal/infrastructure/repositories"
	"github.com/firasbelhiba/4hacks-backend--sub000/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Logger *slog.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService

	// Repositories
	UserRepo    domain.UserRepository
	SessionRepo domain.SessionRepository

	// Services
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	OpaqueSvc       domain.OpaqueTokenService
	ResetCipher     domain.ResetCipher
	CodeCache       domain.CodeCache
	NotificationSvc domain.NotificationService
	PolicySvc       domain.PolicyService
	AuthSvc         domain.AuthService
	ResetSvc        domain.ResetService
	VerificationSvc domain.VerificationService
	IdentitySvc     domain.IdentityService
	ModerationSvc   domain.ModerationService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
		Logger: slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}

	if err := container.initDatabase(); err != nil {
		return nil, err
	}
	if err := container.initRedis(); err != nil {
		return nil, err
	}

	container.initRepositories()

	if err := container.initServices(); err != nil {
		return nil, err
	}

	return container, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	c.DB = db
	return nil
}

func (c *Container) initRedis() error {
	c.RedisClient = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	return nil
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.SessionRepo = repositories.NewSessionRepository(c.DB)
}

func (c *Container) initServices() error {
	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = auth.NewJWTService(c.Config.JWTSecret, c.Config.JWTIssuer, c.Config.AccessTTL)
	c.OpaqueSvc = auth.NewOpaqueTokenGenerator(c.Config.JWTSecret)
	c.ResetCipher = auth.NewResetCipher(c.Config.ResetKey)
	c.CodeCache = cache.NewCodeCache(c.RedisClient)
	c.NotificationSvc = notifications.NewSMTPService(
		c.Config.SMTPHost,
		c.Config.SMTPPort,
		c.Config.SMTPUsername,
		c.Config.SMTPPassword,
		c.Config.SMTPFrom,
	)

	cas, err := auth.NewCasbinService(c.DB, c.Config.CasbinModelPath)
	if err != nil {
		return err
	}
	c.Casbin = cas
	c.PolicySvc = services.NewPolicyService(cas.E)

	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.SessionRepo,
		c.PasswordSvc,
		c.TokenSvc,
		c.OpaqueSvc,
		services.AuthConfig{RefreshTTL: c.Config.RefreshTTL},
		c.Logger,
	)

	c.ResetSvc = services.NewResetService(
		c.UserRepo,
		c.CodeCache,
		c.PasswordSvc,
		c.OpaqueSvc,
		c.ResetCipher,
		c.NotificationSvc,
		c.AuthSvc,
		services.ResetConfig{
			DigestTTL:     c.Config.ResetDigestTTL,
			MaxPayloadAge: c.Config.ResetMaxPayloadAge,
		},
		c.Logger,
	)

	c.VerificationSvc = services.NewVerificationService(
		c.UserRepo,
		c.CodeCache,
		c.NotificationSvc,
		services.VerificationConfig{CodeTTL: c.Config.VerificationCodeTTL},
		c.Logger,
	)

	c.IdentitySvc = services.NewIdentityService(c.UserRepo, c.Logger)

	c.ModerationSvc = services.NewModerationService(
		c.UserRepo,
		c.PolicySvc,
		c.NotificationSvc,
		c.Logger,
	)

	return nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
