package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret    string `yaml:"secret"`
	Issuer    string `yaml:"issuer"`
	AccessTTL string `yaml:"access_ttl"`
}

type SessionConfig struct {
	RefreshTTL string `yaml:"refresh_ttl"`
}

type ResetConfig struct {
	Key           string `yaml:"key"`
	DigestTTL     string `yaml:"digest_ttl"`
	MaxPayloadAge string `yaml:"max_payload_age"`
}

type VerificationConfig struct {
	CodeTTL string `yaml:"code_ttl"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App          AppConfig          `yaml:"app"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	JWT          JWTConfig          `yaml:"jwt"`
	Session      SessionConfig      `yaml:"session"`
	Reset        ResetConfig        `yaml:"reset"`
	Verification VerificationConfig `yaml:"verification"`
	SMTP         SMTPConfig         `yaml:"smtp"`
	Casbin       CasbinConfig       `yaml:"casbin"`
}

type Config struct {
	Port                string
	DSN                 string
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	JWTSecret           string
	JWTIssuer           string
	AccessTTL           time.Duration
	RefreshTTL          time.Duration
	ResetKey            string
	ResetDigestTTL      time.Duration
	ResetMaxPayloadAge  time.Duration
	VerificationCodeTTL time.Duration
	SMTPHost            string
	SMTPPort            string
	SMTPUsername        string
	SMTPPassword        string
	SMTPFrom            string
	CasbinModelPath     string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads config/config.yml when present and falls back to environment
// variables otherwise.
func Load() (*Config, error) {
	if _, err := os.Stat("config/config.yml"); err == nil {
		return loadFromFile("config/config.yml")
	}
	return loadFromEnv()
}

func loadFromFile(path string) (*Config, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var file ConfigFile
	if err := yaml.Unmarshal(bytes, &file); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return build(
		strconv.Itoa(file.App.Port),
		file.Database.DSN,
		file.Redis.Addr, file.Redis.Password, file.Redis.DB,
		file.JWT.Secret, file.JWT.Issuer, file.JWT.AccessTTL,
		file.Session.RefreshTTL,
		file.Reset.Key, file.Reset.DigestTTL, file.Reset.MaxPayloadAge,
		file.Verification.CodeTTL,
		file.SMTP.Host, file.SMTP.Port, file.SMTP.Username, file.SMTP.Password, file.SMTP.From,
		file.Casbin.ModelPath,
	)
}

func loadFromEnv() (*Config, error) {
	redisDB, err := strconv.Atoi(env("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	return build(
		env("PORT", "8080"),
		env("DATABASE_DSN", ""),
		env("REDIS_ADDR", "localhost:6379"), env("REDIS_PASSWORD", ""), redisDB,
		env("JWT_SECRET", ""), env("JWT_ISSUER", "accountsvc"), env("ACCESS_TOKEN_TTL", "15m"),
		env("REFRESH_TOKEN_TTL", "168h"),
		env("RESET_TOKEN_KEY", ""), env("RESET_DIGEST_TTL", "15m"), env("RESET_MAX_PAYLOAD_AGE", "30m"),
		env("VERIFICATION_CODE_TTL", "5m"),
		env("SMTP_HOST", ""), env("SMTP_PORT", "587"), env("SMTP_USERNAME", ""), env("SMTP_PASSWORD", ""), env("SMTP_FROM", ""),
		env("CASBIN_MODEL_PATH", "config/casbin_model.conf"),
	)
}

func build(
	port, dsn,
	redisAddr, redisPassword string, redisDB int,
	jwtSecret, jwtIssuer, accessTTL,
	refreshTTL,
	resetKey, resetDigestTTL, resetMaxPayloadAge,
	verificationCodeTTL,
	smtpHost, smtpPort, smtpUsername, smtpPassword, smtpFrom,
	casbinModelPath string,
) (*Config, error) {
	if jwtSecret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	accTTL, err := parseTTL("access token TTL", accessTTL, 15*time.Minute)
	if err != nil {
		return nil, err
	}
	refTTL, err := parseTTL("refresh token TTL", refreshTTL, 168*time.Hour)
	if err != nil {
		return nil, err
	}
	digestTTL, err := parseTTL("reset digest TTL", resetDigestTTL, 15*time.Minute)
	if err != nil {
		return nil, err
	}
	payloadAge, err := parseTTL("reset payload max age", resetMaxPayloadAge, 30*time.Minute)
	if err != nil {
		return nil, err
	}
	codeTTL, err := parseTTL("verification code TTL", verificationCodeTTL, 5*time.Minute)
	if err != nil {
		return nil, err
	}

	// Deriving the reset key from the JWT secret is an acceptable default,
	// not a recommended production posture.
	if resetKey == "" {
		resetKey = deriveResetKey(jwtSecret)
	}

	return &Config{
		Port:                port,
		DSN:                 dsn,
		RedisAddr:           redisAddr,
		RedisPassword:       redisPassword,
		RedisDB:             redisDB,
		JWTSecret:           jwtSecret,
		JWTIssuer:           jwtIssuer,
		AccessTTL:           accTTL,
		RefreshTTL:          refTTL,
		ResetKey:            resetKey,
		ResetDigestTTL:      digestTTL,
		ResetMaxPayloadAge:  payloadAge,
		VerificationCodeTTL: codeTTL,
		SMTPHost:            smtpHost,
		SMTPPort:            smtpPort,
		SMTPUsername:        smtpUsername,
		SMTPPassword:        smtpPassword,
		SMTPFrom:            smtpFrom,
		CasbinModelPath:     casbinModelPath,
	}, nil
}

func parseTTL(name, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return d, nil
}

func deriveResetKey(jwtSecret string) string {
	sum := sha256.Sum256([]byte("reset-token:" + jwtSecret))
	return hex.EncodeToString(sum[:])
}
