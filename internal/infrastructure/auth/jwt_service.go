package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/firasbelhiba/4hacks-backend--sub000/domain"
)

// JWTServiceImpl implements domain.TokenService. Access tokens are
// self-contained: signature and expiry are the only checks, there is no
// server-side revocation path for them.
type JWTServiceImpl struct {
	secretKey      []byte
	issuer         string
	accessTokenTTL time.Duration
}

// NewJWTService creates a new JWT service
func NewJWTService(secretKey string, issuer string, accessTTL time.Duration) domain.TokenService {
	return &JWTServiceImpl{
		secretKey:      []byte(secretKey),
		issuer:         issuer,
		accessTokenTTL: accessTTL,
	}
}

// generateJTI creates a unique JWT ID
func (j *JWTServiceImpl) generateJTI() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// AccessTokenTTL implements domain.TokenService
func (j *JWTServiceImpl) AccessTokenTTL() time.Duration {
	return j.accessTokenTTL
}

// GenerateAccessToken implements domain.TokenService
func (j *JWTServiceImpl) GenerateAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"email":    user.Email,
		"username": user.Username,
		"role":     user.Role,
		"iss":      j.issuer,
		"iat":      now.Unix(),
		"exp":      now.Add(j.accessTokenTTL).Unix(),
		"jti":      j.generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// ValidateAccessToken implements domain.TokenService
func (j *JWTServiceImpl) ValidateAccessToken(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidCredentials
		}
		return j.secretKey, nil
	})

	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	email, ok := claims["email"].(string)
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	username, ok := claims["username"].(string)
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	role, ok := claims["role"].(string)
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	if time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, domain.ErrInvalidCredentials
	}

	return &domain.TokenClaims{
		UserID:    uint(sub),
		Email:     email,
		Username:  username,
		Role:      role,
		IssuedAt:  int64(iat),
		ExpiresAt: int64(exp),
	}, nil
}
