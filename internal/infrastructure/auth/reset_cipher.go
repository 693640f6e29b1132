package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/firasbelhiba/4hacks-backend--sub000/domain"
)

// resetPayloadV1 is the version byte prepended to the serialized payload
// before encryption. Decrypt rejects anything else, so a future key or
// algorithm rotation can dispatch on version instead of invalidating every
// in-flight reset link.
const resetPayloadV1 = 0x01

// ResetCipherImpl implements domain.ResetCipher using AES-CTR with a fresh
// random 16-byte IV per call. The produced blob is IV||ciphertext,
// base64url-encoded without padding.
type ResetCipherImpl struct {
	key []byte
}

// NewResetCipher derives a 256-bit AES key from the given secret material.
func NewResetCipher(secret string) domain.ResetCipher {
	key := sha256.Sum256([]byte(secret))
	return &ResetCipherImpl{key: key[:]}
}

// Encrypt implements domain.ResetCipher
func (c *ResetCipherImpl) Encrypt(payload *domain.ResetPayload) (string, error) {
	serialized, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to serialize reset payload: %w", err)
	}
	plaintext := append([]byte{resetPayloadV1}, serialized...)

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("failed to generate IV: %w", err)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to initialize cipher: %w", err)
	}

	ciphertext := make([]byte, len(plaintext))
	cipher.NewCTR(block, iv).XORKeyStream(ciphertext, plaintext)

	return base64.RawURLEncoding.EncodeToString(append(iv, ciphertext...)), nil
}

// Decrypt implements domain.ResetCipher. Every failure mode (bad encoding,
// truncated blob, wrong version, unparseable payload) collapses into
// domain.ErrResetTokenInvalid so callers cannot distinguish why a token
// was rejected.
func (c *ResetCipherImpl) Decrypt(encoded string) (*domain.ResetPayload, error) {
	blob, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, domain.ErrResetTokenInvalid
	}
	if len(blob) <= aes.BlockSize {
		return nil, domain.ErrResetTokenInvalid
	}

	iv := blob[:aes.BlockSize]
	ciphertext := blob[aes.BlockSize:]

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, domain.ErrResetTokenInvalid
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCTR(block, iv).XORKeyStream(plaintext, ciphertext)

	if plaintext[0] != resetPayloadV1 {
		return nil, domain.ErrResetTokenInvalid
	}

	var payload domain.ResetPayload
	if err := json.Unmarshal(plaintext[1:], &payload); err != nil {
		return nil, domain.ErrResetTokenInvalid
	}
	if payload.UserID == 0 || payload.CreatedAt <= 0 {
		return nil, domain.ErrResetTokenInvalid
	}

	return &payload, nil
}
