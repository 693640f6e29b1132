package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/firasbelhiba/4hacks-backend--sub000/domain"
)

// opaqueTokenBytes is the entropy of a bearer token. Hex-encoded it yields
// a 128-character value.
const opaqueTokenBytes = 64

// OpaqueTokenGenerator implements domain.OpaqueTokenService. Tokens are
// plain random bytes handed to the client once; the store only ever sees
// the keyed digest, so a leaked table cannot be replayed as bearer values.
type OpaqueTokenGenerator struct {
	digestKey []byte
}

// NewOpaqueTokenGenerator creates a generator whose digests are keyed with
// the given secret.
func NewOpaqueTokenGenerator(secret string) domain.OpaqueTokenService {
	return &OpaqueTokenGenerator{digestKey: []byte(secret)}
}

// Generate implements domain.OpaqueTokenService
func (g *OpaqueTokenGenerator) Generate() (string, error) {
	bytes := make([]byte, opaqueTokenBytes)
	if _, err := io.ReadFull(rand.Reader, bytes); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// Digest implements domain.OpaqueTokenService
func (g *OpaqueTokenGenerator) Digest(raw string) string {
	mac := hmac.New(sha256.New, g.digestKey)
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}
