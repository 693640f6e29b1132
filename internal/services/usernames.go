package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/firasbelhiba/4hacks-backend--sub000/domain"
)

// usernameCandidates is how many suffixed candidates are probed, in one
// batch query, before giving up and asking the caller to retry.
const usernameCandidates = 5

// deriveUsernameBase turns an email local-part into a username candidate:
// lowercase, alphanumeric only.
func deriveUsernameBase(email string) string {
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	var b strings.Builder
	for _, r := range strings.ToLower(local) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}

// allocateUsername returns the base username when free, otherwise probes a
// batch of randomized numeric-suffixed candidates with a single existence
// query. All-collide returns ErrUsernameExhausted, which is retryable.
func allocateUsername(ctx context.Context, userRepo domain.UserRepository, base string) (string, error) {
	taken, err := userRepo.ExistingUsernames(ctx, []string{base})
	if err != nil {
		return "", fmt.Errorf("failed to check username: %w", err)
	}
	if !taken[base] {
		return base, nil
	}

	candidates := make([]string, 0, usernameCandidates)
	for i := 0; i < usernameCandidates; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(9999))
		if err != nil {
			return "", fmt.Errorf("failed to generate username suffix: %w", err)
		}
		candidates = append(candidates, fmt.Sprintf("%s%d", base, n.Int64()+1))
	}

	existing, err := userRepo.ExistingUsernames(ctx, candidates)
	if err != nil {
		return "", fmt.Errorf("failed to check username candidates: %w", err)
	}
	for _, candidate := range candidates {
		if !existing[candidate] {
			return candidate, nil
		}
	}
	return "", domain.ErrUsernameExhausted
}
