package app

import (
	"context"

	"github.com/firasbelhiba/4hacks-backend--sub000/domain"
	"github.com/firasbelhiba/4hacks-backend--sub000/internal/config"
	"github.com/firasbelhiba/4hacks-backend--sub000/internal/services"
)

// Bootstrap builds the dependency container, seeds default moderation
// policies and runs startup housekeeping. The API-facing transport layer
// mounts on the returned container.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Container, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, err
	}

	if err := c.RedisClient.Ping(ctx).Err(); err != nil {
		c.Close()
		return nil, err
	}

	seedPolicies(c)

	if err := c.SessionRepo.DeleteExpired(ctx); err != nil {
		c.Logger.Warn("expired session cleanup failed", "error", err)
	}

	c.Logger.Info("auth core initialized")
	return c, nil
}

// seedPolicies grants admins the moderation permissions when the policy
// table is empty.
func seedPolicies(c *Container) {
	if len(c.PolicySvc.GetPolicies()) > 0 {
		return
	}
	for _, action := range []string{services.ActionBan, services.ActionUnban} {
		if err := c.PolicySvc.AddPolicy(domain.RoleAdmin, services.ResourceUsers, action); err != nil {
			c.Logger.Warn("failed to seed policy", "action", action, "error", err)
		}
	}
	c.Logger.Info("seeded default moderation policies")
}
