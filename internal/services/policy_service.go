package services

import (
	"github.com/casbin/casbin/v2"

	"github.com/firasbelhiba/4hacks-backend--sub000/domain"
)

// Moderation vocabulary enforced through the policy store. Roles come
// from domain; the policy layer owns which resources and actions may be
// asked of it.
const (
	ResourceUsers = "users"

	ActionBan   = "ban"
	ActionUnban = "unban"
)

// *casbin.Enforcer carries exactly the method set the domain asks for,
// so it plugs in without an adapter and tests can substitute an
// in-memory enforcer.
var _ domain.CasbinEnforcer = (*casbin.Enforcer)(nil)

// PolicyServiceImpl implements domain.PolicyService on a Casbin enforcer
// whose rule set is persisted through the application database.
type PolicyServiceImpl struct {
	enforcer domain.CasbinEnforcer
}

// NewPolicyService creates a new policy service
func NewPolicyService(enforcer domain.CasbinEnforcer) domain.PolicyService {
	return &PolicyServiceImpl{enforcer: enforcer}
}

// AddPolicy grants role the action on resource and persists the rule set.
func (p *PolicyServiceImpl) AddPolicy(role, resource, action string) error {
	if _, err := p.enforcer.AddPolicy(role, resource, action); err != nil {
		return err
	}
	return p.enforcer.SavePolicy()
}

// RemovePolicy revokes a previously granted rule and persists the rule set.
func (p *PolicyServiceImpl) RemovePolicy(role, resource, action string) error {
	if _, err := p.enforcer.RemovePolicy(role, resource, action); err != nil {
		return err
	}
	return p.enforcer.SavePolicy()
}

// CheckPermission reports whether role may perform action on resource.
func (p *PolicyServiceImpl) CheckPermission(role, resource, action string) (bool, error) {
	return p.enforcer.Enforce(role, resource, action)
}

// GetPolicies lists the current rule set.
func (p *PolicyServiceImpl) GetPolicies() [][]string {
	policies, _ := p.enforcer.GetPolicy()
	return policies
}
