// Package casbin answers global capability questions, such as whether a user
// may edit overdue orders, from a casbin RBAC policy. Policy lines either grant
// a capability to a user or role ("p, <subject>, <capability>") or put a user
// into a role ("g, <user-id>, <role>").
package casbin

import (
	"context"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
)

const capabilityModel = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj
`

// CapabilityChecker implements services.CapabilityChecker and
// commands.CapabilityPolicy.
type CapabilityChecker struct {
	enforcer *casbin.SyncedEnforcer
	persist  bool
}

// NewCapabilityChecker loads the policy CSV at policyPath. An empty path starts
// with an empty in-memory policy. Policy changes are written back to the file.
func NewCapabilityChecker(policyPath string) (*CapabilityChecker, error) {
	m, err := model.NewModelFromString(capabilityModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse capability model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	if policyPath == "" {
		enforcer, err = casbin.NewSyncedEnforcer(m)
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(policyPath))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize capability enforcer: %w", err)
	}

	return &CapabilityChecker{enforcer: enforcer, persist: policyPath != ""}, nil
}

func (c *CapabilityChecker) HasCapability(_ context.Context, userID kernel.UUID, capability string) (bool, error) {
	allowed, err := c.enforcer.Enforce(userID.String(), capability)
	if err != nil {
		return false, fmt.Errorf("capability check failed: %w", err)
	}
	return allowed, nil
}

// Allow grants capability directly to the user.
func (c *CapabilityChecker) Allow(_ context.Context, userID kernel.UUID, capability string) error {
	if _, err := c.enforcer.AddPolicy(userID.String(), capability); err != nil {
		return fmt.Errorf("failed to add capability policy: %w", err)
	}
	return c.save()
}

// AllowRole grants capability to every member of role.
func (c *CapabilityChecker) AllowRole(_ context.Context, role, capability string) error {
	if _, err := c.enforcer.AddPolicy(role, capability); err != nil {
		return fmt.Errorf("failed to add role policy: %w", err)
	}
	return c.save()
}

// AssignRole makes the user a member of role.
func (c *CapabilityChecker) AssignRole(_ context.Context, userID kernel.UUID, role string) error {
	if _, err := c.enforcer.AddRoleForUser(userID.String(), role); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	return c.save()
}

// save rewrites the policy file. The file adapter cannot append single rules.
func (c *CapabilityChecker) save() error {
	if !c.persist {
		return nil
	}
	if err := c.enforcer.SavePolicy(); err != nil {
		return fmt.Errorf("failed to save capability policy: %w", err)
	}
	return nil
}
