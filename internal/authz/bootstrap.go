package authz

import (
	"fmt"

	"github.com/palmapernia/tp-django/internal/logger"
)

// BootstrapBuiltinRoles 按预置矩阵同步 analyst/staff 角色
// 预置角色上多出的规则会被移除，矩阵调整后重启即可生效。
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, seed := range BuiltinRoles() {
		role, err := s.CreateRole(seed.Role)
		if err != nil {
			return err
		}
		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}
		if err := s.syncRoleRules(role, seed.Permissions); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) syncRoleRules(role string, keys []string) error {
	desired := map[Rule]struct{}{}
	for _, key := range keys {
		perm, ok := LookupPermission(key)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPermission, key)
		}
		for _, rule := range perm.Rules {
			desired[normalizeRule(rule)] = struct{}{}
		}
	}

	current, err := s.enforcer.GetFilteredPolicy(0, role)
	if err != nil {
		return fmt.Errorf("get builtin role policies failed: %w", err)
	}
	for _, item := range current {
		if len(item) < 3 {
			continue
		}
		rule := Rule{Object: item[1], Action: item[2]}
		if _, keep := desired[rule]; keep {
			delete(desired, rule)
			continue
		}
		if _, err := s.enforcer.RemovePolicy(role, rule.Object, rule.Action); err != nil {
			return fmt.Errorf("remove stale builtin policy failed: %w", err)
		}
		logger.Infow("authz_builtin_rule_removed", "role", role, "object", rule.Object, "action", rule.Action)
	}
	for rule := range desired {
		if _, err := s.enforcer.AddPolicy(role, rule.Object, rule.Action); err != nil {
			return fmt.Errorf("add builtin policy failed: %w", err)
		}
	}
	return nil
}
