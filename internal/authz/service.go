package authz

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	apiV1Prefix     = "/api/v1"
	casbinTableName = "casbin_rule"
	userSubjectFmt  = "user:%d"
	rolePrefix      = "role:"
	// 自定义角色没有策略时也需要落库，借助该锚点记录角色声明
	roleAnchor = "role:__declared__"
)

var (
	ErrUnavailable       = errors.New("authz service unavailable")
	ErrRoleRequired      = errors.New("role is required")
	ErrRoleReserved      = errors.New("role name is reserved")
	ErrUnknownRole       = errors.New("unknown role")
	ErrBuiltinRole       = errors.New("builtin role cannot be modified")
	ErrUnknownPermission = errors.New("unknown permission")
	ErrUserRequired      = errors.New("user id is required")
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && keyMatch2(r.obj, p.obj) && r.act == p.act
`

// RoleInfo 角色概要
type RoleInfo struct {
	Role        string   `json:"role"`
	Builtin     bool     `json:"builtin"`
	Inherits    []string `json:"inherits"`
	Permissions []string `json:"permissions"`
}

// Service 后台 RBAC：角色、权限分配与路由授权判定
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 创建授权服务，策略存放于 casbin_rule 表
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("authz db is nil")
	}
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter failed: %w", err)
	}
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model failed: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer failed: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy failed: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

func (s *Service) ready() error {
	if s == nil || s.enforcer == nil {
		return ErrUnavailable
	}
	return nil
}

// EnforceUser 判定用户能否以 act 访问路由 obj
func (s *Service) EnforceUser(userID uint, obj, act string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	return s.enforcer.Enforce(SubjectForUser(userID), NormalizeObject(obj), NormalizeAction(act))
}

// HasPermission 用户是否具备某项后台权限（需覆盖其全部规则）
func (s *Service) HasPermission(userID uint, key string) (bool, error) {
	perm, ok := LookupPermission(key)
	if !ok {
		return false, ErrUnknownPermission
	}
	for _, rule := range perm.Rules {
		allowed, err := s.EnforceUser(userID, rule.Object, rule.Action)
		if err != nil || !allowed {
			return false, err
		}
	}
	return true, nil
}

// UserPermissions 用户生效的权限标识（含继承）
func (s *Service) UserPermissions(userID uint) ([]string, error) {
	if userID == 0 {
		return nil, ErrUserRequired
	}
	keys := make([]string, 0, len(catalog))
	for _, perm := range Catalog() {
		allowed, err := s.HasPermission(userID, perm.Key)
		if err != nil {
			return nil, err
		}
		if allowed {
			keys = append(keys, perm.Key)
		}
	}
	return keys, nil
}

// CreateRole 声明自定义角色，已存在时直接返回
func (s *Service) CreateRole(role string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	normalized, err := NormalizeRole(role)
	if err != nil {
		return "", err
	}
	if normalized == roleAnchor {
		return "", ErrRoleReserved
	}
	if _, err := s.enforcer.AddNamedGroupingPolicy("g", normalized, roleAnchor); err != nil {
		return "", fmt.Errorf("create role failed: %w", err)
	}
	return normalized, nil
}

func (s *Service) roleDeclared(role string) (bool, error) {
	ok, err := s.enforcer.HasNamedGroupingPolicy("g", role, roleAnchor)
	if err != nil {
		return false, fmt.Errorf("check role failed: %w", err)
	}
	return ok, nil
}

// ListRoles 列出已声明角色及其直接权限
func (s *Service) ListRoles() ([]RoleInfo, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	declared, err := s.enforcer.GetFilteredNamedGroupingPolicy("g", 1, roleAnchor)
	if err != nil {
		return nil, fmt.Errorf("list roles failed: %w", err)
	}
	roles := make([]RoleInfo, 0, len(declared))
	for _, rule := range declared {
		if len(rule) < 1 {
			continue
		}
		info, err := s.describeRole(rule[0])
		if err != nil {
			return nil, err
		}
		roles = append(roles, info)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Role < roles[j].Role })
	return roles, nil
}

func (s *Service) describeRole(role string) (RoleInfo, error) {
	info := RoleInfo{Role: role, Builtin: IsBuiltinRole(role), Inherits: []string{}}
	parents, err := s.enforcer.GetFilteredNamedGroupingPolicy("g", 0, role)
	if err != nil {
		return info, fmt.Errorf("list role parents failed: %w", err)
	}
	for _, rule := range parents {
		if len(rule) >= 2 && rule[1] != roleAnchor {
			info.Inherits = append(info.Inherits, rule[1])
		}
	}
	sort.Strings(info.Inherits)
	info.Permissions, err = s.directPermissions(role)
	return info, err
}

// RolePermissions 角色直接拥有的权限标识
func (s *Service) RolePermissions(role string) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	normalized, err := NormalizeRole(role)
	if err != nil {
		return nil, err
	}
	declared, err := s.roleDeclared(normalized)
	if err != nil {
		return nil, err
	}
	if !declared {
		return nil, ErrUnknownRole
	}
	return s.directPermissions(normalized)
}

func (s *Service) directPermissions(role string) ([]string, error) {
	rules, err := s.enforcer.GetFilteredPolicy(0, role)
	if err != nil {
		return nil, fmt.Errorf("get role policies failed: %w", err)
	}
	held := make(map[Rule]struct{}, len(rules))
	for _, rule := range rules {
		if len(rule) >= 3 {
			held[Rule{Object: rule[1], Action: rule[2]}] = struct{}{}
		}
	}
	keys := []string{}
	for _, perm := range Catalog() {
		covered := true
		for _, rule := range perm.Rules {
			if _, ok := held[normalizeRule(rule)]; !ok {
				covered = false
				break
			}
		}
		if covered {
			keys = append(keys, perm.Key)
		}
	}
	return keys, nil
}

// GrantPermission 为自定义角色授予权限，角色不存在时自动声明
func (s *Service) GrantPermission(role, key string) error {
	normalized, perm, err := s.resolveMutableGrant(role, key)
	if err != nil {
		return err
	}
	if _, err := s.CreateRole(normalized); err != nil {
		return err
	}
	for _, rule := range perm.Rules {
		rule = normalizeRule(rule)
		if _, err := s.enforcer.AddPolicy(normalized, rule.Object, rule.Action); err != nil {
			return fmt.Errorf("grant permission failed: %w", err)
		}
	}
	return nil
}

// RevokePermission 撤销自定义角色的权限
func (s *Service) RevokePermission(role, key string) error {
	normalized, perm, err := s.resolveMutableGrant(role, key)
	if err != nil {
		return err
	}
	for _, rule := range perm.Rules {
		rule = normalizeRule(rule)
		if _, err := s.enforcer.RemovePolicy(normalized, rule.Object, rule.Action); err != nil {
			return fmt.Errorf("revoke permission failed: %w", err)
		}
	}
	return nil
}

func (s *Service) resolveMutableGrant(role, key string) (string, Permission, error) {
	if err := s.ready(); err != nil {
		return "", Permission{}, err
	}
	normalized, err := NormalizeRole(role)
	if err != nil {
		return "", Permission{}, err
	}
	if IsBuiltinRole(normalized) {
		return "", Permission{}, ErrBuiltinRole
	}
	perm, ok := LookupPermission(strings.TrimSpace(key))
	if !ok {
		return "", Permission{}, ErrUnknownPermission
	}
	return normalized, perm, nil
}

// SetUserRoles 覆盖设置用户角色，角色必须已声明
func (s *Service) SetUserRoles(userID uint, roles []string) error {
	if userID == 0 {
		return ErrUserRequired
	}
	if err := s.ready(); err != nil {
		return err
	}
	normalized := make([]string, 0, len(roles))
	for _, role := range roles {
		name, err := NormalizeRole(role)
		if err != nil {
			return err
		}
		declared, err := s.roleDeclared(name)
		if err != nil {
			return err
		}
		if !declared {
			return fmt.Errorf("%w: %s", ErrUnknownRole, name)
		}
		normalized = append(normalized, name)
	}

	subject := SubjectForUser(userID)
	if _, err := s.enforcer.RemoveFilteredNamedGroupingPolicy("g", 0, subject); err != nil {
		return fmt.Errorf("clear user roles failed: %w", err)
	}
	for _, role := range normalized {
		if _, err := s.enforcer.AddNamedGroupingPolicy("g", subject, role); err != nil {
			return fmt.Errorf("assign user role failed: %w", err)
		}
	}
	return nil
}

// GetUserRoles 用户直接分配的角色
func (s *Service) GetUserRoles(userID uint) ([]string, error) {
	if userID == 0 {
		return nil, ErrUserRequired
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	rules, err := s.enforcer.GetFilteredNamedGroupingPolicy("g", 0, SubjectForUser(userID))
	if err != nil {
		return nil, fmt.Errorf("get user roles failed: %w", err)
	}
	roles := make([]string, 0, len(rules))
	for _, rule := range rules {
		if len(rule) >= 2 {
			roles = append(roles, rule[1])
		}
	}
	sort.Strings(roles)
	return roles, nil
}

// RemoveUser 删除用户时清理其角色分配
func (s *Service) RemoveUser(userID uint) error {
	if err := s.ready(); err != nil {
		return err
	}
	subject := SubjectForUser(userID)
	if _, err := s.enforcer.RemoveFilteredNamedGroupingPolicy("g", 0, subject); err != nil {
		return fmt.Errorf("clear user roles failed: %w", err)
	}
	if _, err := s.enforcer.RemoveFilteredPolicy(0, subject); err != nil {
		return fmt.Errorf("clear user policies failed: %w", err)
	}
	return nil
}

func normalizeRule(rule Rule) Rule {
	return Rule{Object: NormalizeObject(rule.Object), Action: NormalizeAction(rule.Action)}
}

// SubjectForUser 用户主体标识
func SubjectForUser(userID uint) string {
	return fmt.Sprintf(userSubjectFmt, userID)
}

// NormalizeRole 角色名统一加 role: 前缀，空白替换为下划线
func NormalizeRole(role string) (string, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(role), " ", "_")
	normalized = strings.TrimPrefix(normalized, rolePrefix)
	if normalized == "" {
		return "", ErrRoleRequired
	}
	return rolePrefix + strings.ToLower(normalized), nil
}

// NormalizeObject 去掉 /api/v1 前缀，保证以 / 开头
func NormalizeObject(object string) string {
	normalized := strings.TrimSpace(object)
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	if normalized == apiV1Prefix {
		return "/"
	}
	if strings.HasPrefix(normalized, apiV1Prefix+"/") {
		return strings.TrimPrefix(normalized, apiV1Prefix)
	}
	return normalized
}

// NormalizeAction HTTP 方法大写
func NormalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}
