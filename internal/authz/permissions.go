package authz

import (
	"sort"

	"github.com/palmapernia/tp-django/internal/constants"
)

// 后台权限标识
const (
	PermDashboardView   = "dashboard.view"
	PermVisitsView      = "visits.view"
	PermVisitsReset     = "visits.reset"
	PermUsersView       = "users.view"
	PermUsersDelete     = "users.delete"
	PermUsersAssignRole = "users.assign_roles"
	PermLoginLogsView   = "login_logs.view"
	PermAuthzManage     = "authz.manage"
)

// Rule 单条 casbin 规则（资源 + 动作）
type Rule struct {
	Object string `json:"object"`
	Action string `json:"action"`
}

// Permission 后台权限，由一组路由规则组成
type Permission struct {
	Key    string `json:"key"`
	Module string `json:"module"`
	Rules  []Rule `json:"rules"`
}

var catalog = []Permission{
	{Key: PermDashboardView, Module: "dashboard", Rules: []Rule{
		{Object: "/admin/dashboard/*", Action: "GET"},
	}},
	{Key: PermVisitsView, Module: "visits", Rules: []Rule{
		{Object: "/admin/visits", Action: "GET"},
		{Object: "/admin/daily-visits", Action: "GET"},
	}},
	{Key: PermVisitsReset, Module: "visits", Rules: []Rule{
		{Object: "/admin/visits/reset", Action: "POST"},
	}},
	{Key: PermUsersView, Module: "users", Rules: []Rule{
		{Object: "/admin/users", Action: "GET"},
		{Object: "/admin/users/:id/roles", Action: "GET"},
	}},
	{Key: PermUsersDelete, Module: "users", Rules: []Rule{
		{Object: "/admin/users/:id", Action: "DELETE"},
	}},
	{Key: PermUsersAssignRole, Module: "users", Rules: []Rule{
		{Object: "/admin/users/:id/roles", Action: "PUT"},
	}},
	{Key: PermLoginLogsView, Module: "users", Rules: []Rule{
		{Object: "/admin/user-login-logs", Action: "GET"},
	}},
	{Key: PermAuthzManage, Module: "authz", Rules: []Rule{
		{Object: "/admin/authz/roles", Action: "GET"},
		{Object: "/admin/authz/roles", Action: "POST"},
		{Object: "/admin/authz/roles/:role/permissions", Action: "GET"},
		{Object: "/admin/authz/permissions", Action: "GET"},
		{Object: "/admin/authz/grants", Action: "POST"},
		{Object: "/admin/authz/grants", Action: "DELETE"},
	}},
}

// Catalog 返回全部后台权限（按模块、标识排序）
func Catalog() []Permission {
	items := make([]Permission, len(catalog))
	copy(items, catalog)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			return items[i].Key < items[j].Key
		}
		return items[i].Module < items[j].Module
	})
	return items
}

// LookupPermission 按标识查找权限
func LookupPermission(key string) (Permission, bool) {
	for _, item := range catalog {
		if item.Key == key {
			return item, true
		}
	}
	return Permission{}, false
}

// RoleSeed 预置角色
type RoleSeed struct {
	Role        string
	Inherits    []string
	Permissions []string
}

// BuiltinRoles 预置角色：analyst 只读统计，staff 额外可清空访问数据并管理用户
func BuiltinRoles() []RoleSeed {
	return []RoleSeed{
		{
			Role:        constants.RoleAnalyst,
			Permissions: []string{PermDashboardView, PermVisitsView},
		},
		{
			Role:        constants.RoleStaff,
			Inherits:    []string{constants.RoleAnalyst},
			Permissions: []string{PermVisitsReset, PermUsersView, PermUsersDelete, PermLoginLogsView},
		},
	}
}

// IsBuiltinRole 是否为预置角色
func IsBuiltinRole(role string) bool {
	normalized, err := NormalizeRole(role)
	if err != nil {
		return false
	}
	for _, seed := range BuiltinRoles() {
		if rolePrefix+seed.Role == normalized {
			return true
		}
	}
	return false
}
