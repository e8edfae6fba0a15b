package admin

import (
	"errors"
	"net/url"
	"strings"

	"github.com/palmapernia/tp-django/internal/authz"
	"github.com/palmapernia/tp-django/internal/http/response"

	"github.com/gin-gonic/gin"
)

type authzRolePayload struct {
	Role string `json:"role" binding:"required"`
}

type authzGrantPayload struct {
	Role       string `json:"role" binding:"required"`
	Permission string `json:"permission" binding:"required"`
}

var authzErrorRules = []struct {
	target error
	code   int
	key    string
}{
	{target: authz.ErrRoleRequired, code: response.CodeBadRequest, key: "error.bad_request"},
	{target: authz.ErrRoleReserved, code: response.CodeBadRequest, key: "error.role_reserved"},
	{target: authz.ErrUnknownRole, code: response.CodeNotFound, key: "error.role_unknown"},
	{target: authz.ErrBuiltinRole, code: response.CodeForbidden, key: "error.role_builtin"},
	{target: authz.ErrUnknownPermission, code: response.CodeBadRequest, key: "error.permission_unknown"},
}

func respondAuthzError(c *gin.Context, err error) {
	for _, rule := range authzErrorRules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, response.CodeInternal, "error.authz_fetch_failed", err)
}

// GetAuthzMe 当前用户的角色与生效权限
func (h *Handler) GetAuthzMe(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	roles, err := h.AuthzService.GetUserRoles(userID)
	if err != nil {
		respondAuthzError(c, err)
		return
	}
	permissions, err := h.AuthzService.UserPermissions(userID)
	if err != nil {
		respondAuthzError(c, err)
		return
	}
	if isSuperuser(c) {
		permissions = permissions[:0]
		for _, perm := range authz.Catalog() {
			permissions = append(permissions, perm.Key)
		}
	}
	response.Success(c, gin.H{
		"user_id":      userID,
		"username":     currentUsername(c),
		"is_superuser": isSuperuser(c),
		"roles":        roles,
		"permissions":  permissions,
	})
}

// ListAuthzPermissions 后台权限目录
func (h *Handler) ListAuthzPermissions(c *gin.Context) {
	response.Success(c, authz.Catalog())
}

// ListAuthzRoles 角色列表
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondAuthzError(c, err)
		return
	}
	response.Success(c, roles)
}

// CreateAuthzRole 声明自定义角色
func (h *Handler) CreateAuthzRole(c *gin.Context) {
	var req authzRolePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	role, err := h.AuthzService.CreateRole(req.Role)
	if err != nil {
		respondAuthzError(c, err)
		return
	}
	requestLog(c).Infow("admin_authz_role_created", "operator", currentUsername(c), "role", role)
	response.Success(c, gin.H{"role": role})
}

// GetAuthzRolePermissions 角色直接拥有的权限
func (h *Handler) GetAuthzRolePermissions(c *gin.Context) {
	role := decodeRoleParam(c.Param("role"))
	permissions, err := h.AuthzService.RolePermissions(role)
	if err != nil {
		respondAuthzError(c, err)
		return
	}
	response.Success(c, gin.H{"role": role, "permissions": permissions})
}

// GrantAuthzPermission 为自定义角色授予权限
func (h *Handler) GrantAuthzPermission(c *gin.Context) {
	var req authzGrantPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.AuthzService.GrantPermission(req.Role, req.Permission); err != nil {
		respondAuthzError(c, err)
		return
	}
	requestLog(c).Infow("admin_authz_permission_granted",
		"operator", currentUsername(c),
		"role", req.Role,
		"permission", req.Permission,
	)
	response.Success(c, nil)
}

// RevokeAuthzPermission 撤销自定义角色的权限
func (h *Handler) RevokeAuthzPermission(c *gin.Context) {
	var req authzGrantPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.AuthzService.RevokePermission(req.Role, req.Permission); err != nil {
		respondAuthzError(c, err)
		return
	}
	requestLog(c).Infow("admin_authz_permission_revoked",
		"operator", currentUsername(c),
		"role", req.Role,
		"permission", req.Permission,
	)
	response.Success(c, nil)
}

func decodeRoleParam(raw string) string {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return strings.TrimSpace(decoded)
}
