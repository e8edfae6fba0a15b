package admin

import (
	"errors"
	"strings"

	handlershared "github.com/palmapernia/tp-django/internal/http/handlers/shared"
	"github.com/palmapernia/tp-django/internal/http/response"
	"github.com/palmapernia/tp-django/internal/repository"
	"github.com/palmapernia/tp-django/internal/service"

	"github.com/gin-gonic/gin"
)

type userRolesPayload struct {
	Roles []string `json:"roles"`
}

// GetAdminUsers 获取用户列表
func (h *Handler) GetAdminUsers(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)

	createdFrom, err := parseTimeNullable(c.Query("created_from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseTimeNullable(c.Query("created_to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	users, total, err := h.UserAdminService.List(repository.UserListFilter{
		Page:        page,
		PageSize:    pageSize,
		Keyword:     strings.TrimSpace(c.Query("keyword")),
		Status:      strings.TrimSpace(c.Query("status")),
		StaffOnly:   strings.EqualFold(strings.TrimSpace(c.Query("staff")), "true"),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.user_fetch_failed", err)
		return
	}
	response.Page(c, users, page, pageSize, total)
}

// DeleteAdminUser 删除用户
func (h *Handler) DeleteAdminUser(c *gin.Context) {
	operatorID, ok := getUserID(c)
	if !ok {
		return
	}
	userID, ok := handlershared.ParseUintParam(c, "id", "error.user_id_invalid")
	if !ok {
		return
	}

	if err := h.UserAdminService.Delete(operatorID, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrCannotDeleteSelf):
			respondError(c, response.CodeBadRequest, "error.cannot_delete_self", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.user_delete_failed", err)
		}
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// GetAdminUserRoles 获取用户角色
func (h *Handler) GetAdminUserRoles(c *gin.Context) {
	userID, ok := handlershared.ParseUintParam(c, "id", "error.user_id_invalid")
	if !ok {
		return
	}
	roles, err := h.UserAdminService.GetRoles(userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.authz_fetch_failed", err)
		return
	}
	response.Success(c, gin.H{"user_id": userID, "roles": roles})
}

// SetAdminUserRoles 覆盖设置用户角色
func (h *Handler) SetAdminUserRoles(c *gin.Context) {
	userID, ok := handlershared.ParseUintParam(c, "id", "error.user_id_invalid")
	if !ok {
		return
	}
	var req userRolesPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	roles, err := h.UserAdminService.SetRoles(userID, req.Roles)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
			return
		}
		respondAuthzError(c, err)
		return
	}
	requestLog(c).Infow("admin_user_roles_updated",
		"operator", currentUsername(c),
		"user_id", userID,
		"roles", roles,
	)
	response.Success(c, gin.H{"user_id": userID, "roles": roles})
}
