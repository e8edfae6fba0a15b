package admin

import (
	"strings"

	handlershared "github.com/palmapernia/tp-django/internal/http/handlers/shared"
	"github.com/palmapernia/tp-django/internal/http/response"
	"github.com/palmapernia/tp-django/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetUserLoginLogs 获取用户登录日志列表
func (h *Handler) GetUserLoginLogs(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)

	userID, err := handlershared.ParseUintQuery(c, "user_id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
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

	logs, total, err := h.UserLoginLogService.ListForAdmin(repository.UserLoginLogListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      userID,
		Username:    strings.TrimSpace(c.Query("username")),
		Status:      strings.TrimSpace(c.Query("status")),
		ClientIP:    strings.TrimSpace(c.Query("client_ip")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.user_login_log_fetch_failed", err)
		return
	}
	response.Page(c, logs, page, pageSize, total)
}
