package admin

import (
	"strings"

	"github.com/palmapernia/tp-django/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDashboardOverview 获取后台仪表盘总览
func (h *Handler) GetDashboardOverview(c *gin.Context) {
	forceRefresh := strings.EqualFold(strings.TrimSpace(c.Query("refresh")), "true")
	data, err := h.DashboardService.GetOverview(c.Request.Context(), forceRefresh)
	if err != nil {
		respondError(c, response.CodeInternal, "error.dashboard_fetch_failed", err)
		return
	}
	response.Success(c, data)
}
