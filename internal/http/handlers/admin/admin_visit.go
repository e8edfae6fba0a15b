package admin

import (
	"strings"

	handlershared "github.com/palmapernia/tp-django/internal/http/handlers/shared"
	"github.com/palmapernia/tp-django/internal/http/response"
	"github.com/palmapernia/tp-django/internal/i18n"
	"github.com/palmapernia/tp-django/internal/repository"

	"github.com/gin-gonic/gin"
)

// VisitResetRequest 清空访问数据请求
type VisitResetRequest struct {
	Confirm bool `json:"confirm"`
}

// GetPageViews 访问记录列表
func (h *Handler) GetPageViews(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)

	userID, err := handlershared.ParseUintQuery(c, "user_id")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	from, err := parseTimeNullable(c.Query("from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	to, err := parseTimeNullable(c.Query("to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	views, total, err := h.VisitAdminService.ListPageViews(repository.PageViewListFilter{
		Page:      page,
		PageSize:  pageSize,
		URLPrefix: strings.TrimSpace(c.Query("url")),
		VisitorID: strings.TrimSpace(c.Query("visitor_id")),
		UserID:    userID,
		From:      from,
		To:        to,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.visit_fetch_failed", err)
		return
	}
	response.Page(c, views, page, pageSize, total)
}

// GetDailyVisits 每日访问汇总列表
func (h *Handler) GetDailyVisits(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)

	dateFrom, err := parseDateNullable(c.Query("date_from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	dateTo, err := parseDateNullable(c.Query("date_to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	rows, total, err := h.VisitAdminService.ListDailyVisits(repository.DailyVisitListFilter{
		Page:     page,
		PageSize: pageSize,
		DateFrom: dateFrom,
		DateTo:   dateTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.visit_fetch_failed", err)
		return
	}
	response.Page(c, rows, page, pageSize, total)
}

// ResetVisits 清空全部访问数据，未确认时只返回当前数量
func (h *Handler) ResetVisits(c *gin.Context) {
	var req VisitResetRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}

	result, err := h.VisitAdminService.Reset(c.Request.Context(), req.Confirm)
	if err != nil {
		respondError(c, response.CodeInternal, "error.visit_reset_failed", err)
		return
	}
	if result.Confirmed {
		requestLog(c).Infow("admin_visit_reset",
			"operator", currentUsername(c),
			"page_views", result.PageViews,
			"daily_aggregates", result.DailyAggregates,
		)
	}
	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.Sprintf(locale, result.MessageKey, result.PageViews, result.DailyAggregates), result)
}
