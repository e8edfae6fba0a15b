package response

import (
	"net/http"

	"github.com/palmapernia/tp-django/internal/i18n"

	"github.com/gin-gonic/gin"
)

// RequestIDKey 请求 ID 在 gin.Context 中的 key，错误响应会带上它
const RequestIDKey = "request_id"

// Response 统一响应结构，HTTP 状态恒为 200，业务结果看 status_code
type Response struct {
	StatusCode int         `json:"status_code"`
	Msg        string      `json:"msg"`
	Data       interface{} `json:"data"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	Response
	Pagination Pagination `json:"pagination"`
}

// Pagination 分页信息
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

// NewPagination 根据总数计算总页数
func NewPagination(page, pageSize int, total int64) Pagination {
	p := Pagination{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		p.TotalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return p
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	SuccessWithMsg(c, "success", data)
}

// SuccessWithMsg 成功响应（自定义消息）
func SuccessWithMsg(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, Response{StatusCode: CodeOK, Msg: msg, Data: data})
}

// Page 分页成功响应
func Page(c *gin.Context, data interface{}, page, pageSize int, total int64) {
	c.JSON(http.StatusOK, PageResponse{
		Response:   Response{StatusCode: CodeOK, Msg: "success", Data: data},
		Pagination: NewPagination(page, pageSize, total),
	})
}

// Error 错误响应，消息已由调用方渲染
func Error(c *gin.Context, statusCode int, msg string) {
	c.JSON(http.StatusOK, Response{
		StatusCode: statusCode,
		Msg:        msg,
		Data:       withRequestID(c),
	})
}

// Fail 按请求语言渲染业务错误
func Fail(c *gin.Context, err *AppError) {
	if err == nil {
		err = ErrInternal
	}
	Error(c, err.Code, err.Message(i18n.ResolveLocale(c)))
}

func withRequestID(c *gin.Context) interface{} {
	if c == nil {
		return nil
	}
	if id := c.GetString(RequestIDKey); id != "" {
		return gin.H{RequestIDKey: id}
	}
	return nil
}
