package public

import "github.com/palmapernia/tp-django/internal/provider"

// Handler 前台/公开接口处理器入口
// 说明：该处理器用于游客与登录用户侧 API（账号、博客、投票）。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
